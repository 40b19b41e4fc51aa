package api

import (
	"net/http"

	reqdto "room-contention/internal/handler/dto/request"
	resdto "room-contention/internal/handler/dto/response"
	"room-contention/internal/handler/httperr"
	"room-contention/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConflictHandler struct {
	cmds commands.ResolutionCommands
}

func NewConflictHandler(cmds commands.ResolutionCommands) *ConflictHandler {
	return &ConflictHandler{cmds: cmds}
}

// @Summary Detect booking conflict
// @Description Classify a booking attempt. A NONE outcome books the room unless dry_run is set.
// @Tags conflicts
// @Accept json
// @Produce json
// @Param request body reqdto.DetectConflictRequest true "Booking attempt"
// @Success 200 {object} resdto.ConflictResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/conflicts/detect [post]
func (h *ConflictHandler) Detect(c *gin.Context) {
	var req reqdto.DetectConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay", nil)
		return
	}
	result, err := h.cmds.DetectConflict(c.Request.Context(), cmd)
	if err != nil {
		httperr.AbortWithKind(c, err, "Conflict detection failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromConflictResult(result))
}

// @Summary Release room window
// @Description Report a stay window the order system has freed and offer it to the waiting list
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body reqdto.ReleaseRoomRequest true "Freed window"
// @Success 200 {object} resdto.ReleaseRoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/rooms/{id}/release [post]
func (h *ConflictHandler) ReleaseRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room id", nil)
		return
	}
	var req reqdto.ReleaseRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd, err := req.ToCommand(roomID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay", nil)
		return
	}
	result, err := h.cmds.ReleaseRoom(c.Request.Context(), cmd)
	if err != nil {
		httperr.AbortWithKind(c, err, "Room release failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReleaseResult(result))
}
