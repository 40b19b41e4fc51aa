package api

import (
	"net/http"

	reqdto "room-contention/internal/handler/dto/request"
	resdto "room-contention/internal/handler/dto/response"
	"room-contention/internal/handler/httperr"
	"room-contention/internal/usecase/commands"
	"room-contention/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitingListHandler struct {
	cmds commands.ResolutionCommands
	q    queries.WaitingListQueries
}

func NewWaitingListHandler(cmds commands.ResolutionCommands, q queries.WaitingListQueries) *WaitingListHandler {
	return &WaitingListHandler{cmds: cmds, q: q}
}

// @Summary Join waiting list
// @Description Enqueue a request for an occupied room. Rank is priority first, then arrival.
// @Tags waiting-list
// @Accept json
// @Produce json
// @Param request body reqdto.JoinWaitingListRequest true "Join request"
// @Success 201 {object} resdto.WaitingListEntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/waiting-list [post]
func (h *WaitingListHandler) Join(c *gin.Context) {
	var req reqdto.JoinWaitingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid stay", nil)
		return
	}
	result, err := h.cmds.JoinWaitingList(c.Request.Context(), cmd)
	if err != nil {
		httperr.AbortWithKind(c, err, "Join waiting list failed")
		return
	}
	c.Header("Location", "/api/waiting-list/"+result.Entry.ID().String())
	c.JSON(http.StatusCreated, resdto.FromEntry(result.Entry, result.Position))
}

// @Summary Get waiting list entry
// @Description Entry with its current 1-based position when WAITING
// @Tags waiting-list
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} resdto.WaitingListEntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/waiting-list/{id} [get]
func (h *WaitingListHandler) Get(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithKind(c, err, "Failed to load waiting list entry")
		return
	}
	c.JSON(http.StatusOK, resdto.FromWaitingListView(view))
}

// @Summary Query waiting list
// @Description Filter by room, user and status with keyset pagination, newest first
// @Tags waiting-list
// @Produce json
// @Param room_id query string false "Room ID"
// @Param user_id query string false "User ID"
// @Param status query string false "Comma separated statuses"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.WaitingListPageResponse
// @Failure 400 {object} httperr.Response
// @Router /api/waiting-list [get]
func (h *WaitingListHandler) List(c *gin.Context) {
	var query reqdto.ListWaitingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	items, next, err := h.q.List(c.Request.Context(), query.Filter(), query.Cursor(), query.Limit)
	if err != nil {
		httperr.AbortWithKind(c, err, "Internal error")
		return
	}
	resp := resdto.WaitingListPageResponse{Entries: resdto.FromWaitingListViews(items)}
	if next != nil {
		resp.NextCursor = next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Confirm waiting list entry
// @Description Turn a NOTIFIED entry into a confirmed order before its hold expires
// @Tags waiting-list
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param request body reqdto.ConfirmWaitingListRequest false "Confirmation details"
// @Success 200 {object} resdto.ConfirmResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/waiting-list/{id}/confirm [post]
func (h *WaitingListHandler) Confirm(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	var req reqdto.ConfirmWaitingListRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}
	result, err := h.cmds.ConfirmWaitingListEntry(c.Request.Context(), id, req.ToCommand())
	if err != nil {
		httperr.AbortWithKind(c, err, "Confirm failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromConfirmResult(result))
}

// @Summary Cancel waiting list entry
// @Description Cancel a WAITING or NOTIFIED entry. Cancelling a terminal entry is a no-op.
// @Tags waiting-list
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} resdto.CancelResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/waiting-list/{id}/cancel [post]
func (h *WaitingListHandler) Cancel(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	result, err := h.cmds.CancelWaitingListEntry(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithKind(c, err, "Cancel failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromCancelResult(result))
}

func entryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
