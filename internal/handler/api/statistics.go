package api

import (
	"net/http"

	reqdto "room-contention/internal/handler/dto/request"
	"room-contention/internal/handler/httperr"
	"room-contention/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	q queries.StatisticsQueries
}

func NewStatisticsHandler(q queries.StatisticsQueries) *StatisticsHandler {
	return &StatisticsHandler{q: q}
}

// @Summary Contention statistics
// @Description Conflict counts by type, room and day plus waiting list outcomes. Defaults to the last thirty days.
// @Tags statistics
// @Produce json
// @Param room_id query string false "Room ID"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Day after the last (YYYY-MM-DD)"
// @Success 200 {object} queries.StatisticsView
// @Failure 400 {object} httperr.Response
// @Router /api/statistics [get]
func (h *StatisticsHandler) Get(c *gin.Context) {
	var query reqdto.StatisticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	scope, err := query.ToScope()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	view, err := h.q.Get(c.Request.Context(), scope)
	if err != nil {
		httperr.AbortWithKind(c, err, "Internal error")
		return
	}
	c.JSON(http.StatusOK, view)
}
