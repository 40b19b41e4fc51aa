package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"room-contention/internal/handler/api"
	reqdto "room-contention/internal/handler/dto/request"
	"room-contention/internal/handler/middleware"
	"room-contention/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Conflicts   *api.ConflictHandler
	WaitingList *api.WaitingListHandler
	Statistics  *api.StatisticsHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers) {
	if err := reqdto.RegisterValidators(); err != nil {
		slog.Error("failed to register request validators", "error", err.Error())
	}
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup.Group("/conflicts"), []route{
			{Method: http.MethodPost, Path: "/detect", Handler: h.Conflicts.Detect},
		})

		addRoutes(apiGroup.Group("/rooms"), []route{
			{Method: http.MethodPost, Path: "/:id/release", Handler: h.Conflicts.ReleaseRoom},
		})

		addRoutes(apiGroup.Group("/waiting-list"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.WaitingList.Join},
			{Method: http.MethodGet, Path: "", Handler: h.WaitingList.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.WaitingList.Get},
			{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.WaitingList.Confirm},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.WaitingList.Cancel},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/statistics", Handler: h.Statistics.Get},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
