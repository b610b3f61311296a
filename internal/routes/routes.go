package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fila-atendimento/internal/config"
	"github.com/BruksfildServices01/fila-atendimento/internal/handlers"
	infraRepo "github.com/BruksfildServices01/fila-atendimento/internal/infra/repository"
	"github.com/BruksfildServices01/fila-atendimento/internal/metrics"
	"github.com/BruksfildServices01/fila-atendimento/internal/middleware"
	ucQueue "github.com/BruksfildServices01/fila-atendimento/internal/usecase/queue"
)

// QueueService é implementado por *refresh.Refresher.
type QueueService interface {
	ucQueue.SnapshotProvider
	handlers.Refresher
}

// RegisterRoutes monta a API e as páginas. db e m são opcionais.
func RegisterRoutes(
	r *gin.Engine,
	queue QueueService,
	db *gorm.DB,
	m *metrics.Metrics,
	cfg *config.Config,
) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", m.Handler())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🧠 USE CASES — FILA
	// ======================================================
	listQueueUC := ucQueue.NewListQueue(queue, cfg.PageSize)
	listProceduresUC := ucQueue.NewListProcedures(queue)
	getSummaryUC := ucQueue.NewGetSummary(queue)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	queueHandler := handlers.NewQueueHandler(
		listQueueUC,
		listProceduresUC,
		getSummaryUC,
		queue,
	)

	webHandler := handlers.NewWebHandler(
		listQueueUC,
		getSummaryUC,
		queue,
		cfg.RefreshInterval,
	)

	// ======================================================
	// 🌍 ROTAS WEB (HTML)
	// ======================================================
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/web/queue")
	})

	webGroup := r.Group("/web")
	{
		webGroup.GET("/queue", webHandler.QueuePage)
		webGroup.POST("/queue/refresh", webHandler.Refresh)
		webGroup.GET("/summary", webHandler.SummaryPage)
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/queue", queueHandler.List)
		api.GET("/procedures", queueHandler.Procedures)
		api.GET("/summary", queueHandler.Summary)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.POST("/queue/refresh", queueHandler.Refresh)

			if db != nil {
				fetchLogsHandler := handlers.NewFetchLogsHandler(
					infraRepo.NewFetchLogGormRepository(db),
				)
				secured.GET("/fetch-logs", fetchLogsHandler.List)
			}
		}
	}
}
