package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fila-atendimento/internal/httperr"
	"github.com/BruksfildServices01/fila-atendimento/internal/infra/repository"
	"github.com/BruksfildServices01/fila-atendimento/internal/models"
)

// FetchLogLister é implementado por *repository.FetchLogGormRepository.
type FetchLogLister interface {
	List(ctx context.Context, f repository.FetchLogFilter) ([]models.FetchLog, int64, error)
}

// ======================================================
// HANDLER
// ======================================================

type FetchLogsHandler struct {
	repo FetchLogLister
}

func NewFetchLogsHandler(repo FetchLogLister) *FetchLogsHandler {
	return &FetchLogsHandler{repo: repo}
}

func (h *FetchLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := repository.FetchLogFilter{
		Outcome: c.Query("outcome"),
		Trigger: c.Query("trigger"),
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}

	// --------------------------------------------------
	// Período (YYYY-MM-DD, "to" inclusivo)
	// --------------------------------------------------

	if s := c.Query("from"); s != "" {
		from, err := time.Parse("2006-01-02", s)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "Data inicial inválida.")
			return
		}
		f.From = from
	}

	if s := c.Query("to"); s != "" {
		to, err := time.Parse("2006-01-02", s)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "Data final inválida.")
			return
		}
		f.To = to.Add(24 * time.Hour)
	}

	logs, total, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "fetch_logs_list_failed", "Erro ao listar registros.")
		return
	}

	if logs == nil {
		logs = []models.FetchLog{}
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
