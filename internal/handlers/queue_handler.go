package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fila-atendimento/internal/audit"
	domain "github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/httperr"
	"github.com/BruksfildServices01/fila-atendimento/internal/httpresp"
	"github.com/BruksfildServices01/fila-atendimento/internal/refresh"
	uc "github.com/BruksfildServices01/fila-atendimento/internal/usecase/queue"
)

// Refresher é implementado por *refresh.Refresher.
type Refresher interface {
	Refresh(ctx context.Context, trigger audit.Trigger) (domain.Snapshot, error)
	Status() refresh.Status
}

// ======================================================
// HANDLER
// ======================================================

type QueueHandler struct {
	listQueue      *uc.ListQueue
	listProcedures *uc.ListProcedures
	getSummary     *uc.GetSummary
	refresher      Refresher
}

func NewQueueHandler(
	listQueue *uc.ListQueue,
	listProcedures *uc.ListProcedures,
	getSummary *uc.GetSummary,
	refresher Refresher,
) *QueueHandler {
	return &QueueHandler{
		listQueue:      listQueue,
		listProcedures: listProcedures,
		getSummary:     getSummary,
		refresher:      refresher,
	}
}

// ======================================================
// LIST
// ======================================================

func (h *QueueHandler) List(c *gin.Context) {
	in, err := parseListQuery(c)
	if err != nil {
		switch httperr.Code(err) {
		case "invalid_page":
			httperr.BadRequest(c, "invalid_page", "Página inválida.")
		case "invalid_page_size":
			httperr.BadRequest(c, "invalid_page_size", "Tamanho de página inválido.")
		case "invalid_generation":
			httperr.BadRequest(c, "invalid_generation", "Geração inválida.")
		default:
			httperr.BadRequest(c, "invalid_query", "Parâmetros inválidos.")
		}
		return
	}

	out, err := h.listQueue.Execute(c.Request.Context(), in)
	if err != nil {
		writeQueueError(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// PROCEDURES
// ======================================================

func (h *QueueHandler) Procedures(c *gin.Context) {
	procedures, err := h.listProcedures.Execute(c.Request.Context())
	if err != nil {
		writeQueueError(c, err)
		return
	}

	httpresp.List(c, procedures)
}

// ======================================================
// SUMMARY
// ======================================================

func (h *QueueHandler) Summary(c *gin.Context) {
	out, err := h.getSummary.Execute(c.Request.Context())
	if err != nil {
		writeQueueError(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// REFRESH
// ======================================================

type RefreshResponse struct {
	Generation uint64 `json:"generation"`
	Items      int    `json:"items"`
	Superseded bool   `json:"superseded"`
}

func (h *QueueHandler) Refresh(c *gin.Context) {
	snap, err := h.refresher.Refresh(c.Request.Context(), audit.TriggerManual)

	if errors.Is(err, domain.ErrSuperseded) {
		// outra busca mais nova já foi aplicada
		httpresp.Accepted(c, RefreshResponse{
			Generation: h.refresher.Status().Generation,
			Superseded: true,
		})
		return
	}
	if err != nil {
		writeQueueError(c, err)
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Generation: snap.Generation,
		Items:      len(snap.Appointments),
	})
}

// ======================================================
// QUERY
// ======================================================

func parseListQuery(c *gin.Context) (uc.ListQueueInput, error) {
	in := uc.ListQueueInput{
		Procedure:     strings.TrimSpace(c.Query("procedure")),
		PrevProcedure: strings.TrimSpace(c.Query("prev_procedure")),
		Page:          1,
	}

	if s := c.Query("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page <= 0 {
			return in, httperr.ErrBusiness("invalid_page")
		}
		in.Page = page
	}

	if s := c.Query("page_size"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil || size <= 0 {
			return in, httperr.ErrBusiness("invalid_page_size")
		}
		in.PageSize = size
	}

	if s := c.Query("generation"); s != "" {
		gen, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return in, httperr.ErrBusiness("invalid_generation")
		}
		in.Generation = gen
	}

	return in, nil
}
