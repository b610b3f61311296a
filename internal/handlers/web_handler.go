package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fila-atendimento/internal/audit"
	domain "github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	uc "github.com/BruksfildServices01/fila-atendimento/internal/usecase/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/web"
)

// loadingRetry é o intervalo de recarga enquanto a primeira busca não volta.
const loadingRetry = 2

// pageData alimenta o template "base".
type pageData struct {
	View        string
	Title       string
	AutoRefresh int
	Error       string

	Procedure  string
	Procedures []string
	Filtered   bool
	Loading    bool
	Queue      *uc.ListQueueOutput

	Summary *uc.SummaryOutput
}

type WebHandler struct {
	listQueue   *uc.ListQueue
	getSummary  *uc.GetSummary
	refresher   Refresher
	autoRefresh int
}

// NewWebHandler monta as páginas do painel. As páginas se recarregam
// sozinhas a cada refreshEvery.
func NewWebHandler(
	listQueue *uc.ListQueue,
	getSummary *uc.GetSummary,
	refresher Refresher,
	refreshEvery time.Duration,
) *WebHandler {
	return &WebHandler{
		listQueue:   listQueue,
		getSummary:  getSummary,
		refresher:   refresher,
		autoRefresh: int(refreshEvery / time.Second),
	}
}

// ======================================================
// QUEUE PAGE
// ======================================================

func (h *WebHandler) QueuePage(c *gin.Context) {
	in, err := parseListQuery(c)
	if err != nil {
		// link antigo ou editado à mão: volta para o início
		in = uc.ListQueueInput{Procedure: strings.TrimSpace(c.Query("procedure")), Page: 1}
	}

	procedure := in.Procedure
	if domain.IsAll(procedure) {
		procedure = ""
	}

	data := pageData{
		View:        "queue",
		Title:       "Fila de Atendimento",
		AutoRefresh: h.autoRefresh,
		Procedure:   procedure,
		Filtered:    procedure != "",
	}

	if h.firstLoadInFlight() {
		data.Loading = true
		data.AutoRefresh = loadingRetry
		c.HTML(http.StatusOK, "base", data)
		return
	}

	out, err := h.listQueue.Execute(c.Request.Context(), in)
	if err != nil {
		data.Error = queueErrorMessage(err)
		c.HTML(webErrorStatus(err), "base", data)
		return
	}

	data.Queue = out
	data.Procedures = out.Procedures
	c.HTML(http.StatusOK, "base", data)
}

// ======================================================
// SUMMARY PAGE
// ======================================================

func (h *WebHandler) SummaryPage(c *gin.Context) {
	data := pageData{
		View:        "summary",
		Title:       "Resumo da Fila",
		AutoRefresh: h.autoRefresh,
	}

	out, err := h.getSummary.Execute(c.Request.Context())
	if err != nil {
		data.Error = queueErrorMessage(err)
		c.HTML(webErrorStatus(err), "base", data)
		return
	}

	data.Summary = out
	c.HTML(http.StatusOK, "base", data)
}

// ======================================================
// REFRESH (formulário)
// ======================================================

func (h *WebHandler) Refresh(c *gin.Context) {
	procedure := strings.TrimSpace(c.PostForm("procedure"))
	if domain.IsAll(procedure) {
		procedure = ""
	}

	// falha já fica registrada no status; a página mostra o aviso
	_, _ = h.refresher.Refresh(c.Request.Context(), audit.TriggerManual)

	c.Redirect(http.StatusSeeOther, web.QueueURL(procedure, 1, 0))
}

func (h *WebHandler) firstLoadInFlight() bool {
	st := h.refresher.Status()
	return st.Generation == 0 && st.Loading
}

func webErrorStatus(err error) int {
	var fe *domain.FetchError
	switch {
	case errors.As(err, &fe):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNoSnapshot):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
