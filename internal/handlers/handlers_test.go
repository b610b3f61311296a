package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/fila-atendimento/internal/audit"
	domain "github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/refresh"
	uc "github.com/BruksfildServices01/fila-atendimento/internal/usecase/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/web"
)

type stubRefresher struct {
	snap     domain.Snapshot
	err      error
	status   refresh.Status
	triggers []audit.Trigger
}

func (s *stubRefresher) Snapshot(context.Context) (domain.Snapshot, error) {
	return s.snap, s.err
}

func (s *stubRefresher) Refresh(_ context.Context, trigger audit.Trigger) (domain.Snapshot, error) {
	s.triggers = append(s.triggers, trigger)
	return s.snap, s.err
}

func (s *stubRefresher) Status() refresh.Status {
	return s.status
}

func snapshotOf(n int) domain.Snapshot {
	procedures := []string{"Consulta Cardiologia", "Exame de Sangue"}
	aps := make([]domain.Appointment, 0, n)
	for i := 0; i < n; i++ {
		aps = append(aps, domain.Appointment{
			ID:          fmt.Sprint(i + 1),
			PatientName: fmt.Sprintf("Paciente %d", i+1),
			Procedure:   procedures[i%2],
			Position:    i + 1,
			Priority:    domain.PriorityNormal,
			Status:      domain.StatusWaiting,
		})
	}
	return domain.Snapshot{Generation: 7, FetchedAt: time.Now(), Appointments: aps}
}

func newRouter(t *testing.T, ref *stubRefresher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	listQueue := uc.NewListQueue(ref, 10)
	listProcedures := uc.NewListProcedures(ref)
	getSummary := uc.NewGetSummary(ref)

	qh := NewQueueHandler(listQueue, listProcedures, getSummary, ref)
	wh := NewWebHandler(listQueue, getSummary, ref, 30*time.Second)

	tmpl, err := web.Templates("America/Sao_Paulo")
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	r.GET("/api/queue", qh.List)
	r.GET("/api/procedures", qh.Procedures)
	r.GET("/api/summary", qh.Summary)
	r.POST("/api/queue/refresh", qh.Refresh)
	r.GET("/web/queue", wh.QueuePage)
	r.GET("/web/summary", wh.SummaryPage)
	r.POST("/web/queue/refresh", wh.Refresh)
	return r
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

// ======================================================
// JSON
// ======================================================

func TestQueueList_ReturnsPage(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: snapshotOf(23)})

	w := do(r, http.MethodGet, "/api/queue?page=3")
	require.Equal(t, http.StatusOK, w.Code)

	var out uc.ListQueueOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 3, out.Page)
	assert.Equal(t, 3, out.TotalPages)
	assert.Len(t, out.Items, 3)
	assert.Equal(t, 21, out.FirstItem)
	assert.Equal(t, 23, out.LastItem)
	assert.Equal(t, uint64(7), out.Generation)
}

func TestQueueList_ResetsPageWhenGenerationChanged(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: snapshotOf(23)})

	w := do(r, http.MethodGet, "/api/queue?page=2&generation=6")
	require.Equal(t, http.StatusOK, w.Code)

	var out uc.ListQueueOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Page)
}

func TestQueueList_ResetsPageWhenProcedureChanged(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: snapshotOf(40)})

	w := do(r, http.MethodGet, "/api/queue?procedure="+url.QueryEscape("Exame de Sangue")+"&prev_procedure=all&page=2")
	require.Equal(t, http.StatusOK, w.Code)

	var out uc.ListQueueOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, "Exame de Sangue", out.Procedure)

	w = do(r, http.MethodGet, "/api/queue?procedure="+url.QueryEscape("Exame de Sangue")+"&prev_procedure="+url.QueryEscape("Exame de Sangue")+"&page=2")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Page)
}

func TestQueueList_RejectsInvalidQuery(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: snapshotOf(3)})

	cases := map[string]string{
		"/api/queue?page=abc":        "invalid_page",
		"/api/queue?page=0":          "invalid_page",
		"/api/queue?page_size=-1":    "invalid_page_size",
		"/api/queue?generation=nope": "invalid_generation",
	}

	for target, code := range cases {
		w := do(r, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), code, target)
	}
}

func TestQueueList_UpstreamFailure(t *testing.T) {
	ref := &stubRefresher{err: &domain.FetchError{Kind: domain.FetchStatus, StatusCode: 500}}
	r := newRouter(t, ref)

	w := do(r, http.MethodGet, "/api/queue")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "upstream_unavailable")
}

func TestQueueList_NoSnapshot(t *testing.T) {
	r := newRouter(t, &stubRefresher{err: domain.ErrNoSnapshot})

	w := do(r, http.MethodGet, "/api/queue")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProcedures_SortedUnique(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: snapshotOf(5)})

	w := do(r, http.MethodGet, "/api/procedures")
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Data  []string `json:"data"`
		Total int      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, []string{"Consulta Cardiologia", "Exame de Sangue"}, out.Data)
	assert.Equal(t, 2, out.Total)
}

func TestSummary_CountsPerProcedure(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: snapshotOf(5)})

	w := do(r, http.MethodGet, "/api/summary")
	require.Equal(t, http.StatusOK, w.Code)

	var out uc.SummaryOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 5, out.Total)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Consulta Cardiologia", out.Items[0].Procedure)
	assert.Equal(t, 3, out.Items[0].Count)
}

func TestRefresh_Manual(t *testing.T) {
	ref := &stubRefresher{snap: snapshotOf(4)}
	r := newRouter(t, ref)

	w := do(r, http.MethodPost, "/api/queue/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []audit.Trigger{audit.TriggerManual}, ref.triggers)

	var out RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, uint64(7), out.Generation)
	assert.Equal(t, 4, out.Items)
}

func TestRefresh_Superseded(t *testing.T) {
	ref := &stubRefresher{err: domain.ErrSuperseded, status: refresh.Status{Generation: 9}}
	r := newRouter(t, ref)

	w := do(r, http.MethodPost, "/api/queue/refresh")
	require.Equal(t, http.StatusAccepted, w.Code)

	var out RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Superseded)
	assert.Equal(t, uint64(9), out.Generation)
}

// ======================================================
// HTML
// ======================================================

func TestQueuePage_RendersTable(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: snapshotOf(23)})

	w := do(r, http.MethodGet, "/web/queue")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Fila de Atendimento")
	assert.Contains(t, body, "Paciente 1")
	assert.NotContains(t, body, "Paciente 11<")
	assert.Contains(t, body, "Mostrando 1 a 10 de 23 atendimentos")
	assert.Contains(t, body, "Total na fila")
	assert.Contains(t, body, "generation=7")
}

func TestQueuePage_Filtered(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: snapshotOf(6)})

	w := do(r, http.MethodGet, "/web/queue?procedure="+url.QueryEscape("Exame de Sangue"))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Filtrados")
	assert.Contains(t, body, "Total geral")
	assert.Contains(t, body, "Limpar filtro")
	assert.Contains(t, body, "Paciente 2")
	assert.NotContains(t, body, "Paciente 1<")
}

func TestQueuePage_Empty(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: domain.Snapshot{Generation: 1}})

	w := do(r, http.MethodGet, "/web/queue")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nenhum atendimento na fila")
}

func TestQueuePage_LoadingPlaceholder(t *testing.T) {
	r := newRouter(t, &stubRefresher{status: refresh.Status{Loading: true}})

	w := do(r, http.MethodGet, "/web/queue")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "skeleton")
}

func TestQueuePage_StaleWarning(t *testing.T) {
	ref := &stubRefresher{
		snap:   snapshotOf(2),
		status: refresh.Status{Generation: 7, LastError: errors.New("boom")},
	}
	r := newRouter(t, ref)

	w := do(r, http.MethodGet, "/web/queue")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Não foi possível atualizar a fila")
}

func TestQueuePage_UpstreamFailure(t *testing.T) {
	r := newRouter(t, &stubRefresher{err: &domain.FetchError{Kind: domain.FetchTransport}})

	w := do(r, http.MethodGet, "/web/queue")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Tente novamente")
}

func TestSummaryPage_Renders(t *testing.T) {
	r := newRouter(t, &stubRefresher{snap: snapshotOf(5)})

	w := do(r, http.MethodGet, "/web/summary")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Resumo da Fila")
	assert.Contains(t, body, "Total de Atendimentos")
	assert.Contains(t, body, "Consulta Cardiologia")
	assert.Contains(t, body, "60.0%")
}

func TestWebRefresh_RedirectsToFirstPage(t *testing.T) {
	ref := &stubRefresher{snap: snapshotOf(3)}
	r := newRouter(t, ref)

	w := httptest.NewRecorder()
	form := url.Values{"procedure": {"Exame de Sangue"}}
	req := httptest.NewRequest(http.MethodPost, "/web/queue/refresh", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/web/queue?procedure=Exame+de+Sangue", w.Header().Get("Location"))
	assert.Equal(t, []audit.Trigger{audit.TriggerManual}, ref.triggers)
}
