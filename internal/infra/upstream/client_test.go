package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/models"
)

func TestClient_FetchPatients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appointments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"SRG_ATE_PROTOCOLO": 77, "SRG_ATE_POS_ATUAL": 1, "SRG_PACIENTE_NOME": "Maria Silva",
			 "SRG_G_PROCEDIMENTO_NOME": "Raio-X", "SRG_AGE_PRIORIDADE": 1}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/appointments", time.Second, 1, zerolog.Nop())

	got, err := c.FetchPatients(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(77), got[0].Protocol)
	assert.Equal(t, "Raio-X", got[0].ProcedureName)
	assert.Equal(t, models.PriorityCode("1"), got[0].Priority)
}

func TestClient_EmptyBodyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, time.Second, 1, zerolog.Nop()).FetchPatients(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClient_BadRecordDoesNotHideTheOthers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"SRG_ATE_PROTOCOLO": 1, "SRG_PACIENTE_NOME": "Maria Silva", "SRG_PACIENTE_CNS": "123456789012345"},
			{"SRG_ATE_PROTOCOLO": 2, "SRG_PACIENTE_NOME": "João Santos", "SRG_PACIENTE_CNS": 234567890123456},
			{"SRG_ATE_PROTOCOLO": 3, "SRG_PACIENTE_NOME": "Ana Costa", "SRG_ATE_POS_ATUAL": {"x": 1}},
			"registro quebrado",
			{"SRG_ATE_PROTOCOLO": 4, "SRG_PACIENTE_NOME": "Pedro Lima"}
		]`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, time.Second, 1, zerolog.Nop()).FetchPatients(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "123456789012345", got[0].CNS)
	assert.Equal(t, "234567890123456", got[1].CNS)
	assert.Empty(t, got[1].DecodeWarnings)
	assert.Equal(t, "Ana Costa", got[2].Name)
	assert.Equal(t, 0, got[2].Position)
	assert.Len(t, got[2].DecodeWarnings, 1)
	assert.Equal(t, int64(4), got[3].Protocol)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, 1, zerolog.Nop()).FetchPatients(context.Background())

	var fe *queue.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, queue.FetchStatus, fe.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"erro": "formato"`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, 3, zerolog.Nop()).FetchPatients(context.Background())

	var fe *queue.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, queue.FetchDecode, fe.Kind)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, 1, zerolog.Nop()).FetchPatients(context.Background())

	var fe *queue.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, queue.FetchTransport, fe.Kind)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 3, zerolog.Nop())
	c.retry.InitialDelay = time.Millisecond

	got, err := c.FetchPatients(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 3, zerolog.Nop())
	c.retry.InitialDelay = time.Millisecond

	_, err := c.FetchPatients(context.Background())

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFixture(t *testing.T) {
	f := NewFixture()

	got, err := f.FetchPatients(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 6)

	got[0].Name = "alterado"
	again, _ := f.FetchPatients(context.Background())
	assert.Equal(t, "Maria Silva", again[0].Name)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.FetchPatients(ctx)
	assert.True(t, queue.IsFetchError(err))
}
