package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/httperr"
)

// writeQueueError traduz os erros da fila para a resposta HTTP.
func writeQueueError(c *gin.Context, err error) {
	var fe *domain.FetchError

	switch {
	case errors.As(err, &fe):
		httperr.BadGateway(c, "upstream_unavailable", "Não foi possível carregar a fila.")
	case errors.Is(err, domain.ErrNoSnapshot):
		httperr.Unavailable(c, "queue_not_loaded", "A fila ainda não foi carregada.")
	case c.Request.Context().Err() != nil:
		httperr.Write(c, http.StatusRequestTimeout, "request_cancelled", "Requisição cancelada.")
	default:
		httperr.Internal(c, "queue_failed", "Erro ao carregar a fila.")
	}
}

// queueErrorMessage é a versão em texto usada nas páginas HTML.
func queueErrorMessage(err error) string {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return "Não foi possível carregar a fila. Tente novamente em instantes."
	}
	if errors.Is(err, domain.ErrNoSnapshot) {
		return "A fila ainda não foi carregada."
	}
	return "Erro ao carregar a fila."
}
