package queue

import (
	"context"

	"github.com/BruksfildServices01/fila-atendimento/internal/models"
)

// Source fornece os registros brutos da fila.
type Source interface {
	FetchPatients(ctx context.Context) ([]models.APIPatient, error)
}
