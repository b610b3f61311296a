package queue

import (
	"context"

	domain "github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/refresh"
)

// SnapshotProvider é implementado por *refresh.Refresher.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
	Status() refresh.Status
}
