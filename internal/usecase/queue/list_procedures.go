package queue

import (
	"context"

	domain "github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
)

type ListProcedures struct {
	provider SnapshotProvider
}

func NewListProcedures(provider SnapshotProvider) *ListProcedures {
	return &ListProcedures{provider: provider}
}

func (uc *ListProcedures) Execute(ctx context.Context) ([]string, error) {
	snap, err := uc.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Procedures(snap.Appointments), nil
}
