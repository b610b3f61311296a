package queue

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
)

type SummaryItem struct {
	Procedure string  `json:"procedure"`
	Count     int     `json:"count"`
	Share     float64 `json:"share"`
}

type SummaryOutput struct {
	Generation uint64        `json:"generation"`
	FetchedAt  time.Time     `json:"fetched_at"`
	Stale      bool          `json:"stale"`
	Total      int           `json:"total"`
	Items      []SummaryItem `json:"items"`
}

type GetSummary struct {
	provider SnapshotProvider
}

func NewGetSummary(provider SnapshotProvider) *GetSummary {
	return &GetSummary{provider: provider}
}

func (uc *GetSummary) Execute(ctx context.Context) (*SummaryOutput, error) {
	snap, err := uc.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	summary := domain.Summarize(snap.Appointments)
	total := domain.Total(summary)

	items := make([]SummaryItem, 0, len(summary))
	for _, s := range summary {
		items = append(items, SummaryItem{
			Procedure: s.Procedure,
			Count:     s.Count,
			Share:     domain.Share(s, total),
		})
	}

	return &SummaryOutput{
		Generation: snap.Generation,
		FetchedAt:  snap.FetchedAt,
		Stale:      uc.provider.Status().Stale(),
		Total:      total,
		Items:      items,
	}, nil
}
