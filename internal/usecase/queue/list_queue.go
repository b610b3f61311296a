package queue

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
)

const MaxPageSize = 100

type ListQueueInput struct {
	Procedure string
	Page      int
	PageSize  int

	// Generation do snapshot em que a página anterior foi montada.
	// Se a fila mudou desde então, volta para a página 1.
	Generation uint64

	// PrevProcedure é o filtro em que a página anterior foi montada.
	// Trocar de filtro também volta para a página 1.
	PrevProcedure string
}

type ListQueueOutput struct {
	Procedure  string    `json:"procedure"`
	Generation uint64    `json:"generation"`
	FetchedAt  time.Time `json:"fetched_at"`
	Stale      bool      `json:"stale"`

	Items       []domain.Appointment `json:"items"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
	TotalPages  int                  `json:"total_pages"`
	TotalItems  int                  `json:"total_items"`
	QueueTotal  int                  `json:"queue_total"`
	HasNext     bool                 `json:"has_next"`
	HasPrevious bool                 `json:"has_previous"`
	FirstItem   int                  `json:"first_item"`
	LastItem    int                  `json:"last_item"`
	Pages       []domain.PageItem    `json:"pages"`
	Procedures  []string             `json:"procedures"`
}

type ListQueue struct {
	provider        SnapshotProvider
	defaultPageSize int
}

func NewListQueue(
	provider SnapshotProvider,
	defaultPageSize int,
) *ListQueue {
	if defaultPageSize <= 0 {
		defaultPageSize = domain.DefaultPageSize
	}
	return &ListQueue{
		provider:        provider,
		defaultPageSize: defaultPageSize,
	}
}

func (uc *ListQueue) Execute(
	ctx context.Context,
	in ListQueueInput,
) (*ListQueueOutput, error) {

	snap, err := uc.provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	size := in.PageSize
	if size <= 0 {
		size = uc.defaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	page := in.Page
	if in.Generation != 0 && in.Generation != snap.Generation {
		page = 1
	}
	if in.PrevProcedure != "" && normalizeProcedure(in.PrevProcedure) != normalizeProcedure(in.Procedure) {
		page = 1
	}

	filtered := domain.Filter(snap.Appointments, in.Procedure)

	p := domain.NewPaginator(filtered, size)
	p.GoToPage(page)

	procedure := in.Procedure
	if domain.IsAll(procedure) {
		procedure = domain.AllProcedures
	}

	return &ListQueueOutput{
		Procedure:   procedure,
		Generation:  snap.Generation,
		FetchedAt:   snap.FetchedAt,
		Stale:       uc.provider.Status().Stale(),
		Items:       p.PaginatedData(),
		Page:        p.CurrentPage(),
		PageSize:    p.ItemsPerPage(),
		TotalPages:  p.TotalPages(),
		TotalItems:  p.TotalItems(),
		QueueTotal:  len(snap.Appointments),
		HasNext:     p.HasNextPage(),
		HasPrevious: p.HasPreviousPage(),
		FirstItem:   p.FirstItemIndex(),
		LastItem:    p.LastItemIndex(),
		Pages:       p.PageNumbers(),
		Procedures:  domain.Procedures(snap.Appointments),
	}, nil
}

func normalizeProcedure(p string) string {
	if domain.IsAll(p) {
		return domain.AllProcedures
	}
	return p
}
