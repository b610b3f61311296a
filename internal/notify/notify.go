package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
)

const SubjectQueueUpdated = "fila.atualizada"

// Publisher is the subset of *nats.Conn the notifier uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type QueueUpdated struct {
	Generation uint64                   `json:"generation"`
	FetchedAt  time.Time                `json:"fetched_at"`
	Total      int                      `json:"total"`
	Summary    []queue.ProcedureSummary `json:"summary"`
}

type Notifier struct {
	pub Publisher
}

func New(pub Publisher) *Notifier {
	return &Notifier{pub: pub}
}

// Connect abre a conexão NATS com reconexão automática.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("fila-atendimento"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

func NewQueueUpdated(snap queue.Snapshot) QueueUpdated {
	return QueueUpdated{
		Generation: snap.Generation,
		FetchedAt:  snap.FetchedAt,
		Total:      len(snap.Appointments),
		Summary:    queue.Summarize(snap.Appointments),
	}
}

func (n *Notifier) QueueUpdated(snap queue.Snapshot) error {
	b, err := json.Marshal(NewQueueUpdated(snap))
	if err != nil {
		return fmt.Errorf("encode queue update: %w", err)
	}
	if err := n.pub.Publish(SubjectQueueUpdated, b); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectQueueUpdated, err)
	}
	return nil
}
