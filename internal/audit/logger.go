package audit

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fila-atendimento/internal/infra/repository"
	"github.com/BruksfildServices01/fila-atendimento/internal/models"
)

// Logger persiste cada busca na tabela fetch_logs.
type Logger struct {
	repo *repository.FetchLogGormRepository
}

func New(db *gorm.DB) *Logger {
	return &Logger{repo: repository.NewFetchLogGormRepository(db)}
}

func (l *Logger) Record(ctx context.Context, ev Event) error {
	return l.repo.Create(ctx, ToModel(ev))
}

func ToModel(ev Event) *models.FetchLog {
	var msg string
	if ev.Err != nil {
		msg = ev.Err.Error()
	}

	return &models.FetchLog{
		FetchID:    ev.FetchID,
		Trigger:    string(ev.Trigger),
		Outcome:    string(ev.Outcome),
		Generation: ev.Generation,
		Items:      ev.Items,
		DurationMs: ev.Duration.Milliseconds(),
		Error:      msg,
	}
}

// LogRecorder só escreve no log; usado quando não há banco configurado.
type LogRecorder struct {
	log zerolog.Logger
}

func NewLogRecorder(log zerolog.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (r *LogRecorder) Record(_ context.Context, ev Event) error {
	e := r.log.Info()
	if ev.Outcome == OutcomeFailed {
		e = r.log.Warn().Err(ev.Err)
	}

	e.Str("fetch_id", ev.FetchID).
		Str("trigger", string(ev.Trigger)).
		Str("outcome", string(ev.Outcome)).
		Uint64("generation", ev.Generation).
		Int("items", ev.Items).
		Dur("duration", ev.Duration).
		Msg("queue fetch")
	return nil
}
