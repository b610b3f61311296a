package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/fila-atendimento/internal/models"
)

// FetchLogFilter são os filtros opcionais da listagem do histórico.
type FetchLogFilter struct {
	Outcome string
	Trigger string
	From    time.Time
	To      time.Time // exclusivo

	Limit  int
	Offset int
}

type FetchLogGormRepository struct {
	db *gorm.DB
}

func NewFetchLogGormRepository(db *gorm.DB) *FetchLogGormRepository {
	return &FetchLogGormRepository{db: db}
}

func (r *FetchLogGormRepository) Create(
	ctx context.Context,
	log *models.FetchLog,
) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List devolve a página pedida, mais recente primeiro, e o total sem paginação.
func (r *FetchLogGormRepository) List(
	ctx context.Context,
	f FetchLogFilter,
) ([]models.FetchLog, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.FetchLog{})

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if f.Outcome != "" {
		q = q.Where("outcome = ?", f.Outcome)
	}
	if f.Trigger != "" {
		q = q.Where("trigger = ?", f.Trigger)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.FetchLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
