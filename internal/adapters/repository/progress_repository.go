package repository

import (
	"context"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/database"
	"github.com/focusqueue/core/internal/ports"
)

type progressRow struct {
	Date        string `db:"progress_date"`
	CurrentPage int    `db:"current_page"`
}

// ProgressRepositoryImpl implements the ProgressRepository interface
type ProgressRepositoryImpl struct {
	db *database.DB
}

// NewProgressRepository creates a new habit progress repository
func NewProgressRepository(db *database.DB) ports.ProgressRepository {
	return &ProgressRepositoryImpl{db: db}
}

// GetOrCreate returns the progress for date, starting a new day at page 0.
func (r *ProgressRepositoryImpl) GetOrCreate(ctx context.Context, date string) (*entities.DailyProgress, error) {
	_, err := exec(ctx, r.db.DB, `
		INSERT INTO daily_progress (progress_date, current_page) VALUES (?, 0)
		ON CONFLICT (progress_date) DO NOTHING`, date)
	if err != nil {
		return nil, storageError("create daily progress", err)
	}
	return r.get(ctx, date)
}

func (r *ProgressRepositoryImpl) SetPage(ctx context.Context, date string, page int) (*entities.DailyProgress, error) {
	_, err := exec(ctx, r.db.DB, `
		INSERT INTO daily_progress (progress_date, current_page) VALUES (?, ?)
		ON CONFLICT (progress_date) DO UPDATE SET current_page = excluded.current_page`, date, page)
	if err != nil {
		return nil, storageError("set habit page", err)
	}
	return r.get(ctx, date)
}

func (r *ProgressRepositoryImpl) get(ctx context.Context, date string) (*entities.DailyProgress, error) {
	var row progressRow
	if err := get(ctx, r.db.DB, &row, `SELECT progress_date, current_page FROM daily_progress WHERE progress_date = ?`, date); err != nil {
		return nil, storageError("get daily progress", err)
	}
	return &entities.DailyProgress{Date: row.Date, CurrentPage: row.CurrentPage}, nil
}
