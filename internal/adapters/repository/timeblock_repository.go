package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/database"
	"github.com/focusqueue/core/internal/ports"
)

const timeBlockColumns = `id, title, mode, plan_date, start_second, end_second, location,
	description, attendees, status, external_sync_id, created_at, updated_at`

type timeBlockRow struct {
	ID             int64              `db:"id"`
	Title          string             `db:"title"`
	Mode           string             `db:"mode"`
	PlanDate       string             `db:"plan_date"`
	StartSecond    entities.ClockTime `db:"start_second"`
	EndSecond      entities.ClockTime `db:"end_second"`
	Location       *string            `db:"location"`
	Description    *string            `db:"description"`
	Attendees      string             `db:"attendees"`
	Status         *string            `db:"status"`
	ExternalSyncID *string            `db:"external_sync_id"`
	CreatedAt      time.Time          `db:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at"`
}

func (r timeBlockRow) toEntity() (*entities.TimeBlock, error) {
	attendees := []string{}
	if r.Attendees != "" {
		if err := json.Unmarshal([]byte(r.Attendees), &attendees); err != nil {
			return nil, err
		}
	}
	return &entities.TimeBlock{
		ID:             r.ID,
		Title:          r.Title,
		Mode:           r.Mode,
		Date:           r.PlanDate,
		StartTime:      r.StartSecond,
		EndTime:        r.EndSecond,
		Location:       r.Location,
		Description:    r.Description,
		Attendees:      attendees,
		Status:         r.Status,
		ExternalSyncID: r.ExternalSyncID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}

func encodeAttendees(attendees []string) (string, error) {
	if attendees == nil {
		attendees = []string{}
	}
	raw, err := json.Marshal(attendees)
	return string(raw), err
}

// TimeBlockRepositoryImpl implements the TimeBlockRepository interface
type TimeBlockRepositoryImpl struct {
	db *database.DB
}

// NewTimeBlockRepository creates a new time block repository
func NewTimeBlockRepository(db *database.DB) ports.TimeBlockRepository {
	return &TimeBlockRepositoryImpl{db: db}
}

func (r *TimeBlockRepositoryImpl) Create(ctx context.Context, block *entities.TimeBlock) error {
	query := `
		INSERT INTO time_blocks (title, mode, plan_date, start_second, end_second, location,
			description, attendees, status, external_sync_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	id, err := r.insert(ctx, query, block)
	if err != nil {
		return storageError("create time block", err)
	}
	block.ID = id
	return nil
}

func (r *TimeBlockRepositoryImpl) CreateFromCalendar(ctx context.Context, block *entities.TimeBlock) (bool, error) {
	query := `
		INSERT INTO time_blocks (title, mode, plan_date, start_second, end_second, location,
			description, attendees, status, external_sync_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (external_sync_id) DO NOTHING
		RETURNING id`

	id, err := r.insert(ctx, query, block)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageError("create time block from calendar", err)
	}
	block.ID = id
	return true, nil
}

func (r *TimeBlockRepositoryImpl) insert(ctx context.Context, query string, block *entities.TimeBlock) (int64, error) {
	attendees, err := encodeAttendees(block.Attendees)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	block.CreatedAt, block.UpdatedAt = now, now

	return insertReturningID(ctx, r.db.DB, query,
		block.Title, block.Mode, block.Date, block.StartTime, block.EndTime, block.Location,
		block.Description, attendees, block.Status, block.ExternalSyncID, now, now,
	)
}

func (r *TimeBlockRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks WHERE id = ?`

	var row timeBlockRow
	if err := get(ctx, r.db.DB, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTimeBlockNotFound
		}
		return nil, storageError("get time block by id", err)
	}
	block, err := row.toEntity()
	if err != nil {
		return nil, storageError("decode time block", err)
	}
	return block, nil
}

func (r *TimeBlockRepositoryImpl) Update(ctx context.Context, block *entities.TimeBlock) error {
	query := `
		UPDATE time_blocks
		SET title = ?, mode = ?, start_second = ?, end_second = ?, location = ?, description = ?,
			attendees = ?, status = ?, external_sync_id = ?, updated_at = ?
		WHERE id = ?`

	attendees, err := encodeAttendees(block.Attendees)
	if err != nil {
		return storageError("encode attendees", err)
	}
	block.UpdatedAt = time.Now().UTC()

	res, err := exec(ctx, r.db.DB, query,
		block.Title, block.Mode, block.StartTime, block.EndTime, block.Location, block.Description,
		attendees, block.Status, block.ExternalSyncID, block.UpdatedAt, block.ID,
	)
	if err != nil {
		return storageError("update time block", err)
	}
	return storageError("update time block", affectedOrNotFound(res, entities.ErrTimeBlockNotFound))
}

func (r *TimeBlockRepositoryImpl) Delete(ctx context.Context, id int64) error {
	res, err := exec(ctx, r.db.DB, `DELETE FROM time_blocks WHERE id = ?`, id)
	if err != nil {
		return storageError("delete time block", err)
	}
	return storageError("delete time block", affectedOrNotFound(res, entities.ErrTimeBlockNotFound))
}

func (r *TimeBlockRepositoryImpl) ListByDate(ctx context.Context, date string) ([]*entities.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks
		WHERE plan_date = ?
		ORDER BY start_second, id`

	return r.list(ctx, "list time blocks", query, date)
}

func (r *TimeBlockRepositoryImpl) ListCurrent(ctx context.Context, date string, at entities.ClockTime) ([]*entities.TimeBlock, error) {
	query := `SELECT ` + timeBlockColumns + ` FROM time_blocks
		WHERE plan_date = ? AND start_second <= ? AND end_second > ?
		ORDER BY start_second, id`

	return r.list(ctx, "list current time blocks", query, date, at, at)
}

func (r *TimeBlockRepositoryImpl) list(ctx context.Context, op, query string, args ...interface{}) ([]*entities.TimeBlock, error) {
	var rows []timeBlockRow
	if err := selectAll(ctx, r.db.DB, &rows, query, args...); err != nil {
		return nil, storageError(op, err)
	}

	blocks := make([]*entities.TimeBlock, 0, len(rows))
	for _, row := range rows {
		block, err := row.toEntity()
		if err != nil {
			return nil, storageError("decode time block", err)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
