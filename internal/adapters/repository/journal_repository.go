package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/database"
	"github.com/focusqueue/core/internal/ports"
)

type journalRow struct {
	ID        int64     `db:"id"`
	ExactTime time.Time `db:"exact_time"`
}

type journalSectionRow struct {
	Header  string `db:"header"`
	Content string `db:"content"`
}

// JournalRepositoryImpl implements the JournalRepository interface
type JournalRepositoryImpl struct {
	db *database.DB
}

// NewJournalRepository creates a new journal repository
func NewJournalRepository(db *database.DB) ports.JournalRepository {
	return &JournalRepositoryImpl{db: db}
}

// Create stores the journal and its sections in their given order.
func (r *JournalRepositoryImpl) Create(ctx context.Context, journal *entities.Journal) error {
	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		id, err := insertReturningID(ctx, tx,
			`INSERT INTO journals (exact_time) VALUES (?) RETURNING id`, journal.ExactTime.UTC())
		if err != nil {
			return fmt.Errorf("insert journal: %w", err)
		}
		for i, section := range journal.Sections {
			if _, err := exec(ctx, tx,
				`INSERT INTO journal_sections (journal_id, position, header, content) VALUES (?, ?, ?, ?)`,
				id, i+1, section.Header, section.Content,
			); err != nil {
				return fmt.Errorf("insert journal section: %w", err)
			}
		}
		journal.ID = id
		return nil
	})
	return storageError("create journal", err)
}

func (r *JournalRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Journal, error) {
	var row journalRow
	if err := get(ctx, r.db.DB, &row, `SELECT id, exact_time FROM journals WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrJournalNotFound
		}
		return nil, storageError("get journal by id", err)
	}

	var sections []journalSectionRow
	if err := selectAll(ctx, r.db.DB, &sections,
		`SELECT header, content FROM journal_sections WHERE journal_id = ? ORDER BY position`, id,
	); err != nil {
		return nil, storageError("get journal sections", err)
	}

	journal := &entities.Journal{ID: row.ID, ExactTime: row.ExactTime, Sections: make([]entities.JournalSection, len(sections))}
	for i, s := range sections {
		journal.Sections[i] = entities.JournalSection{Header: s.Header, Content: s.Content}
	}
	return journal, nil
}

func (r *JournalRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*entities.Journal, error) {
	offset, limit = page(offset, limit)
	var rows []journalRow
	err := selectAll(ctx, r.db.DB, &rows, `
		SELECT id, exact_time FROM journals
		ORDER BY exact_time DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, storageError("list journals", err)
	}

	journals := make([]*entities.Journal, len(rows))
	for i, row := range rows {
		journals[i] = &entities.Journal{ID: row.ID, ExactTime: row.ExactTime}
	}
	return journals, nil
}
