package services

import (
	"context"
	"fmt"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

// JournalService handles journal entries
type JournalService struct {
	journalRepo ports.JournalRepository
	clock       ports.Clock
	logger      *logger.Logger
}

// NewJournalService creates a new journal service
func NewJournalService(journalRepo ports.JournalRepository, clock ports.Clock, logger *logger.Logger) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		clock:       clock,
		logger:      logger.WithComponent("journal_service"),
	}
}

func (s *JournalService) CreateJournal(ctx context.Context, req ports.CreateJournalRequest) (*entities.Journal, error) {
	if len(req.Sections) == 0 {
		return nil, entities.NewError(entities.CodeValidation, "a journal needs at least one section")
	}

	journal := &entities.Journal{
		ExactTime: s.clock.Now(),
		Sections:  make([]entities.JournalSection, 0, len(req.Sections)),
	}
	for _, section := range req.Sections {
		journal.Sections = append(journal.Sections, entities.JournalSection{
			Header:  section.Header,
			Content: section.Content,
		})
	}

	if err := s.journalRepo.Create(ctx, journal); err != nil {
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}
	s.logger.Infow("Journal created", "journal_id", journal.ID, "sections", len(journal.Sections))
	return journal, nil
}

func (s *JournalService) GetJournal(ctx context.Context, id int64) (*entities.Journal, error) {
	return s.journalRepo.GetByID(ctx, id)
}

func (s *JournalService) ListJournals(ctx context.Context, page ports.Pagination) ([]*entities.Journal, error) {
	page = page.Normalize()
	return s.journalRepo.List(ctx, page.Offset, page.Limit)
}
