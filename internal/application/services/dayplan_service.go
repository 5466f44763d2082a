package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/infrastructure/metrics"
	"github.com/focusqueue/core/internal/ports"
)

// DayPlanService keeps today's time blocks and mirrors local edits to the
// external calendar. Local state always commits first; calendar failures
// come back as warnings on the result.
type DayPlanService struct {
	blockRepo ports.TimeBlockRepository
	gateway   ports.CalendarGateway
	clock     ports.Clock
	metrics   *metrics.Recorder
	logger    *logger.Logger
}

// NewDayPlanService creates a new day plan service. A nil gateway disables
// calendar sync.
func NewDayPlanService(blockRepo ports.TimeBlockRepository, gateway ports.CalendarGateway, clock ports.Clock, recorder *metrics.Recorder, logger *logger.Logger) *DayPlanService {
	return &DayPlanService{
		blockRepo: blockRepo,
		gateway:   gateway,
		clock:     clock,
		metrics:   recorder,
		logger:    logger.WithComponent("dayplan_service"),
	}
}

// SyncToday imports today's calendar events that have no local block yet
// and returns today's blocks. Blocks already linked to an event are never
// touched here.
func (s *DayPlanService) SyncToday(ctx context.Context) ([]*entities.TimeBlock, error) {
	now := s.clock.Now()
	if s.gateway == nil {
		return s.blockRepo.ListByDate(ctx, entities.DayOf(now))
	}

	day := entities.StartOfDay(now)
	events, err := s.gateway.ListEvents(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		s.metrics.CalendarSyncFailed("pull")
		return nil, entities.ExternalSyncError("pull", err)
	}

	imported := 0
	for _, event := range events {
		block := blockFromEvent(event, day)
		if block == nil {
			continue
		}
		created, err := s.blockRepo.CreateFromCalendar(ctx, block)
		if err != nil {
			return nil, fmt.Errorf("failed to import event %s: %w", event.ID, err)
		}
		if created {
			imported++
		}
	}
	if imported > 0 {
		s.metrics.CalendarBlocksImported(imported)
		s.logger.Infow("Calendar events imported", "date", entities.DayOf(day), "count", imported)
	}

	return s.blockRepo.ListByDate(ctx, entities.DayOf(day))
}

// blockFromEvent clamps an event to the given day. All-day and empty
// events yield nil.
func blockFromEvent(event entities.CalendarEvent, day time.Time) *entities.TimeBlock {
	if event.AllDay {
		return nil
	}
	next := day.AddDate(0, 0, 1)
	start, end := event.Start.In(day.Location()), event.End.In(day.Location())

	startTime := entities.ClockTime(0)
	if start.After(day) {
		startTime = entities.ClockTimeOf(start)
	}
	endTime := entities.ClockTime(entities.SecondsPerDay)
	if end.Before(next) {
		endTime = entities.ClockTimeOf(end)
	}
	if !start.Before(next) || !end.After(day) || startTime >= endTime {
		return nil
	}

	mode := event.Mode
	if mode == "" {
		mode = entities.ModeEvent
	}
	title := event.Summary
	if title == "" {
		title = "(untitled)"
	}
	id := event.ID
	block := &entities.TimeBlock{
		Title:          title,
		Mode:           mode,
		Date:           entities.DayOf(day),
		StartTime:      startTime,
		EndTime:        endTime,
		Attendees:      event.Attendees,
		ExternalSyncID: &id,
	}
	if event.Location != "" {
		loc := event.Location
		block.Location = &loc
	}
	if event.Description != "" {
		desc := event.Description
		block.Description = &desc
	}
	return block
}

// ListToday syncs on a best-effort basis and lists today's blocks. A failed
// sync serves the blocks already stored.
func (s *DayPlanService) ListToday(ctx context.Context) ([]*entities.TimeBlock, error) {
	if s.gateway != nil {
		blocks, err := s.SyncToday(ctx)
		if err == nil {
			return blocks, nil
		}
		if !entities.IsCode(err, entities.CodeExternalSync) {
			return nil, err
		}
		s.logger.LogSyncFailure("pull", 0, err)
	}
	return s.blockRepo.ListByDate(ctx, entities.DayOf(s.clock.Now()))
}

// GetCurrent returns the block containing now, preferring a non-work block.
func (s *DayPlanService) GetCurrent(ctx context.Context) (*entities.TimeBlock, error) {
	now := s.clock.Now()
	blocks, err := s.blockRepo.ListCurrent(ctx, entities.DayOf(now), entities.ClockTimeOf(now))
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, entities.NewError(entities.CodeNotFound, "no time block is current")
	}
	for _, block := range blocks {
		if !block.IsWork() {
			return block, nil
		}
	}
	return blocks[0], nil
}

// CreateTimeBlock stores a block for today and inserts a calendar event for it.
func (s *DayPlanService) CreateTimeBlock(ctx context.Context, req ports.CreateTimeBlockRequest) (*ports.TimeBlockResult, error) {
	mode := req.Mode
	if mode == "" {
		mode = entities.ModeEvent
	}
	block := &entities.TimeBlock{
		Title:       req.Title,
		Mode:        mode,
		Date:        entities.DayOf(s.clock.Now()),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Description: req.Description,
		Attendees:   req.Attendees,
		Status:      req.Status,
	}
	if err := block.Validate(); err != nil {
		return nil, err
	}

	if err := s.blockRepo.Create(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to create time block: %w", err)
	}
	s.logger.Infow("Time block created", "block_id", block.ID, "title", block.Title, "mode", block.Mode)

	result := &ports.TimeBlockResult{Block: block}
	if s.gateway == nil {
		return result, nil
	}

	eventID, err := s.gateway.InsertEvent(ctx, block)
	if err != nil {
		result.SyncWarning = s.syncFailed("insert", block.ID, err)
		return result, nil
	}
	block.ExternalSyncID = &eventID
	if err := s.blockRepo.Update(ctx, block); err != nil {
		block.ExternalSyncID = nil
		result.SyncWarning = s.syncFailed("link", block.ID, err)
	}
	return result, nil
}

// UpdateTimeBlock applies a partial update and patches the calendar event.
// With the calendar enabled, a block that never reached the calendar is
// rejected before anything changes.
func (s *DayPlanService) UpdateTimeBlock(ctx context.Context, id int64, req ports.UpdateTimeBlockRequest) (*ports.TimeBlockResult, error) {
	block, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.gateway != nil && !block.HasExternalEvent() {
		return nil, entities.ErrMissingExternalID
	}

	if req.Title != nil {
		block.Title = *req.Title
	}
	if req.Mode != nil {
		block.Mode = *req.Mode
	}
	if req.StartTime != nil {
		block.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		block.EndTime = *req.EndTime
	}
	if req.Location != nil {
		block.Location = req.Location
	}
	if req.Description != nil {
		block.Description = req.Description
	}
	if req.Attendees != nil {
		block.Attendees = req.Attendees
	}
	if req.Status != nil {
		block.Status = req.Status
	}
	if err := block.Validate(); err != nil {
		return nil, err
	}

	if err := s.blockRepo.Update(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to update time block: %w", err)
	}
	s.logger.Infow("Time block updated", "block_id", block.ID, "mode", block.Mode)

	result := &ports.TimeBlockResult{Block: block}
	if s.gateway != nil {
		if err := s.gateway.UpdateEvent(ctx, *block.ExternalSyncID, block); err != nil {
			result.SyncWarning = s.syncFailed("update", block.ID, err)
		}
	}
	return result, nil
}

// DeleteTimeBlock removes the block and then its calendar event. An event
// that is already gone is not a failure.
func (s *DayPlanService) DeleteTimeBlock(ctx context.Context, id int64) (*ports.TimeBlockResult, error) {
	block, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.blockRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete time block: %w", err)
	}
	s.logger.Infow("Time block deleted", "block_id", id)

	result := &ports.TimeBlockResult{Block: block}
	if s.gateway == nil || !block.HasExternalEvent() {
		return result, nil
	}
	err = s.gateway.DeleteEvent(ctx, *block.ExternalSyncID)
	if err != nil && !errors.Is(err, entities.ErrExternalEventGone) {
		result.SyncWarning = s.syncFailed("delete", block.ID, err)
	}
	return result, nil
}

func (s *DayPlanService) syncFailed(operation string, blockID int64, err error) string {
	s.metrics.CalendarSyncFailed(operation)
	s.logger.LogSyncFailure(operation, blockID, err)
	return entities.ExternalSyncError(operation, err).Error()
}
