// Package calendar adapts Google Calendar to the CalendarGateway port.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

// ModeProperty is the private extended property that carries a block's mode.
const ModeProperty = "mode"

// GoogleGateway implements ports.CalendarGateway against one calendar.
type GoogleGateway struct {
	credentials ports.CredentialSupplier
	calendarID  string
	location    *time.Location
	opts        []option.ClientOption
	logger      *logger.Logger
}

// NewGoogleGateway creates a gateway. Extra client options are appended
// after the credential, so tests can redirect the endpoint.
func NewGoogleGateway(credentials ports.CredentialSupplier, calendarID string, loc *time.Location, log *logger.Logger, opts ...option.ClientOption) *GoogleGateway {
	if loc == nil {
		loc = time.Local
	}
	return &GoogleGateway{
		credentials: credentials,
		calendarID:  calendarID,
		location:    loc,
		opts:        opts,
		logger:      log.WithComponent("google_calendar"),
	}
}

func (g *GoogleGateway) service(ctx context.Context) (*gcal.Service, error) {
	tok, err := g.credentials.GetValidCredential(ctx)
	if err != nil {
		return nil, err
	}
	opts := append([]option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}, g.opts...)
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar client: %w", err)
	}
	return srv, nil
}

// ListEvents returns the single events overlapping [from, to) by start time.
// Events without a usable start or end are logged and skipped.
func (g *GoogleGateway) ListEvents(ctx context.Context, from, to time.Time) ([]entities.CalendarEvent, error) {
	srv, err := g.service(ctx)
	if err != nil {
		return nil, err
	}

	var events []entities.CalendarEvent
	err = srv.Events.List(g.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Pages(ctx, func(page *gcal.Events) error {
			for _, item := range page.Items {
				if item.Status == "cancelled" {
					continue
				}
				event, err := g.fromGoogle(item)
				if err != nil {
					g.logger.Warnw("Skipping malformed calendar event", "event_id", item.Id, "error", err)
					continue
				}
				events = append(events, event)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}
	return events, nil
}

func (g *GoogleGateway) InsertEvent(ctx context.Context, block *entities.TimeBlock) (string, error) {
	srv, err := g.service(ctx)
	if err != nil {
		return "", err
	}
	event, err := g.toGoogle(block)
	if err != nil {
		return "", err
	}
	created, err := srv.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	return created.Id, nil
}

func (g *GoogleGateway) UpdateEvent(ctx context.Context, eventID string, block *entities.TimeBlock) error {
	srv, err := g.service(ctx)
	if err != nil {
		return err
	}
	event, err := g.toGoogle(block)
	if err != nil {
		return err
	}
	if _, err := srv.Events.Patch(g.calendarID, eventID, event).Context(ctx).Do(); err != nil {
		if isGone(err) {
			return entities.ErrExternalEventGone
		}
		return fmt.Errorf("patch calendar event: %w", err)
	}
	return nil
}

func (g *GoogleGateway) DeleteEvent(ctx context.Context, eventID string) error {
	srv, err := g.service(ctx)
	if err != nil {
		return err
	}
	if err := srv.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		if isGone(err) {
			return entities.ErrExternalEventGone
		}
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

func isGone(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}

func (g *GoogleGateway) fromGoogle(item *gcal.Event) (entities.CalendarEvent, error) {
	event := entities.CalendarEvent{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Mode:        entities.ModeEvent,
	}
	if item.ExtendedProperties != nil {
		if mode := item.ExtendedProperties.Private[ModeProperty]; mode != "" {
			event.Mode = mode
		}
	}
	for _, a := range item.Attendees {
		event.Attendees = append(event.Attendees, a.Email)
	}

	if item.Start == nil || item.End == nil {
		return event, fmt.Errorf("event %s has no start or end", item.Id)
	}
	if item.Start.DateTime == "" {
		event.AllDay = true
		start, err := time.ParseInLocation(entities.DateLayout, item.Start.Date, g.location)
		if err != nil {
			return event, fmt.Errorf("parse all-day start of %s: %w", item.Id, err)
		}
		event.Start, event.End = start, start.AddDate(0, 0, 1)
		return event, nil
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return event, fmt.Errorf("parse start of %s: %w", item.Id, err)
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return event, fmt.Errorf("parse end of %s: %w", item.Id, err)
	}
	event.Start, event.End = start.In(g.location), end.In(g.location)
	return event, nil
}

func (g *GoogleGateway) toGoogle(block *entities.TimeBlock) (*gcal.Event, error) {
	day, err := time.ParseInLocation(entities.DateLayout, block.Date, g.location)
	if err != nil {
		return nil, entities.WrapError(entities.CodeValidation, "invalid date", err)
	}

	zone := g.location.String()
	if zone == "Local" {
		zone = ""
	}

	event := &gcal.Event{
		Summary: block.Title,
		Start:   &gcal.EventDateTime{DateTime: block.StartTime.On(day).Format(time.RFC3339), TimeZone: zone},
		End:     &gcal.EventDateTime{DateTime: block.EndTime.On(day).Format(time.RFC3339), TimeZone: zone},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{ModeProperty: block.Mode},
		},
	}
	if block.Description != nil {
		event.Description = *block.Description
	}
	if block.Location != nil {
		event.Location = *block.Location
	}
	for _, email := range block.Attendees {
		event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
	}
	return event, nil
}
