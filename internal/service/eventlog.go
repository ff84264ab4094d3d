package service

import (
	"context"
	"strings"
	"time"

	"library_backend/internal/access"
	"library_backend/internal/models"
	"library_backend/internal/repository"
)

// LogFilter narrows the circulation history by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "BORROW", "RETURN", "BOOK_ADDED", "BOOK_UPDATED", "BOOK_DELETED"
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// ErrInvalidTimeRange is returned when From is after To.
var ErrInvalidTimeRange = &models.ValidationError{Field: "from", Reason: "must not be after to"}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	return from, to, eventType, nil
}

// List returns the circulation history. Admin only.
func (s *EventLogService) List(ctx context.Context, who models.Identity, f LogFilter) ([]models.CirculationEvent, error) {
	if err := access.Authorize(who, access.AdminOnly); err != nil {
		return nil, err
	}
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}
