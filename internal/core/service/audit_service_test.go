package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadbook/user-directory/internal/core/domain"
)

type stubAuditRepo struct {
	events []domain.UserEvent
	err    error
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.UserEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func TestAuditService_Record(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	event := domain.UserEvent{
		Type:       domain.EventUserDeleted,
		UserID:     "u1",
		Actor:      "admin_1",
		OccurredAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].UserID != "u1" {
		t.Fatalf("event not stored: %+v", repo.events)
	}
}

func TestAuditService_Record_Errors(t *testing.T) {
	storeErr := errors.New("write concern timeout")
	repo := &stubAuditRepo{err: storeErr}
	svc := NewAuditService(repo, zerolog.Nop())

	if err := svc.Record(context.Background(), domain.UserEvent{UserID: "u1"}); err == nil {
		t.Error("expected error for an event without type")
	}

	err := svc.Record(context.Background(), domain.UserEvent{Type: domain.EventUserCreated, UserID: "u1"})
	if !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
