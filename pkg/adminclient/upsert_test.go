package adminclient

import (
	"context"
	"errors"
	"testing"
)

type submitRecorder struct {
	calls    int
	lastID   uint
	lastBody map[string]any
	err      error
}

func (r *submitRecorder) submit(ctx context.Context, id uint, payload map[string]any) error {
	r.calls++
	r.lastID = id
	r.lastBody = payload
	return r.err
}

func TestUpsertCreateFlow(t *testing.T) {
	rec := &submitRecorder{}
	reloads := 0
	s := NewUpsertSession(rec.submit, func() { reloads++ })

	s.OpenCreate()
	if s.Mode() != ModeCreate {
		t.Fatalf("expected create mode, got %v", s.Mode())
	}

	payload := map[string]any{
		"name":     "Bàn 1",
		"seats":    4,
		"location": "Tầng 1",
		"status":   "AVAILABLE",
		"active":   true,
		"restaurant": map[string]any{
			"id":   uint(3),
			"name": "Nhà hàng A",
		},
	}
	if err := s.Submit(context.Background(), payload); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if rec.calls != 1 {
		t.Fatalf("expected one submit, got %d", rec.calls)
	}
	if rec.lastID != 0 {
		t.Fatalf("create must submit with zero id, got %d", rec.lastID)
	}
	if _, present := rec.lastBody["id"]; present {
		t.Fatal("create payload must not carry an id key")
	}
	if reloads != 1 {
		t.Fatalf("expected exactly one reload, got %d", reloads)
	}
	if s.Mode() != ModeClosed {
		t.Fatalf("expected modal closed after success, got %v", s.Mode())
	}
}

func TestUpsertEditFlow(t *testing.T) {
	rec := &submitRecorder{}
	reloads := 0
	s := NewUpsertSession(rec.submit, func() { reloads++ })

	s.OpenEdit(42)
	if s.Mode() != ModeEdit || s.RecordID() != 42 {
		t.Fatalf("unexpected session state: mode=%v id=%d", s.Mode(), s.RecordID())
	}
	if err := s.Submit(context.Background(), map[string]any{"name": "Bàn 1 VIP"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.lastID != 42 {
		t.Fatalf("expected edit to submit id 42, got %d", rec.lastID)
	}
	if reloads != 1 {
		t.Fatalf("expected exactly one reload, got %d", reloads)
	}
}

func TestUpsertFailureKeepsModalOpen(t *testing.T) {
	rec := &submitRecorder{err: &APIError{StatusCode: 409, Code: "CONFLICT", Message: "name already in use"}}
	reloads := 0
	s := NewUpsertSession(rec.submit, func() { reloads++ })

	s.OpenCreate()
	if err := s.Submit(context.Background(), map[string]any{"name": "Bàn 1"}); err == nil {
		t.Fatal("expected submit error")
	}
	if s.Mode() != ModeCreate {
		t.Fatalf("modal must stay open on failure, got %v", s.Mode())
	}
	if s.Message() != "name already in use" {
		t.Fatalf("unexpected message %q", s.Message())
	}
	if reloads != 0 {
		t.Fatalf("reload must not fire on failure, got %d", reloads)
	}

	// correcting and resubmitting succeeds
	rec.err = nil
	if err := s.Submit(context.Background(), map[string]any{"name": "Bàn 2"}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if reloads != 1 || s.Mode() != ModeClosed {
		t.Fatalf("expected close and one reload, got mode=%v reloads=%d", s.Mode(), reloads)
	}
}

func TestUpsertGuards(t *testing.T) {
	rec := &submitRecorder{}
	s := NewUpsertSession(rec.submit, nil)

	if err := s.Submit(context.Background(), nil); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}

	s.OpenCreate()
	err := s.Submit(context.Background(), map[string]any{"id": 7, "name": "x"})
	if !errors.Is(err, ErrPayloadCarriesID) {
		t.Fatalf("expected ErrPayloadCarriesID, got %v", err)
	}
	if rec.calls != 0 {
		t.Fatal("rejected payload must not reach submit")
	}
}

func TestUpsertCancelResets(t *testing.T) {
	s := NewUpsertSession(func(context.Context, uint, map[string]any) error { return nil }, nil)
	s.OpenEdit(9)
	s.Cancel()
	if s.Mode() != ModeClosed || s.RecordID() != 0 || s.Message() != "" {
		t.Fatalf("cancel must reset the session: %+v", s)
	}
}
