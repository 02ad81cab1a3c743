package adminclient

import (
	"context"
	"errors"
)

// Mode is the modal's lifecycle state.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

var (
	ErrSessionClosed    = errors.New("upsert session is not open")
	ErrSubmitInFlight   = errors.New("a submit is already in flight")
	ErrPayloadCarriesID = errors.New("create payload must not carry an id")
)

// SubmitFunc performs the actual mutation. id is zero on create and the
// edited record's id otherwise.
type SubmitFunc func(ctx context.Context, id uint, payload map[string]any) error

// UpsertSession drives one module's create-or-edit modal: open it in create
// or edit mode, submit, and either close on success or stay open with the
// failure message. Reload fires exactly once per successful submit.
type UpsertSession struct {
	submit SubmitFunc
	reload func()

	mode       Mode
	recordID   uint
	submitting bool
	message    string
}

func NewUpsertSession(submit SubmitFunc, reload func()) *UpsertSession {
	return &UpsertSession{submit: submit, reload: reload}
}

func (s *UpsertSession) Mode() Mode       { return s.mode }
func (s *UpsertSession) RecordID() uint   { return s.recordID }
func (s *UpsertSession) Submitting() bool { return s.submitting }
func (s *UpsertSession) Message() string  { return s.message }

// OpenCreate opens the modal with a blank record.
func (s *UpsertSession) OpenCreate() {
	s.mode = ModeCreate
	s.recordID = 0
	s.message = ""
}

// OpenEdit opens the modal over an existing record.
func (s *UpsertSession) OpenEdit(id uint) {
	s.mode = ModeEdit
	s.recordID = id
	s.message = ""
}

// Cancel closes the modal and drops any pending state.
func (s *UpsertSession) Cancel() {
	s.mode = ModeClosed
	s.recordID = 0
	s.message = ""
}

// Submit runs the mutation for the open modal. Create and edit are
// distinguished by the mode the modal was opened in, never by the payload:
// a create payload carrying an id is rejected before anything is sent. On
// success the modal closes and reload fires once; on failure it stays open
// with the error message so the operator can correct and resubmit.
func (s *UpsertSession) Submit(ctx context.Context, payload map[string]any) error {
	if s.mode == ModeClosed {
		return ErrSessionClosed
	}
	if s.submitting {
		return ErrSubmitInFlight
	}
	if s.mode == ModeCreate {
		if _, present := payload["id"]; present {
			s.message = ErrPayloadCarriesID.Error()
			return ErrPayloadCarriesID
		}
	}

	s.submitting = true
	err := s.submit(ctx, s.recordID, payload)
	s.submitting = false

	if err != nil {
		s.message = errorMessage(err)
		return err
	}

	s.mode = ModeClosed
	s.recordID = 0
	s.message = ""
	if s.reload != nil {
		s.reload()
	}
	return nil
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
