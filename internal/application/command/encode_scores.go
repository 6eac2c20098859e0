// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-hub/score-encoding-hub/internal/domain/calendar"
	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENCODE SCORES COMMAND
// Records one or more scores on a score sheet. The whole batch is validated
// rule by rule; valid entries are persisted even when other entries fail, and
// every violation is reported at once.
// ══════════════════════════════════════════════════════════════════════════════

// ScoreEntryInput is one incoming score of the batch.
type ScoreEntryInput struct {
	// RegistrationNumber identifies the student (8-digit noma).
	RegistrationNumber string

	// Email must match the student's registry email; it guards against rows
	// shifting in spreadsheet-style input.
	Email string

	// Value is the raw score as typed: "12", "15,5", "A", "M", "T" or ""
	// to clear.
	Value string
}

// EncodeScoresCommand contains the data to encode a batch of scores.
type EncodeScoresCommand struct {
	// UnitCode is the teaching-unit code, e.g. "LDROI1001".
	UnitCode string

	// Year is the academic year (starting calendar year).
	Year int

	// Session is the exam session (1-3).
	Session int

	// TeacherID is the personnel number of the encoding teacher.
	TeacherID string

	// Entries are the scores to record.
	Entries []ScoreEntryInput

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command shape. Business rules run in the domain.
func (c EncodeScoresCommand) Validate() error {
	if _, err := scoresheet.NewIdentity(c.UnitCode, c.Year, c.Session); err != nil {
		return err
	}
	if _, err := shared.NewTeacherID(c.TeacherID); err != nil {
		return err
	}
	if len(c.Entries) == 0 {
		return errors.New("encode_scores: at least one entry is required")
	}
	for _, e := range c.Entries {
		if _, err := shared.NewRegistrationNumber(e.RegistrationNumber); err != nil {
			return fmt.Errorf("encode_scores: entry %q: %w", e.RegistrationNumber, err)
		}
	}
	return nil
}

// EncodeScoresResult contains the outcome of the batch.
type EncodeScoresResult struct {
	// Encoded lists the registration numbers whose value actually changed.
	Encoded []shared.RegistrationNumber

	// Violations carries every rule failure of the batch; empty when all
	// entries passed. Valid entries are persisted regardless.
	Violations shared.Violations

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// EncodeScoresHandler handles the EncodeScoresCommand.
type EncodeScoresHandler struct {
	sheetRepo      scoresheet.Repository
	window         *calendar.WindowCheck
	assignment     *responsible.AssignmentCheck
	enrollments    reference.ExamEnrollmentTranslator
	eventPublisher shared.EventPublisher
}

// NewEncodeScoresHandler creates a new EncodeScoresHandler.
func NewEncodeScoresHandler(
	sheetRepo scoresheet.Repository,
	window *calendar.WindowCheck,
	assignment *responsible.AssignmentCheck,
	enrollments reference.ExamEnrollmentTranslator,
	eventPublisher shared.EventPublisher,
) *EncodeScoresHandler {
	return &EncodeScoresHandler{
		sheetRepo:      sheetRepo,
		window:         window,
		assignment:     assignment,
		enrollments:    enrollments,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the encode scores command.
//
// Gates run first: the submission window must be open for the command's
// year/session and the teacher must be attributed to the unit. Then the batch
// is encoded on the sheet; when some entries fail, the sheet is still saved
// with the valid updates and the aggregated violations are returned alongside
// the result.
func (h *EncodeScoresHandler) Handle(ctx context.Context, cmd EncodeScoresCommand) (*EncodeScoresResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "EncodeScores", shared.ErrValidation, err.Error(), err)
	}

	id, err := scoresheet.NewIdentity(cmd.UnitCode, cmd.Year, cmd.Session)
	if err != nil {
		return nil, err
	}
	teacherID := shared.TeacherID(cmd.TeacherID)

	if err := h.window.VerifyOpen(ctx, id.Year, id.Session); err != nil {
		return nil, err
	}
	if err := h.assignment.VerifyAssigned(ctx, id.TeachingUnitID(), teacherID); err != nil {
		return nil, err
	}

	sheet, err := h.sheetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	deenrolled, err := h.deenrolledStudents(ctx, id)
	if err != nil {
		return nil, err
	}

	entries := make([]scoresheet.EncodeEntry, len(cmd.Entries))
	for i, e := range cmd.Entries {
		entries[i] = scoresheet.EncodeEntry{
			RegistrationNumber: shared.RegistrationNumber(e.RegistrationNumber),
			Email:              e.Email,
			RawValue:           e.Value,
		}
	}

	changed, encodeErr := sheet.EncodeAll(entries, deenrolled)

	if len(changed) > 0 {
		if err := h.sheetRepo.Save(ctx, sheet); err != nil {
			return nil, err
		}
	}

	result := &EncodeScoresResult{Encoded: changed}
	if encodeErr != nil {
		if violations, ok := shared.AsViolations(encodeErr); ok {
			result.Violations = violations
		} else {
			return nil, encodeErr
		}
	}

	if len(changed) > 0 {
		nomas := make([]string, len(changed))
		for i, n := range changed {
			nomas[i] = n.String()
		}
		event := shared.NewScoresEncodedEvent(
			id.String(), id.UnitCode, id.Year.Int(), id.Session.Int(), teacherID.String(), nomas)
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		result.Events = append(result.Events, event)
		_ = h.eventPublisher.Publish(event)
	}

	return result, nil
}

// deenrolledStudents resolves the students withdrawn from the unit's exam.
func (h *EncodeScoresHandler) deenrolledStudents(ctx context.Context, id scoresheet.Identity) (map[shared.RegistrationNumber]bool, error) {
	withdrawals, err := h.enrollments.SearchDeenrolled(ctx, []shared.TeachingUnitID{id.TeachingUnitID()}, id.Session)
	if err != nil {
		return nil, fmt.Errorf("encode_scores: searching exam withdrawals: %w", err)
	}
	deenrolled := make(map[shared.RegistrationNumber]bool, len(withdrawals))
	for _, w := range withdrawals {
		deenrolled[w.RegistrationNumber] = true
	}
	return deenrolled, nil
}
