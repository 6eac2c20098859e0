package command

import (
	"context"

	"github.com/campus-hub/score-encoding-hub/internal/domain/calendar"
	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT SCORES COMMAND
// Finalizes the encoded scores of a sheet. Submission is reserved to the score
// responsible; submitted scores become immutable for this engine.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitScoresCommand contains the data to submit a score sheet.
type SubmitScoresCommand struct {
	// UnitCode is the teaching-unit code.
	UnitCode string

	// Year is the academic year (starting calendar year).
	Year int

	// Session is the exam session (1-3).
	Session int

	// TeacherID is the personnel number of the submitting teacher; must be
	// the recorded score responsible of the unit.
	TeacherID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command shape.
func (c SubmitScoresCommand) Validate() error {
	if _, err := scoresheet.NewIdentity(c.UnitCode, c.Year, c.Session); err != nil {
		return err
	}
	if _, err := shared.NewTeacherID(c.TeacherID); err != nil {
		return err
	}
	return nil
}

// SubmitScoresResult contains the outcome of the submission.
type SubmitScoresResult struct {
	// Submitted lists the registration numbers newly finalized by this call.
	// Empty on a repeated submission with nothing pending.
	Submitted []shared.RegistrationNumber

	// MissingCount is how many entries still hold no encoded value. Those are
	// skipped, never blocking: submission finalizes what has been entered.
	MissingCount int

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SubmitScoresHandler handles the SubmitScoresCommand.
type SubmitScoresHandler struct {
	sheetRepo      scoresheet.Repository
	window         *calendar.WindowCheck
	assignments    *responsible.AssignmentService
	eventPublisher shared.EventPublisher
}

// NewSubmitScoresHandler creates a new SubmitScoresHandler.
func NewSubmitScoresHandler(
	sheetRepo scoresheet.Repository,
	window *calendar.WindowCheck,
	assignments *responsible.AssignmentService,
	eventPublisher shared.EventPublisher,
) *SubmitScoresHandler {
	return &SubmitScoresHandler{
		sheetRepo:      sheetRepo,
		window:         window,
		assignments:    assignments,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the submit scores command. Idempotent: resubmitting a sheet
// with nothing pending succeeds with an empty Submitted list.
func (h *SubmitScoresHandler) Handle(ctx context.Context, cmd SubmitScoresCommand) (*SubmitScoresResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "SubmitScores", shared.ErrValidation, err.Error(), err)
	}

	id, err := scoresheet.NewIdentity(cmd.UnitCode, cmd.Year, cmd.Session)
	if err != nil {
		return nil, err
	}
	teacherID := shared.TeacherID(cmd.TeacherID)

	if err := h.window.VerifyOpen(ctx, id.Year, id.Session); err != nil {
		return nil, err
	}
	if err := h.assignments.VerifyResponsible(ctx, teacherID, id.UnitCode, id.Year); err != nil {
		return nil, err
	}

	sheet, err := h.sheetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	submitted := sheet.Submit()

	result := &SubmitScoresResult{Submitted: submitted}
	for _, entry := range sheet.Scores {
		if entry.IsMissing() {
			result.MissingCount++
		}
	}

	if len(submitted) == 0 {
		return result, nil
	}

	if err := h.sheetRepo.Save(ctx, sheet); err != nil {
		return nil, err
	}

	event := shared.NewScoreSheetSubmittedEvent(
		id.String(), id.UnitCode, id.Year.Int(), id.Session.Int(), teacherID.String(), len(submitted))
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}
