package command

import (
	"context"

	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGN / UNASSIGN RESPONSIBLE COMMANDS
// Score responsibility moves between teachers; a teaching unit has at most one
// responsible at a time. Assigning a held unit reassigns it and reports who
// lost it.
// ══════════════════════════════════════════════════════════════════════════════

// AssignResponsibleCommand contains the data to assign a score responsible.
type AssignResponsibleCommand struct {
	// UnitCode is the teaching-unit code.
	UnitCode string

	// Year is the academic year (starting calendar year).
	Year int

	// TeacherID is the personnel number of the teacher to assign; must be
	// attributed to the unit.
	TeacherID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command shape.
func (c AssignResponsibleCommand) Validate() error {
	if _, err := shared.NewTeachingUnitID(c.UnitCode, c.Year); err != nil {
		return err
	}
	if _, err := shared.NewTeacherID(c.TeacherID); err != nil {
		return err
	}
	return nil
}

// AssignResponsibleResult contains the outcome of the assignment.
type AssignResponsibleResult struct {
	// TeacherID is the new responsible.
	TeacherID shared.TeacherID

	// PreviousTeacherID is the teacher who held the unit before, empty when
	// the unit was vacant.
	PreviousTeacherID shared.TeacherID

	// Events contains domain events generated.
	Events []shared.Event
}

// AssignResponsibleHandler handles the AssignResponsibleCommand.
type AssignResponsibleHandler struct {
	assignments    *responsible.AssignmentService
	eventPublisher shared.EventPublisher
}

// NewAssignResponsibleHandler creates a new AssignResponsibleHandler.
func NewAssignResponsibleHandler(
	assignments *responsible.AssignmentService,
	eventPublisher shared.EventPublisher,
) *AssignResponsibleHandler {
	return &AssignResponsibleHandler{assignments: assignments, eventPublisher: eventPublisher}
}

// Handle executes the assign responsible command. Assigning the current
// responsible again succeeds without movement and emits no event.
func (h *AssignResponsibleHandler) Handle(ctx context.Context, cmd AssignResponsibleCommand) (*AssignResponsibleResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "AssignResponsible", shared.ErrValidation, err.Error(), err)
	}

	unitID, err := shared.NewTeachingUnitID(cmd.UnitCode, cmd.Year)
	if err != nil {
		return nil, err
	}
	teacherID := shared.TeacherID(cmd.TeacherID)

	previousID, err := h.assignments.Assign(ctx, unitID, teacherID)
	if err != nil {
		return nil, err
	}

	result := &AssignResponsibleResult{TeacherID: teacherID, PreviousTeacherID: previousID}
	if previousID == teacherID {
		// Already the responsible, nothing moved.
		result.PreviousTeacherID = ""
		return result, nil
	}

	event := shared.NewResponsibleAssignedEvent(
		unitID.Code, unitID.Year.Int(), teacherID.String(), previousID.String())
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UNASSIGN
// ══════════════════════════════════════════════════════════════════════════════

// UnassignResponsibleCommand contains the data to remove a responsibility.
type UnassignResponsibleCommand struct {
	UnitCode  string
	Year      int
	TeacherID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command shape.
func (c UnassignResponsibleCommand) Validate() error {
	if _, err := shared.NewTeachingUnitID(c.UnitCode, c.Year); err != nil {
		return err
	}
	if _, err := shared.NewTeacherID(c.TeacherID); err != nil {
		return err
	}
	return nil
}

// UnassignResponsibleResult contains the outcome of the removal.
type UnassignResponsibleResult struct {
	// Events contains domain events generated.
	Events []shared.Event
}

// UnassignResponsibleHandler handles the UnassignResponsibleCommand.
type UnassignResponsibleHandler struct {
	assignments    *responsible.AssignmentService
	eventPublisher shared.EventPublisher
}

// NewUnassignResponsibleHandler creates a new UnassignResponsibleHandler.
func NewUnassignResponsibleHandler(
	assignments *responsible.AssignmentService,
	eventPublisher shared.EventPublisher,
) *UnassignResponsibleHandler {
	return &UnassignResponsibleHandler{assignments: assignments, eventPublisher: eventPublisher}
}

// Handle executes the unassign responsible command. Returns
// shared.ErrNotScoreResponsible when the teacher does not hold the unit.
func (h *UnassignResponsibleHandler) Handle(ctx context.Context, cmd UnassignResponsibleCommand) (*UnassignResponsibleResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "UnassignResponsible", shared.ErrValidation, err.Error(), err)
	}

	unitID, err := shared.NewTeachingUnitID(cmd.UnitCode, cmd.Year)
	if err != nil {
		return nil, err
	}
	teacherID := shared.TeacherID(cmd.TeacherID)

	if err := h.assignments.Unassign(ctx, unitID, teacherID); err != nil {
		return nil, err
	}

	event := shared.NewResponsibleUnassignedEvent(unitID.Code, unitID.Year.Int(), teacherID.String())
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return &UnassignResponsibleResult{Events: []shared.Event{event}}, nil
}
