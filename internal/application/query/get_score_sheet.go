package query

import (
	"context"
	"errors"
	"sort"

	"github.com/campus-hub/score-encoding-hub/internal/domain/calendar"
	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SCORE SHEET QUERY
// The encoding view of one sheet: every student row with its current value,
// submission state and deadline, joined with registry names, accommodations
// and exam withdrawals.
// ══════════════════════════════════════════════════════════════════════════════

// GetScoreSheetQuery contains the parameters of the sheet lookup.
type GetScoreSheetQuery struct {
	// UnitCode is the teaching-unit code.
	UnitCode string

	// Year is the academic year (starting calendar year).
	Year int

	// Session is the exam session (1-3).
	Session int

	// TeacherID is the requesting teacher; must be attributed to the unit.
	TeacherID string
}

// Validate validates the query shape.
func (q GetScoreSheetQuery) Validate() error {
	if _, err := scoresheet.NewIdentity(q.UnitCode, q.Year, q.Session); err != nil {
		return err
	}
	if _, err := shared.NewTeacherID(q.TeacherID); err != nil {
		return err
	}
	return nil
}

// ScoreRowDTO is one student row of the sheet view.
type ScoreRowDTO struct {
	RegistrationNumber string `json:"registration_number"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`

	// Score is the display form of the current value, empty when missing.
	Score string `json:"score"`

	Submitted bool `json:"submitted"`

	// DueDate is the row's encoding deadline in DD/MM/YYYY form.
	DueDate string `json:"due_date"`

	// DeadlinePassed reports whether the row can no longer be encoded.
	DeadlinePassed bool `json:"deadline_passed"`

	HasAccommodation bool `json:"has_accommodation"`

	// Deenrolled reports whether the student withdrew from the exam; encoding
	// for such a row is refused.
	Deenrolled bool `json:"deenrolled"`
}

// GetScoreSheetResult is the full sheet view.
type GetScoreSheetResult struct {
	UnitCode  string `json:"unit_code"`
	UnitTitle string `json:"unit_title"`
	Year      string `json:"year"`
	Session   int    `json:"session"`

	// DecimalScoresAllowed reports whether fractional scores are accepted,
	// derived from the unit's credit load.
	DecimalScoresAllowed bool `json:"decimal_scores_allowed"`

	// ResponsibleName is the display name of the score responsible, empty
	// when the unit is vacant.
	ResponsibleName string `json:"responsible_name"`

	// WindowOpen reports whether scores may currently be encoded.
	WindowOpen bool `json:"window_open"`

	SubmittedCount int `json:"submitted_count"`
	TotalCount     int `json:"total_count"`

	// Rows is ordered by last name, first name, then registration number.
	Rows []ScoreRowDTO `json:"rows"`
}

// GetScoreSheetHandler handles the GetScoreSheetQuery.
type GetScoreSheetHandler struct {
	sheetRepo       scoresheet.Repository
	responsibleRepo responsible.Repository
	window          *calendar.WindowCheck
	assignment      *responsible.AssignmentCheck
	registry        reference.StudentRegistryTranslator
	units           reference.TeachingUnitTranslator
	enrollments     reference.ExamEnrollmentTranslator
}

// NewGetScoreSheetHandler creates a new GetScoreSheetHandler.
func NewGetScoreSheetHandler(
	sheetRepo scoresheet.Repository,
	responsibleRepo responsible.Repository,
	window *calendar.WindowCheck,
	assignment *responsible.AssignmentCheck,
	registry reference.StudentRegistryTranslator,
	units reference.TeachingUnitTranslator,
	enrollments reference.ExamEnrollmentTranslator,
) *GetScoreSheetHandler {
	return &GetScoreSheetHandler{
		sheetRepo:       sheetRepo,
		responsibleRepo: responsibleRepo,
		window:          window,
		assignment:      assignment,
		registry:        registry,
		units:           units,
		enrollments:     enrollments,
	}
}

// Handle executes the score sheet query. Reading is gated on attribution, not
// on the window: a teacher may inspect the sheet while the window is closed,
// the WindowOpen flag tells the caller whether encoding would be accepted.
func (h *GetScoreSheetHandler) Handle(ctx context.Context, query GetScoreSheetQuery) (*GetScoreSheetResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetScoreSheet", shared.ErrValidation, err.Error(), err)
	}

	id, err := scoresheet.NewIdentity(query.UnitCode, query.Year, query.Session)
	if err != nil {
		return nil, err
	}
	teacherID := shared.TeacherID(query.TeacherID)

	if err := h.assignment.VerifyAssigned(ctx, id.TeachingUnitID(), teacherID); err != nil {
		return nil, err
	}

	sheet, err := h.sheetRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &GetScoreSheetResult{
		UnitCode:             id.UnitCode,
		Year:                 id.Year.String(),
		Session:              id.Session.Int(),
		DecimalScoresAllowed: sheet.DecimalScoresAllowed(),
		SubmittedCount:       sheet.SubmittedCount(),
		TotalCount:           sheet.TotalCount(),
	}

	if unit, err := h.units.Get(ctx, id.TeachingUnitID()); err == nil {
		result.UnitTitle = unit.Title
	}
	if details, err := h.responsibleRepo.SearchDetails(ctx, []shared.TeachingUnitID{id.TeachingUnitID()}); err == nil && len(details) > 0 {
		result.ResponsibleName = details[0].LastName + " " + details[0].FirstName
	}
	if err := h.window.VerifyOpen(ctx, id.Year, id.Session); err == nil {
		result.WindowOpen = true
	} else if !errors.Is(err, shared.ErrSubmissionWindowClosed) {
		return nil, err
	}

	rows, err := h.buildRows(ctx, id, sheet)
	if err != nil {
		return nil, err
	}
	result.Rows = rows

	return result, nil
}

// buildRows joins the sheet entries with registry profiles and withdrawals.
func (h *GetScoreSheetHandler) buildRows(ctx context.Context, id scoresheet.Identity, sheet *scoresheet.ScoreSheet) ([]ScoreRowDTO, error) {
	profiles, err := h.registry.Search(ctx, sheet.RegistrationNumbers())
	if err != nil {
		return nil, err
	}
	byNoma := make(map[shared.RegistrationNumber]reference.StudentProfile, len(profiles))
	for _, p := range profiles {
		byNoma[p.RegistrationNumber] = p
	}

	withdrawals, err := h.enrollments.SearchDeenrolled(ctx, []shared.TeachingUnitID{id.TeachingUnitID()}, id.Session)
	if err != nil {
		return nil, err
	}
	deenrolled := make(map[shared.RegistrationNumber]bool, len(withdrawals))
	for _, w := range withdrawals {
		deenrolled[w.RegistrationNumber] = true
	}

	today := timeutil.Today()
	rows := make([]ScoreRowDTO, 0, len(sheet.Scores))
	for _, entry := range sheet.Scores {
		profile := byNoma[entry.RegistrationNumber]
		rows = append(rows, ScoreRowDTO{
			RegistrationNumber: entry.RegistrationNumber.String(),
			FirstName:          profile.FirstName,
			LastName:           profile.LastName,
			Email:              entry.Email,
			Score:              entry.Score.String(),
			Submitted:          entry.Submitted,
			DueDate:            timeutil.FormatDate(entry.DueDate),
			DeadlinePassed:     entry.DeadlinePassed(today),
			HasAccommodation:   profile.HasAccommodation(),
			Deenrolled:         deenrolled[entry.RegistrationNumber],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LastName != rows[j].LastName {
			return rows[i].LastName < rows[j].LastName
		}
		if rows[i].FirstName != rows[j].FirstName {
			return rows[i].FirstName < rows[j].FirstName
		}
		return rows[i].RegistrationNumber < rows[j].RegistrationNumber
	})
	return rows, nil
}
