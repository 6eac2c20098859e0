package scoresheet

import (
	"fmt"
	"time"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/pkg/timeutil"
)

// MinCreditsForDecimalScore is the credit load at or above which a teaching
// unit's scores may carry a fractional part.
const MinCreditsForDecimalScore = 15.0

// ═══════════════════════════════════════════════════════════════════════════
// Identity
// ═══════════════════════════════════════════════════════════════════════════

// Identity is the aggregate root key of a score sheet: one teaching unit,
// one academic year, one exam session. Equality by value.
type Identity struct {
	Session  shared.SessionNumber
	UnitCode string
	Year     shared.AcademicYear
}

// NewIdentity creates an Identity with validation.
func NewIdentity(unitCode string, year, session int) (Identity, error) {
	unitID, err := shared.NewTeachingUnitID(unitCode, year)
	if err != nil {
		return Identity{}, err
	}
	s := shared.SessionNumber(session)
	if !s.IsValid() {
		return Identity{}, shared.ErrInvalidSessionNumber
	}
	return Identity{Session: s, UnitCode: unitID.Code, Year: unitID.Year}, nil
}

// TeachingUnitID returns the unit identity part of the sheet identity.
func (id Identity) TeachingUnitID() shared.TeachingUnitID {
	return shared.TeachingUnitID{Code: id.UnitCode, Year: id.Year}
}

// String returns the "LDROI1001 (2024-25) session 1" display form.
func (id Identity) String() string {
	return fmt.Sprintf("%s (%s) session %d", id.UnitCode, id.Year, id.Session)
}

// ═══════════════════════════════════════════════════════════════════════════
// Student Score
// ═══════════════════════════════════════════════════════════════════════════

// StudentScore is one entry of a score sheet. One entry exists per enrolled
// student; uniqueness by registration number within the sheet. Once submitted
// the value is immutable until an explicit re-open outside this engine.
type StudentScore struct {
	RegistrationNumber shared.RegistrationNumber
	Email              string
	Score              Score
	DueDate            time.Time
	Submitted          bool
}

// IsMissing reports whether no value has been encoded yet.
func (s StudentScore) IsMissing() bool {
	return s.Score.IsEmpty()
}

// PendingSubmission reports whether the entry has a value waiting to be submitted.
func (s StudentScore) PendingSubmission() bool {
	return !s.Score.IsEmpty() && !s.Submitted
}

// DeadlinePassed reports whether the entry's due date is strictly before the
// given date (an entry remains encodable on its due date).
func (s StudentScore) DeadlinePassed(today time.Time) bool {
	return timeutil.DateAfter(today, s.DueDate)
}

// ═══════════════════════════════════════════════════════════════════════════
// Score Sheet (aggregate root)
// ═══════════════════════════════════════════════════════════════════════════

// ScoreSheet holds and mutates one teaching unit's scores for one session and
// year. Created by aggregating enrollment data; mutated only through
// EncodeScore/EncodeAll and Submit; never deleted by this engine.
type ScoreSheet struct {
	ID Identity

	// Credits is the teaching unit's credit value; it fixes decimal eligibility.
	Credits float64

	Scores []StudentScore
}

// NewScoreSheet creates a score sheet, enforcing one entry per registration
// number.
func NewScoreSheet(id Identity, credits float64, scores []StudentScore) (*ScoreSheet, error) {
	seen := make(map[shared.RegistrationNumber]bool, len(scores))
	for _, s := range scores {
		if seen[s.RegistrationNumber] {
			return nil, shared.NewDomainError("scoresheet", "New", shared.ErrAlreadyExists,
				fmt.Sprintf("duplicate entry for student %s", s.RegistrationNumber))
		}
		seen[s.RegistrationNumber] = true
	}
	return &ScoreSheet{ID: id, Credits: credits, Scores: scores}, nil
}

// DecimalScoresAllowed reports whether scores on this sheet may carry a
// fractional part, derived from the unit's credit load.
func (s *ScoreSheet) DecimalScoresAllowed() bool {
	return s.Credits >= MinCreditsForDecimalScore
}

// entry returns the mutable entry for a registration number, nil when absent.
func (s *ScoreSheet) entry(noma shared.RegistrationNumber) *StudentScore {
	for i := range s.Scores {
		if s.Scores[i].RegistrationNumber == noma {
			return &s.Scores[i]
		}
	}
	return nil
}

// Entry returns a copy of the entry for a registration number.
func (s *ScoreSheet) Entry(noma shared.RegistrationNumber) (StudentScore, bool) {
	if e := s.entry(noma); e != nil {
		return *e, true
	}
	return StudentScore{}, false
}

// RegistrationNumbers returns every registration number on the sheet.
func (s *ScoreSheet) RegistrationNumbers() []shared.RegistrationNumber {
	nomas := make([]shared.RegistrationNumber, len(s.Scores))
	for i, sc := range s.Scores {
		nomas[i] = sc.RegistrationNumber
	}
	return nomas
}

// IsSubmitted reports whether the entry for a registration number is submitted.
func (s *ScoreSheet) IsSubmitted(noma shared.RegistrationNumber) bool {
	e := s.entry(noma)
	return e != nil && e.Submitted
}

// SubmittedCount returns how many entries are submitted.
func (s *ScoreSheet) SubmittedCount() int {
	n := 0
	for _, sc := range s.Scores {
		if sc.Submitted {
			n++
		}
	}
	return n
}

// TotalCount returns how many entries the sheet holds.
func (s *ScoreSheet) TotalCount() int {
	return len(s.Scores)
}

// SubmittedCountByDueDate returns, per due date, how many entries are submitted.
// Keys are campus dates at midnight.
func (s *ScoreSheet) SubmittedCountByDueDate() map[time.Time]int {
	counts := make(map[time.Time]int)
	for _, sc := range s.Scores {
		if sc.Submitted {
			counts[timeutil.DateOf(sc.DueDate)]++
		}
	}
	return counts
}

// TotalCountByDueDate returns, per due date, how many entries the sheet holds.
// Keys are campus dates at midnight.
func (s *ScoreSheet) TotalCountByDueDate() map[time.Time]int {
	counts := make(map[time.Time]int)
	for _, sc := range s.Scores {
		counts[timeutil.DateOf(sc.DueDate)]++
	}
	return counts
}

// ═══════════════════════════════════════════════════════════════════════════
// Mutations
// ═══════════════════════════════════════════════════════════════════════════

// EncodeScore validates and records one score. Every rule is evaluated before
// failing: the returned error is a shared.Violations carrying all failures
// for the entry. On success the in-memory value is replaced but not submitted.
func (s *ScoreSheet) EncodeScore(noma shared.RegistrationNumber, email, rawValue string) error {
	return s.encodeScore(noma, email, rawValue, timeutil.Today())
}

// encodeScore is EncodeScore with an explicit date, shared with EncodeAll.
// Validators observe the aggregate before any mutation of this call.
func (s *ScoreSheet) encodeScore(noma shared.RegistrationNumber, email, rawValue string, today time.Time) error {
	violations := RunValidators(noma, EncodeScoreValidators(s, noma, email, rawValue, today)...)
	if len(violations) > 0 {
		return violations
	}
	score, err := ParseScore(rawValue)
	if err != nil {
		// Unreachable after validation; kept as a guard against rule drift.
		return shared.Violations{{RegistrationNumber: noma, Err: err}}
	}
	s.entry(noma).Score = score
	return nil
}

// Submit finalizes every entry holding a value that is not yet submitted.
// Entries with no encoded value are left untouched: submission only finalizes
// what has been entered and never fails for missing scores. Idempotent.
// Returns the registration numbers newly submitted by this call.
func (s *ScoreSheet) Submit() []shared.RegistrationNumber {
	var submitted []shared.RegistrationNumber
	for i := range s.Scores {
		if s.Scores[i].PendingSubmission() {
			s.Scores[i].Submitted = true
			submitted = append(submitted, s.Scores[i].RegistrationNumber)
		}
	}
	return submitted
}
