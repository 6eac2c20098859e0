package scoresheet

import (
	"time"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/pkg/timeutil"
)

// EncodeEntry is one incoming score update of a batch encode.
type EncodeEntry struct {
	RegistrationNumber shared.RegistrationNumber
	Email              string
	RawValue           string
}

// EncodeAll runs the full rule set across every entry of a batch and collects
// every violation of every entry before raising one combined result; it never
// stops at the first failing entry. Entries whose rules all pass are encoded
// even when other entries fail, so a sheet saved after EncodeAll carries the
// valid updates while the caller surfaces the aggregated violations.
//
// deenrolled lists the students withdrawn from the exam (resolved by the
// caller from the exam-enrollment translator); encoding for them is refused.
//
// Returns the registration numbers whose value actually changed, and the
// aggregated shared.Violations (nil error when every entry passed).
func (s *ScoreSheet) EncodeAll(entries []EncodeEntry, deenrolled map[shared.RegistrationNumber]bool) ([]shared.RegistrationNumber, error) {
	return s.encodeAll(entries, deenrolled, timeutil.Today())
}

func (s *ScoreSheet) encodeAll(entries []EncodeEntry, deenrolled map[shared.RegistrationNumber]bool, today time.Time) ([]shared.RegistrationNumber, error) {
	var all shared.Violations
	var changed []shared.RegistrationNumber

	for _, entry := range entries {
		validators := EncodeScoreValidators(s, entry.RegistrationNumber, entry.Email, entry.RawValue, today)
		validators = append(validators, StudentNotDeenrolled{
			RegistrationNumber: entry.RegistrationNumber,
			Deenrolled:         deenrolled,
		})

		if violations := RunValidators(entry.RegistrationNumber, validators...); len(violations) > 0 {
			all = append(all, violations...)
			continue
		}

		score, err := ParseScore(entry.RawValue)
		if err != nil {
			all = append(all, shared.Violation{RegistrationNumber: entry.RegistrationNumber, Err: err})
			continue
		}
		target := s.entry(entry.RegistrationNumber)
		if !target.Score.Equal(score) {
			target.Score = score
			changed = append(changed, entry.RegistrationNumber)
		}
	}

	if len(all) > 0 {
		return changed, all
	}
	return changed, nil
}
