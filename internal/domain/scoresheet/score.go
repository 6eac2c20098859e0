// Package scoresheet contains the score sheet aggregate: one teaching unit's
// student scores for one exam session, the rules that govern encoding them,
// and the repository contract to persist them.
package scoresheet

import (
	"strconv"
	"strings"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// Score bounds. Scores are expressed on the institutional 0-20 scale.
const (
	MinScoreValue = 0.0
	MaxScoreValue = 20.0
)

// Justification is a non-numeric score value denoting an exceptional outcome.
type Justification string

const (
	// JustificationAbsent - unjustified absence at the exam.
	JustificationAbsent Justification = "A"
	// JustificationJustifiedAbsence - justified absence (medical or similar).
	JustificationJustifiedAbsence Justification = "M"
	// JustificationCheating - cheating recorded during the exam.
	JustificationCheating Justification = "T"
)

// IsValid checks that the justification is one of the closed set.
func (j Justification) IsValid() bool {
	switch j {
	case JustificationAbsent, JustificationJustifiedAbsence, JustificationCheating:
		return true
	default:
		return false
	}
}

// Score is the value of one student score: empty, numeric in [0, 20], or a
// justification code. Immutable; build through ParseScore.
type Score struct {
	numeric       float64
	justification Justification
	kind          scoreKind
}

type scoreKind int

const (
	scoreEmpty scoreKind = iota
	scoreNumeric
	scoreJustified
)

// ParseScore parses a raw encoded value. The empty string is a valid score:
// it clears a not-yet-submitted entry. Numeric values accept both the dot and
// the comma as decimal separator, as encoded by teachers.
func ParseScore(raw string) (Score, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Score{}, nil
	}

	if j := Justification(strings.ToUpper(raw)); j.IsValid() {
		return Score{justification: j, kind: scoreJustified}, nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return Score{}, shared.ErrInvalidScoreValue
	}
	if value < MinScoreValue || value > MaxScoreValue {
		return Score{}, shared.ErrInvalidScoreValue
	}
	return Score{numeric: value, kind: scoreNumeric}, nil
}

// MustScore parses a raw value and panics on failure. Intended for tests and
// for re-hydrating already-validated persisted values.
func MustScore(raw string) Score {
	s, err := ParseScore(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// IsEmpty reports whether no value has been encoded.
func (s Score) IsEmpty() bool {
	return s.kind == scoreEmpty
}

// IsNumeric reports whether the score is a numeric value.
func (s Score) IsNumeric() bool {
	return s.kind == scoreNumeric
}

// IsJustification reports whether the score is a justification code.
func (s Score) IsJustification() bool {
	return s.kind == scoreJustified
}

// IsDecimal reports whether the score is numeric with a fractional part.
func (s Score) IsDecimal() bool {
	return s.kind == scoreNumeric && s.numeric != float64(int64(s.numeric))
}

// Value returns the numeric value; zero when the score is not numeric.
func (s Score) Value() float64 {
	return s.numeric
}

// Justification returns the justification code; empty when not justified.
func (s Score) Justification() Justification {
	if s.kind != scoreJustified {
		return ""
	}
	return s.justification
}

// Equal compares two scores by value.
func (s Score) Equal(other Score) bool {
	return s == other
}

// String returns the encoded form: "" for empty, the code for justifications,
// and the shortest exact decimal for numeric values ("12", "15.5").
func (s Score) String() string {
	switch s.kind {
	case scoreNumeric:
		return strconv.FormatFloat(s.numeric, 'f', -1, 64)
	case scoreJustified:
		return string(s.justification)
	default:
		return ""
	}
}
