// Package calendar holds the submission-window gate. The window itself is
// owned by the institutional calendar (an external collaborator); this engine
// only reads it to decide whether score encoding and submission are allowed.
package calendar

import (
	"context"
	"time"

	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/pkg/timeutil"
)

// SubmissionWindow is the date range, tied to one year/session, during which
// scores may be encoded and submitted. Bounds are inclusive at date
// granularity: the window is open on its start date and on its end date.
type SubmissionWindow struct {
	Year      shared.AcademicYear
	Session   shared.SessionNumber
	StartDate time.Time
	EndDate   time.Time
}

// ContainsDate reports whether t falls on a campus date inside the window.
func (w SubmissionWindow) ContainsDate(t time.Time) bool {
	return timeutil.DateWithin(t, w.StartDate, w.EndDate)
}

// Matches reports whether the window targets the given year and session.
func (w SubmissionWindow) Matches(year shared.AcademicYear, session shared.SessionNumber) bool {
	return w.Year == year && w.Session == session
}

// IsZero reports whether no window is set.
func (w SubmissionWindow) IsZero() bool {
	return w.Year == 0 && w.Session == 0 && w.StartDate.IsZero() && w.EndDate.IsZero()
}

// WindowTranslator reads the currently configured submission window from the
// institutional calendar.
type WindowTranslator interface {
	// Current returns the active submission window. Implementations return a
	// zero window (not an error) when none is configured.
	Current(ctx context.Context) (SubmissionWindow, error)
}

// ═══════════════════════════════════════════════════════════════════════════
// Window gate
// ═══════════════════════════════════════════════════════════════════════════

// WindowCheck gates mutating use cases on the submission window. It has two
// states, closed and open; open requires all of: a configured window, today
// inside its bounds, and a year/session match with the command.
type WindowCheck struct {
	translator WindowTranslator

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewWindowCheck creates a WindowCheck backed by the given translator.
func NewWindowCheck(translator WindowTranslator) *WindowCheck {
	return &WindowCheck{translator: translator, now: timeutil.Now}
}

// WithClock replaces the gate's clock. Intended for tests.
func (c *WindowCheck) WithClock(now func() time.Time) *WindowCheck {
	c.now = now
	return c
}

// VerifyOpen checks that the submission window is open for the given year and
// session. Returns shared.ErrSubmissionWindowClosed when no window is
// configured, today is outside its bounds, or the year/session do not match.
// Purely a gate: no side effects.
func (c *WindowCheck) VerifyOpen(ctx context.Context, year shared.AcademicYear, session shared.SessionNumber) error {
	window, err := c.translator.Current(ctx)
	if err != nil {
		return err
	}
	if window.IsZero() {
		return shared.ErrSubmissionWindowClosed
	}
	if !window.ContainsDate(c.now()) {
		return shared.ErrSubmissionWindowClosed
	}
	if !window.Matches(year, session) {
		return shared.ErrSubmissionWindowClosed
	}
	return nil
}

// Current returns the active window for callers that need its year/session
// after the gate has passed (e.g. to resolve "the active session").
func (c *WindowCheck) Current(ctx context.Context) (SubmissionWindow, error) {
	return c.translator.Current(ctx)
}
