package inmemory

import (
	"context"
	"sync"

	"github.com/campus-hub/score-encoding-hub/internal/domain/calendar"
	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// WindowTranslator serves a fixed submission window.
type WindowTranslator struct {
	mu     sync.RWMutex
	window calendar.SubmissionWindow
}

// NewWindowTranslator creates a translator with no window configured.
func NewWindowTranslator() *WindowTranslator {
	return &WindowTranslator{}
}

// SetWindow installs the active window; a zero window clears it.
func (t *WindowTranslator) SetWindow(window calendar.SubmissionWindow) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.window = window
}

// Current implements calendar.WindowTranslator.
func (t *WindowTranslator) Current(context.Context) (calendar.SubmissionWindow, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.window, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REFERENCE DATA
// ══════════════════════════════════════════════════════════════════════════════

// ReferenceData is a fixture-backed implementation of every reference
// translator contract.
type ReferenceData struct {
	mu sync.RWMutex

	profiles     map[shared.RegistrationNumber]reference.StudentProfile
	units        map[shared.TeachingUnitID]reference.TeachingUnit
	attributions []reference.Attribution
	enrolled     []reference.ExamEnrollment
	deenrolled   []reference.ExamDeenrollment
}

// NewReferenceData creates an empty fixture store.
func NewReferenceData() *ReferenceData {
	return &ReferenceData{
		profiles: make(map[shared.RegistrationNumber]reference.StudentProfile),
		units:    make(map[shared.TeachingUnitID]reference.TeachingUnit),
	}
}

// AddProfile registers a student profile.
func (d *ReferenceData) AddProfile(p reference.StudentProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[p.RegistrationNumber] = p
}

// AddUnit registers a teaching unit.
func (d *ReferenceData) AddUnit(u reference.TeachingUnit) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.units[u.ID] = u
}

// AddAttribution registers a teaching attribution.
func (d *ReferenceData) AddAttribution(a reference.Attribution) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attributions = append(d.attributions, a)
}

// AddEnrollment registers an exam enrollment.
func (d *ReferenceData) AddEnrollment(e reference.ExamEnrollment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enrolled = append(d.enrolled, e)
}

// AddDeenrollment registers an exam withdrawal.
func (d *ReferenceData) AddDeenrollment(e reference.ExamDeenrollment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deenrolled = append(d.deenrolled, e)
}

// Search implements reference.StudentRegistryTranslator.
func (d *ReferenceData) Search(_ context.Context, nomas []shared.RegistrationNumber) ([]reference.StudentProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var profiles []reference.StudentProfile
	for _, noma := range nomas {
		if p, ok := d.profiles[noma]; ok {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

// Get implements reference.TeachingUnitTranslator.
func (d *ReferenceData) Get(_ context.Context, id shared.TeachingUnitID) (reference.TeachingUnit, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.units[id]
	if !ok {
		return reference.TeachingUnit{}, shared.ErrNotFound
	}
	return u, nil
}

// SearchUnits implements the Search side of reference.TeachingUnitTranslator.
func (d *ReferenceData) SearchUnits(_ context.Context, ids []shared.TeachingUnitID) ([]reference.TeachingUnit, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var units []reference.TeachingUnit
	for _, id := range ids {
		if u, ok := d.units[id]; ok {
			units = append(units, u)
		}
	}
	return units, nil
}

// SearchByUnit implements reference.AttributionTranslator.
func (d *ReferenceData) SearchByUnit(_ context.Context, unitID shared.TeachingUnitID) ([]reference.Attribution, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var result []reference.Attribution
	for _, a := range d.attributions {
		if a.UnitID == unitID {
			result = append(result, a)
		}
	}
	return result, nil
}

// SearchByTeacher implements reference.AttributionTranslator.
func (d *ReferenceData) SearchByTeacher(_ context.Context, teacherID shared.TeacherID, year shared.AcademicYear) ([]reference.Attribution, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var result []reference.Attribution
	for _, a := range d.attributions {
		if a.TeacherID == teacherID && a.UnitID.Year == year {
			result = append(result, a)
		}
	}
	return result, nil
}

// SearchEnrolled implements reference.ExamEnrollmentTranslator.
func (d *ReferenceData) SearchEnrolled(_ context.Context, unitID shared.TeachingUnitID, session shared.SessionNumber) ([]reference.ExamEnrollment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var result []reference.ExamEnrollment
	for _, e := range d.enrolled {
		if e.UnitID == unitID && e.Session == session {
			result = append(result, e)
		}
	}
	return result, nil
}

// SearchDeenrolled implements reference.ExamEnrollmentTranslator.
func (d *ReferenceData) SearchDeenrolled(_ context.Context, unitIDs []shared.TeachingUnitID, session shared.SessionNumber) ([]reference.ExamDeenrollment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	wanted := make(map[shared.TeachingUnitID]bool, len(unitIDs))
	for _, u := range unitIDs {
		wanted[u] = true
	}

	var result []reference.ExamDeenrollment
	for _, e := range d.deenrolled {
		if wanted[e.UnitID] && e.Session == session {
			result = append(result, e)
		}
	}
	return result, nil
}

// unitTranslator adapts ReferenceData to reference.TeachingUnitTranslator,
// whose Search name collides with the registry translator's.
type unitTranslator struct {
	data *ReferenceData
}

// Units returns a reference.TeachingUnitTranslator view of the fixture store.
func (d *ReferenceData) Units() reference.TeachingUnitTranslator {
	return unitTranslator{data: d}
}

func (t unitTranslator) Get(ctx context.Context, id shared.TeachingUnitID) (reference.TeachingUnit, error) {
	return t.data.Get(ctx, id)
}

func (t unitTranslator) Search(ctx context.Context, ids []shared.TeachingUnitID) ([]reference.TeachingUnit, error) {
	return t.data.SearchUnits(ctx, ids)
}
