package progress

import (
	"context"
	"fmt"
	"sort"

	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// Service aggregates submission progress across score sheets. Reads only; it
// cross-references the sheets with the student registry (accommodations), the
// teaching-unit catalogue (titles) and the responsibility records (names).
type Service struct {
	sheets       scoresheet.Repository
	responsibles responsible.Repository
	registry     reference.StudentRegistryTranslator
	units        reference.TeachingUnitTranslator
}

// NewService creates a progress Service.
func NewService(
	sheets scoresheet.Repository,
	responsibles responsible.Repository,
	registry reference.StudentRegistryTranslator,
	units reference.TeachingUnitTranslator,
) *Service {
	return &Service{sheets: sheets, responsibles: responsibles, registry: registry, units: units}
}

// ForSheets computes the progression report over the given sheet identities.
// Identities without a persisted sheet are skipped. The report's units are
// ordered by teaching-unit code; each unit's buckets by due date ascending.
func (s *Service) ForSheets(ctx context.Context, ids []scoresheet.Identity, year shared.AcademicYear, session shared.SessionNumber) (*Report, error) {
	report := &Report{Year: year, Session: session}
	if len(ids) == 0 {
		return report, nil
	}

	sheets, err := s.sheets.Search(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("progress: searching sheets: %w", err)
	}
	if len(sheets) == 0 {
		return report, nil
	}
	sort.Slice(sheets, func(i, j int) bool {
		return sheets[i].ID.UnitCode < sheets[j].ID.UnitCode
	})

	accommodated, err := s.accommodatedStudents(ctx, sheets)
	if err != nil {
		return nil, err
	}
	titles, err := s.unitTitles(ctx, sheets)
	if err != nil {
		return nil, err
	}
	names, err := s.responsibleNames(ctx, sheets)
	if err != nil {
		return nil, err
	}

	for _, sheet := range sheets {
		report.Units = append(report.Units, UnitProgress{
			UnitCode:                sheet.ID.UnitCode,
			UnitTitle:               titles[sheet.ID.TeachingUnitID()],
			Deadlines:               deadlineBuckets(sheet),
			HasAccommodatedStudents: hasAccommodated(sheet, accommodated),
			ResponsibleName:         names[sheet.ID.TeachingUnitID()],
		})
	}
	return report, nil
}

// ForSheet computes the progression record of a single sheet.
func (s *Service) ForSheet(ctx context.Context, id scoresheet.Identity) (*Report, error) {
	return s.ForSheets(ctx, []scoresheet.Identity{id}, id.Year, id.Session)
}

// deadlineBuckets groups a sheet's entries by due date, ascending.
func deadlineBuckets(sheet *scoresheet.ScoreSheet) []DeadlineBucket {
	totals := sheet.TotalCountByDueDate()
	submitted := sheet.SubmittedCountByDueDate()

	buckets := make([]DeadlineBucket, 0, len(totals))
	for date, total := range totals {
		buckets = append(buckets, DeadlineBucket{
			DueDate:        date,
			SubmittedCount: submitted[date],
			TotalCount:     total,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].DueDate.Before(buckets[j].DueDate)
	})
	return buckets
}

func hasAccommodated(sheet *scoresheet.ScoreSheet, accommodated map[shared.RegistrationNumber]bool) bool {
	for _, noma := range sheet.RegistrationNumbers() {
		if accommodated[noma] {
			return true
		}
	}
	return false
}

// accommodatedStudents resolves, once for all sheets, which involved students
// have a recorded accommodation.
func (s *Service) accommodatedStudents(ctx context.Context, sheets []*scoresheet.ScoreSheet) (map[shared.RegistrationNumber]bool, error) {
	seen := make(map[shared.RegistrationNumber]bool)
	var nomas []shared.RegistrationNumber
	for _, sheet := range sheets {
		for _, noma := range sheet.RegistrationNumbers() {
			if !seen[noma] {
				seen[noma] = true
				nomas = append(nomas, noma)
			}
		}
	}

	profiles, err := s.registry.Search(ctx, nomas)
	if err != nil {
		return nil, fmt.Errorf("progress: searching student registry: %w", err)
	}
	accommodated := make(map[shared.RegistrationNumber]bool)
	for _, p := range profiles {
		if p.HasAccommodation() {
			accommodated[p.RegistrationNumber] = true
		}
	}
	return accommodated, nil
}

func (s *Service) unitTitles(ctx context.Context, sheets []*scoresheet.ScoreSheet) (map[shared.TeachingUnitID]string, error) {
	ids := make([]shared.TeachingUnitID, len(sheets))
	for i, sheet := range sheets {
		ids[i] = sheet.ID.TeachingUnitID()
	}
	units, err := s.units.Search(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("progress: searching teaching units: %w", err)
	}
	titles := make(map[shared.TeachingUnitID]string, len(units))
	for _, u := range units {
		titles[u.ID] = u.Title
	}
	return titles, nil
}

func (s *Service) responsibleNames(ctx context.Context, sheets []*scoresheet.ScoreSheet) (map[shared.TeachingUnitID]string, error) {
	ids := make([]shared.TeachingUnitID, len(sheets))
	for i, sheet := range sheets {
		ids[i] = sheet.ID.TeachingUnitID()
	}
	details, err := s.responsibles.SearchDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("progress: searching responsibles: %w", err)
	}
	names := make(map[shared.TeachingUnitID]string, len(details))
	for _, d := range details {
		names[d.UnitID] = fmt.Sprintf("%s %s", d.LastName, d.FirstName)
	}
	return names, nil
}
