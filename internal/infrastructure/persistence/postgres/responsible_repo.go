package postgres

import (
	"context"
	"fmt"

	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ResponsibleRepository is the PostgreSQL implementation of
// responsible.Repository. It runs against a Querier so the same code serves
// both pool-backed reads and unit-of-work transactions.
type ResponsibleRepository struct {
	q Querier
}

// NewResponsibleRepository creates a repository over the connection pool.
func NewResponsibleRepository(conn *Connection) *ResponsibleRepository {
	return &ResponsibleRepository{q: conn.Pool()}
}

// newResponsibleRepositoryWithQuerier binds the repository to a transaction.
func newResponsibleRepositoryWithQuerier(q Querier) *ResponsibleRepository {
	return &ResponsibleRepository{q: q}
}

// Get returns the aggregate for a teacher.
func (r *ResponsibleRepository) Get(ctx context.Context, teacherID shared.TeacherID) (*responsible.ScoreResponsible, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM score_responsibles WHERE teacher_id = $1)
	`, teacherID.String()).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("postgres: getting responsible %s: %w", teacherID, err)
	}
	if !exists {
		return nil, shared.ErrResponsibleNotFound
	}

	units, err := r.loadUnits(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return responsible.RestoreScoreResponsible(teacherID, units), nil
}

// Search returns the aggregates for the given teachers, absent ones omitted.
func (r *ResponsibleRepository) Search(ctx context.Context, teacherIDs []shared.TeacherID) ([]*responsible.ScoreResponsible, error) {
	if len(teacherIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(teacherIDs))
	for i, t := range teacherIDs {
		ids[i] = t.String()
	}

	rows, err := r.q.Query(ctx, `
		SELECT r.teacher_id, u.unit_code, u.year
		FROM score_responsibles r
		LEFT JOIN responsibility_units u ON u.teacher_id = r.teacher_id
		WHERE r.teacher_id = ANY($1)
		ORDER BY r.teacher_id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: searching responsibles: %w", err)
	}
	defer rows.Close()

	units := make(map[shared.TeacherID][]shared.TeachingUnitID)
	var order []shared.TeacherID
	for rows.Next() {
		var teacherID string
		var code *string
		var year *int
		if err := rows.Scan(&teacherID, &code, &year); err != nil {
			return nil, fmt.Errorf("postgres: scanning responsible: %w", err)
		}
		t := shared.TeacherID(teacherID)
		if _, seen := units[t]; !seen {
			units[t] = nil
			order = append(order, t)
		}
		if code != nil && year != nil {
			units[t] = append(units[t], shared.TeachingUnitID{Code: *code, Year: shared.AcademicYear(*year)})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*responsible.ScoreResponsible, 0, len(order))
	for _, t := range order {
		result = append(result, responsible.RestoreScoreResponsible(t, units[t]))
	}
	return result, nil
}

// Save persists the aggregate, replacing its responsibility set. Outside a
// unit of work each statement autocommits; the assignment service always goes
// through the unit of work for multi-aggregate moves.
func (r *ResponsibleRepository) Save(ctx context.Context, resp *responsible.ScoreResponsible) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO score_responsibles (teacher_id) VALUES ($1)
		ON CONFLICT (teacher_id) DO NOTHING
	`, resp.TeacherID.String())
	if err != nil {
		return fmt.Errorf("postgres: upserting responsible %s: %w", resp.TeacherID, err)
	}

	_, err = r.q.Exec(ctx, `
		DELETE FROM responsibility_units WHERE teacher_id = $1
	`, resp.TeacherID.String())
	if err != nil {
		return fmt.Errorf("postgres: clearing units of %s: %w", resp.TeacherID, err)
	}

	for _, unit := range resp.Units() {
		_, err = r.q.Exec(ctx, `
			INSERT INTO responsibility_units (unit_code, year, teacher_id)
			VALUES ($1, $2, $3)
		`, unit.Code, unit.Year.Int(), resp.TeacherID.String())
		if err != nil {
			if IsUniqueViolation(err) {
				return shared.NewDomainError("responsible", "Save", shared.ErrAlreadyExists,
					fmt.Sprintf("unit %s already has a responsible", unit))
			}
			return fmt.Errorf("postgres: inserting unit %s for %s: %w", unit, resp.TeacherID, err)
		}
	}
	return nil
}

// Delete removes the aggregate; responsibility rows cascade.
func (r *ResponsibleRepository) Delete(ctx context.Context, teacherID shared.TeacherID) error {
	_, err := r.q.Exec(ctx, `
		DELETE FROM score_responsibles WHERE teacher_id = $1
	`, teacherID.String())
	if err != nil {
		return fmt.Errorf("postgres: deleting responsible %s: %w", teacherID, err)
	}
	return nil
}

// GetAllIdentities returns every teacher holding an aggregate.
func (r *ResponsibleRepository) GetAllIdentities(ctx context.Context) ([]shared.TeacherID, error) {
	rows, err := r.q.Query(ctx, `SELECT teacher_id FROM score_responsibles ORDER BY teacher_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing responsibles: %w", err)
	}
	defer rows.Close()

	var ids []shared.TeacherID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scanning teacher id: %w", err)
		}
		ids = append(ids, shared.TeacherID(id))
	}
	return ids, rows.Err()
}

// GetForTeachingUnit returns the aggregate currently holding the unit.
func (r *ResponsibleRepository) GetForTeachingUnit(ctx context.Context, unitID shared.TeachingUnitID) (*responsible.ScoreResponsible, error) {
	var teacherID string
	err := r.q.QueryRow(ctx, `
		SELECT teacher_id FROM responsibility_units WHERE unit_code = $1 AND year = $2
	`, unitID.Code, unitID.Year.Int()).Scan(&teacherID)
	if IsNoRows(err) {
		return nil, shared.ErrResponsibleNotFound
	} else if err != nil {
		return nil, fmt.Errorf("postgres: getting responsible of %s: %w", unitID, err)
	}
	return r.Get(ctx, shared.TeacherID(teacherID))
}

// SearchDetails returns the responsibility details with display names, joined
// from the staff directory; names are empty when the directory has no entry.
func (r *ResponsibleRepository) SearchDetails(ctx context.Context, unitIDs []shared.TeachingUnitID) ([]responsible.Detail, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}

	codes := make([]string, len(unitIDs))
	years := make([]int, len(unitIDs))
	for i, u := range unitIDs {
		codes[i] = u.Code
		years[i] = u.Year.Int()
	}

	rows, err := r.q.Query(ctx, `
		SELECT u.teacher_id, COALESCE(d.first_name, ''), COALESCE(d.last_name, ''), u.unit_code, u.year
		FROM responsibility_units u
		LEFT JOIN teacher_directory d ON d.teacher_id = u.teacher_id
		WHERE (u.unit_code, u.year) IN (SELECT * FROM unnest($1::text[], $2::int[]))
		ORDER BY u.unit_code, u.year
	`, codes, years)
	if err != nil {
		return nil, fmt.Errorf("postgres: searching responsibility details: %w", err)
	}
	defer rows.Close()

	var details []responsible.Detail
	for rows.Next() {
		var d responsible.Detail
		var teacherID, code string
		var year int
		if err := rows.Scan(&teacherID, &d.FirstName, &d.LastName, &code, &year); err != nil {
			return nil, fmt.Errorf("postgres: scanning responsibility detail: %w", err)
		}
		d.TeacherID = shared.TeacherID(teacherID)
		d.UnitID = shared.TeachingUnitID{Code: code, Year: shared.AcademicYear(year)}
		details = append(details, d)
	}
	return details, rows.Err()
}

// loadUnits loads the responsibility set of one teacher.
func (r *ResponsibleRepository) loadUnits(ctx context.Context, teacherID shared.TeacherID) ([]shared.TeachingUnitID, error) {
	rows, err := r.q.Query(ctx, `
		SELECT unit_code, year FROM responsibility_units
		WHERE teacher_id = $1
		ORDER BY unit_code, year
	`, teacherID.String())
	if err != nil {
		return nil, fmt.Errorf("postgres: loading units of %s: %w", teacherID, err)
	}
	defer rows.Close()

	var units []shared.TeachingUnitID
	for rows.Next() {
		var code string
		var year int
		if err := rows.Scan(&code, &year); err != nil {
			return nil, fmt.Errorf("postgres: scanning unit of %s: %w", teacherID, err)
		}
		units = append(units, shared.TeachingUnitID{Code: code, Year: shared.AcademicYear(year)})
	}
	return units, rows.Err()
}
