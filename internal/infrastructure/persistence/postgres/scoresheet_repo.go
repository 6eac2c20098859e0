package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ScoreSheetRepository is the PostgreSQL implementation of scoresheet.Repository.
// A sheet is stored as one score_sheets row plus one score_entries row per
// student; Save replaces the whole aggregate in one transaction.
type ScoreSheetRepository struct {
	conn *Connection
}

// NewScoreSheetRepository creates a new ScoreSheetRepository.
func NewScoreSheetRepository(conn *Connection) *ScoreSheetRepository {
	return &ScoreSheetRepository{conn: conn}
}

// Get returns the sheet for the given identity.
func (r *ScoreSheetRepository) Get(ctx context.Context, id scoresheet.Identity) (*scoresheet.ScoreSheet, error) {
	var credits float64
	err := r.conn.QueryRow(ctx, `
		SELECT credits FROM score_sheets
		WHERE unit_code = $1 AND year = $2 AND session = $3
	`, id.UnitCode, id.Year.Int(), id.Session.Int()).Scan(&credits)
	if IsNoRows(err) {
		return nil, shared.ErrScoreSheetNotFound
	} else if err != nil {
		return nil, fmt.Errorf("postgres: getting score sheet %s: %w", id, err)
	}

	scores, err := r.loadEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	return scoresheet.NewScoreSheet(id, credits, scores)
}

// Search returns the sheets for the given identities, absent ones omitted.
func (r *ScoreSheetRepository) Search(ctx context.Context, ids []scoresheet.Identity) ([]*scoresheet.ScoreSheet, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	codes := make([]string, len(ids))
	years := make([]int, len(ids))
	sessions := make([]int, len(ids))
	for i, id := range ids {
		codes[i] = id.UnitCode
		years[i] = id.Year.Int()
		sessions[i] = id.Session.Int()
	}

	rows, err := r.conn.Query(ctx, `
		SELECT unit_code, year, session, credits FROM score_sheets
		WHERE (unit_code, year, session) IN (
			SELECT * FROM unnest($1::text[], $2::int[], $3::int[])
		)
	`, codes, years, sessions)
	if err != nil {
		return nil, fmt.Errorf("postgres: searching score sheets: %w", err)
	}
	defer rows.Close()

	type sheetRow struct {
		id      scoresheet.Identity
		credits float64
	}
	var found []sheetRow
	for rows.Next() {
		var sr sheetRow
		var code string
		var year, session int
		if err := rows.Scan(&code, &year, &session, &sr.credits); err != nil {
			return nil, fmt.Errorf("postgres: scanning score sheet: %w", err)
		}
		sr.id = scoresheet.Identity{
			Session:  shared.SessionNumber(session),
			UnitCode: code,
			Year:     shared.AcademicYear(year),
		}
		found = append(found, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sheets := make([]*scoresheet.ScoreSheet, 0, len(found))
	for _, sr := range found {
		scores, err := r.loadEntries(ctx, sr.id)
		if err != nil {
			return nil, err
		}
		sheet, err := scoresheet.NewScoreSheet(sr.id, sr.credits, scores)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// Save persists the sheet, replacing its entries.
func (r *ScoreSheetRepository) Save(ctx context.Context, sheet *scoresheet.ScoreSheet) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		return saveSheet(ctx, tx, sheet)
	})
}

// Delete removes the sheet; entries cascade.
func (r *ScoreSheetRepository) Delete(ctx context.Context, id scoresheet.Identity) error {
	_, err := r.conn.Exec(ctx, `
		DELETE FROM score_sheets WHERE unit_code = $1 AND year = $2 AND session = $3
	`, id.UnitCode, id.Year.Int(), id.Session.Int())
	if err != nil {
		return fmt.Errorf("postgres: deleting score sheet %s: %w", id, err)
	}
	return nil
}

// GetAllIdentities returns the identity of every persisted sheet.
func (r *ScoreSheetRepository) GetAllIdentities(ctx context.Context) ([]scoresheet.Identity, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT unit_code, year, session FROM score_sheets ORDER BY unit_code, year, session
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing score sheet identities: %w", err)
	}
	defer rows.Close()

	var ids []scoresheet.Identity
	for rows.Next() {
		var code string
		var year, session int
		if err := rows.Scan(&code, &year, &session); err != nil {
			return nil, fmt.Errorf("postgres: scanning identity: %w", err)
		}
		ids = append(ids, scoresheet.Identity{
			Session:  shared.SessionNumber(session),
			UnitCode: code,
			Year:     shared.AcademicYear(year),
		})
	}
	return ids, rows.Err()
}

// loadEntries loads the student entries of one sheet, ordered by registration
// number for stable rehydration.
func (r *ScoreSheetRepository) loadEntries(ctx context.Context, id scoresheet.Identity) ([]scoresheet.StudentScore, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT registration_number, email, score_value, due_date, submitted
		FROM score_entries
		WHERE unit_code = $1 AND year = $2 AND session = $3
		ORDER BY registration_number
	`, id.UnitCode, id.Year.Int(), id.Session.Int())
	if err != nil {
		return nil, fmt.Errorf("postgres: loading entries of %s: %w", id, err)
	}
	defer rows.Close()

	var scores []scoresheet.StudentScore
	for rows.Next() {
		var entry scoresheet.StudentScore
		var noma, rawScore string
		if err := rows.Scan(&noma, &entry.Email, &rawScore, &entry.DueDate, &entry.Submitted); err != nil {
			return nil, fmt.Errorf("postgres: scanning entry of %s: %w", id, err)
		}
		entry.RegistrationNumber = shared.RegistrationNumber(noma)
		entry.Score, err = scoresheet.ParseScore(rawScore)
		if err != nil {
			return nil, fmt.Errorf("postgres: corrupt score %q for %s on %s: %w", rawScore, noma, id, err)
		}
		scores = append(scores, entry)
	}
	return scores, rows.Err()
}

// saveSheet writes one aggregate inside an open transaction.
func saveSheet(ctx context.Context, q Querier, sheet *scoresheet.ScoreSheet) error {
	id := sheet.ID
	_, err := q.Exec(ctx, `
		INSERT INTO score_sheets (unit_code, year, session, credits, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (unit_code, year, session)
		DO UPDATE SET credits = EXCLUDED.credits, updated_at = NOW()
	`, id.UnitCode, id.Year.Int(), id.Session.Int(), sheet.Credits)
	if err != nil {
		return fmt.Errorf("postgres: upserting score sheet %s: %w", id, err)
	}

	_, err = q.Exec(ctx, `
		DELETE FROM score_entries WHERE unit_code = $1 AND year = $2 AND session = $3
	`, id.UnitCode, id.Year.Int(), id.Session.Int())
	if err != nil {
		return fmt.Errorf("postgres: clearing entries of %s: %w", id, err)
	}

	for _, entry := range sheet.Scores {
		_, err = q.Exec(ctx, `
			INSERT INTO score_entries
				(unit_code, year, session, registration_number, email, score_value, due_date, submitted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, id.UnitCode, id.Year.Int(), id.Session.Int(),
			entry.RegistrationNumber.String(), entry.Email, entry.Score.String(),
			entry.DueDate, entry.Submitted)
		if err != nil {
			return fmt.Errorf("postgres: inserting entry %s of %s: %w", entry.RegistrationNumber, id, err)
		}
	}
	return nil
}
