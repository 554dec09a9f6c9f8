package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"med-tracker/internal/domain/doses"
)

type DosesRepo struct {
	db *sql.DB
}

func NewDosesRepo(db *sql.DB) *DosesRepo {
	return &DosesRepo{db: db}
}

func (r *DosesRepo) Create(ctx context.Context, d doses.Dose) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO doses (
			id, medication_id, medication_name, taken_at
		) VALUES ($1,$2,$3,$4)
	`,
		d.ID,
		toNullString(d.MedicationID),
		toNullString(d.MedicationName),
		d.TakenAt,
	)
	return err
}

func (r *DosesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM doses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return doses.Dose{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, medication_id, medication_name, taken_at
		FROM doses
		WHERE id = $1
	`, id)

	return scanDose(row)
}

func (r *DosesRepo) ListByMedication(ctx context.Context, medicationID string) ([]doses.Dose, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, medication_name, taken_at
		FROM doses
		WHERE medication_id = $1
		ORDER BY taken_at DESC
	`, medicationID)
	if err != nil {
		return nil, err
	}
	return collectDoses(rows)
}

func (r *DosesRepo) ListByMedicationBetween(ctx context.Context, medicationID string, from, to time.Time) ([]doses.Dose, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, medication_name, taken_at
		FROM doses
		WHERE medication_id = $1
		  AND taken_at >= $2
		  AND taken_at < $3
		ORDER BY taken_at ASC
	`, medicationID, from, to)
	if err != nil {
		return nil, err
	}
	return collectDoses(rows)
}

func (r *DosesRepo) ListBetween(ctx context.Context, from, to time.Time) ([]doses.Dose, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, medication_name, taken_at
		FROM doses
		WHERE taken_at >= $1
		  AND taken_at < $2
		ORDER BY taken_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	return collectDoses(rows)
}

func (r *DosesRepo) ListByDeletedName(ctx context.Context, medicationName string) ([]doses.Dose, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, medication_name, taken_at
		FROM doses
		WHERE medication_id IS NULL
		  AND medication_name = $1
		ORDER BY taken_at DESC
	`, medicationName)
	if err != nil {
		return nil, err
	}
	return collectDoses(rows)
}

func (r *DosesRepo) DetachMedication(ctx context.Context, medicationID, medicationName string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE doses
		SET medication_id = NULL,
		    medication_name = $2
		WHERE medication_id = $1
	`, medicationID, medicationName)
	return err
}

func scanDose(row rowScanner) (doses.Dose, error) {
	var d doses.Dose
	var medID, medName sql.NullString
	if err := row.Scan(&d.ID, &medID, &medName, &d.TakenAt); err != nil {
		if err == sql.ErrNoRows {
			return doses.Dose{}, ErrNotFound
		}
		return doses.Dose{}, err
	}
	if medID.Valid {
		v := medID.String
		d.MedicationID = &v
	}
	if medName.Valid {
		v := medName.String
		d.MedicationName = &v
	}
	return d, nil
}

func collectDoses(rows *sql.Rows) ([]doses.Dose, error) {
	defer rows.Close()

	out := make([]doses.Dose, 0)
	for rows.Next() {
		d, err := scanDose(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}
