package postgres

import (
	"context"
	"database/sql"
	"strings"

	"med-tracker/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, person_id, name,
			dosage, frequency, max_doses_per_day, instructions,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		m.ID,
		m.PersonID,
		m.Name,
		m.Dosage,
		m.Frequency,
		m.MaxDosesPerDay,
		m.Instructions,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage = $3,
			frequency = $4,
			max_doses_per_day = $5,
			instructions = $6,
			updated_at = $7
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		m.Frequency,
		m.MaxDosesPerDay,
		m.Instructions,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, person_id, name,
			dosage, frequency, max_doses_per_day, instructions,
			created_at, updated_at
		FROM medications
		WHERE id = $1
	`, id)

	var m medications.Medication
	if err := row.Scan(
		&m.ID,
		&m.PersonID,
		&m.Name,
		&m.Dosage,
		&m.Frequency,
		&m.MaxDosesPerDay,
		&m.Instructions,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, ErrNotFound
		}
		return medications.Medication{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) List(ctx context.Context, personID string) ([]medications.Medication, error) {
	query := `
		SELECT
			id, person_id, name,
			dosage, frequency, max_doses_per_day, instructions,
			created_at, updated_at
		FROM medications
	`
	args := []any{}
	if strings.TrimSpace(personID) != "" {
		query += ` WHERE person_id = $1`
		args = append(args, strings.TrimSpace(personID))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		var m medications.Medication
		if err := rows.Scan(
			&m.ID,
			&m.PersonID,
			&m.Name,
			&m.Dosage,
			&m.Frequency,
			&m.MaxDosesPerDay,
			&m.Instructions,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
