package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"med-tracker/internal/domain/persons"
)

type PersonsRepo struct {
	db *sql.DB
}

func NewPersonsRepo(db *sql.DB) *PersonsRepo {
	return &PersonsRepo{db: db}
}

func (r *PersonsRepo) Create(ctx context.Context, p persons.Person) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO persons (
			id, first_name, last_name,
			date_of_birth, notes, is_default,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		p.ID,
		p.FirstName,
		p.LastName,
		toNullDate(p.DateOfBirth),
		p.Notes,
		p.IsDefault,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PersonsRepo) Update(ctx context.Context, p persons.Person) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE persons
		SET
			first_name = $2,
			last_name = $3,
			date_of_birth = $4,
			notes = $5,
			is_default = $6,
			updated_at = $7
		WHERE id = $1
	`,
		p.ID,
		p.FirstName,
		p.LastName,
		toNullDate(p.DateOfBirth),
		p.Notes,
		p.IsDefault,
		p.UpdatedAt,
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

func (r *PersonsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PersonsRepo) GetByID(ctx context.Context, id string) (persons.Person, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return persons.Person{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, first_name, last_name,
			date_of_birth, notes, is_default,
			created_at, updated_at
		FROM persons
		WHERE id = $1
	`, id)

	return scanPerson(row)
}

func (r *PersonsRepo) List(ctx context.Context) ([]persons.Person, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, first_name, last_name,
			date_of_birth, notes, is_default,
			created_at, updated_at
		FROM persons
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]persons.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *PersonsRepo) GetDefault(ctx context.Context) (persons.Person, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, first_name, last_name,
			date_of_birth, notes, is_default,
			created_at, updated_at
		FROM persons
		WHERE is_default = TRUE
		LIMIT 1
	`)
	return scanPerson(row)
}

func (r *PersonsRepo) ClearDefault(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE persons SET is_default = FALSE WHERE is_default = TRUE`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (persons.Person, error) {
	var p persons.Person
	var dob sql.NullTime
	if err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&dob,
		&p.Notes,
		&p.IsDefault,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return persons.Person{}, ErrNotFound
		}
		return persons.Person{}, err
	}

	if dob.Valid {
		t := dob.Time
		// ojo: date_of_birth es DATE, pgx lo mapea a time.Time midnight UTC
		p.DateOfBirth = &t
	}
	return p, nil
}

// date_of_birth es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
