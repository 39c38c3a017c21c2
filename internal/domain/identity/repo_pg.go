package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matabyar/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `patient_id, first_name, last_name, national_code, birth_date,
	phone_number, gender, created_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.NationalCode, &p.BirthDate,
		&p.PhoneNumber, &p.Gender, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (first_name, last_name, national_code, birth_date, phone_number, gender)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING patient_id, created_at`,
		p.FirstName, p.LastName, p.NationalCode, p.BirthDate, p.PhoneNumber, p.Gender).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE patient_id = $1`, id))
}

func (r *patientRepoPG) GetByNationalCode(ctx context.Context, nationalCode string) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE national_code = $1`, nationalCode))
}

func (r *patientRepoPG) UpsertByNationalCode(ctx context.Context, p *Patient) error {
	// Last write wins on conflict; the surrogate id of the existing row is kept.
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (first_name, last_name, national_code, birth_date, phone_number, gender)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (national_code) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			birth_date = EXCLUDED.birth_date,
			phone_number = EXCLUDED.phone_number,
			gender = EXCLUDED.gender
		RETURNING patient_id, created_at`,
		p.FirstName, p.LastName, p.NationalCode, p.BirthDate, p.PhoneNumber, p.Gender).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET first_name=$2, last_name=$3, birth_date=$4, phone_number=$5, gender=$6
		WHERE patient_id = $1`,
		p.ID, p.FirstName, p.LastName, p.BirthDate, p.PhoneNumber, p.Gender)
	return err
}

func (r *patientRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE patient_id = $1`, id)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *patientRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	query := `SELECT ` + patientCols + ` FROM patients WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM patients WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["national_code"]; ok {
		query += fmt.Sprintf(` AND national_code = $%d`, idx)
		countQuery += fmt.Sprintf(` AND national_code = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["last_name"]; ok {
		query += fmt.Sprintf(` AND last_name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND last_name ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["phone_number"]; ok {
		query += fmt.Sprintf(` AND phone_number = $%d`, idx)
		countQuery += fmt.Sprintf(` AND phone_number = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const doctorCols = `doctor_id, first_name, last_name, national_code, specialty,
	medical_system_number, work_days, password_hash, created_at`

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.NationalCode, &d.Specialty,
		&d.MedicalSystemNumber, &d.WorkDays, &d.PasswordHash, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (first_name, last_name, national_code, specialty,
			medical_system_number, work_days, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING doctor_id, created_at`,
		d.FirstName, d.LastName, d.NationalCode, d.Specialty,
		d.MedicalSystemNumber, d.WorkDays, d.PasswordHash).
		Scan(&d.ID, &d.CreatedAt)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE doctor_id = $1`, id))
}

func (r *doctorRepoPG) GetByNationalCode(ctx context.Context, nationalCode string) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE national_code = $1`, nationalCode))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET first_name=$2, last_name=$3, specialty=$4,
			medical_system_number=$5, work_days=$6
		WHERE doctor_id = $1`,
		d.ID, d.FirstName, d.LastName, d.Specialty, d.MedicalSystemNumber, d.WorkDays)
	return err
}

func (r *doctorRepoPG) UpdateCredentials(ctx context.Context, currentNationalCode, newNationalCode, passwordHash string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET national_code=$2, password_hash=$3
		WHERE national_code = $1`,
		currentNationalCode, newNationalCode, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *doctorRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE doctor_id = $1`, id)
	return err
}

func (r *doctorRepoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors ORDER BY last_name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}
