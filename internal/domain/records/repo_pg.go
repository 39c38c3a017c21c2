package records

import (
	"context"
	"errors"

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

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRecordRepoPG(pool *pgxpool.Pool) RecordRepository { return &recordRepoPG{pool: pool} }

func (r *recordRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// recordViewQuery joins the registries so list screens can show names without
// extra round trips. The medicine join is optional.
const recordViewQuery = `
	SELECT r.record_id, r.patient_id, r.doctor_id, r.personnel_national_code,
	       r.medicine_id, r.visit_date, r.specialty, r.chief_complaint,
	       r.description, r.created_at,
	       p.first_name || ' ' || p.last_name AS patient_name,
	       d.first_name || ' ' || d.last_name AS doctor_name,
	       COALESCE(m.medicine_name, '') AS medicine_name
	FROM medical_records r
	JOIN patients p ON p.patient_id = r.patient_id
	JOIN doctors d ON d.doctor_id = r.doctor_id
	LEFT JOIN medicines m ON m.medicine_id = r.medicine_id`

func (r *recordRepoPG) scanView(row pgx.Row) (*RecordView, error) {
	var v RecordView
	err := row.Scan(&v.ID, &v.PatientID, &v.DoctorID, &v.PersonnelNationalCode,
		&v.MedicineID, &v.VisitDate, &v.Specialty, &v.ChiefComplaint,
		&v.Description, &v.CreatedAt, &v.PatientName, &v.DoctorName, &v.MedicineName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &v, err
}

func (r *recordRepoPG) scanViews(rows pgx.Rows) ([]*RecordView, error) {
	defer rows.Close()
	var out []*RecordView
	for rows.Next() {
		var v RecordView
		if err := rows.Scan(&v.ID, &v.PatientID, &v.DoctorID, &v.PersonnelNationalCode,
			&v.MedicineID, &v.VisitDate, &v.Specialty, &v.ChiefComplaint,
			&v.Description, &v.CreatedAt, &v.PatientName, &v.DoctorName, &v.MedicineName); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *recordRepoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_records (patient_id, doctor_id, personnel_national_code,
			medicine_id, visit_date, specialty, chief_complaint, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING record_id, created_at`,
		rec.PatientID, rec.DoctorID, rec.PersonnelNationalCode, rec.MedicineID,
		rec.VisitDate, rec.Specialty, rec.ChiefComplaint, rec.Description).
		Scan(&rec.ID, &rec.CreatedAt)
}

func (r *recordRepoPG) GetByID(ctx context.Context, id int64) (*RecordView, error) {
	return r.scanView(r.conn(ctx).QueryRow(ctx,
		recordViewQuery+` WHERE r.record_id = $1`, id))
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*RecordView, error) {
	rows, err := r.conn(ctx).Query(ctx,
		recordViewQuery+` WHERE r.patient_id = $1 ORDER BY r.created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	return r.scanViews(rows)
}

func (r *recordRepoPG) ListByDoctor(ctx context.Context, doctorID int64, limit, offset int) ([]*RecordView, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_records WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		recordViewQuery+` WHERE r.doctor_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`,
		doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list, err := r.scanViews(rows)
	return list, total, err
}

func (r *recordRepoPG) List(ctx context.Context, limit, offset int) ([]*RecordView, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_records`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		recordViewQuery+` ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list, err := r.scanViews(rows)
	return list, total, err
}

func (r *recordRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM medical_records WHERE record_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
