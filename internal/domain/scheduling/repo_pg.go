package scheduling

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

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const appointmentCols = `appointment_id, tracking_code, patient_id, doctor_id,
	reserved_date, reserved_time, status, created_at`

func (r *appointmentRepoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.TrackingCode, &a.PatientID, &a.DoctorID,
		&a.ReservedDate, &a.ReservedTime, &a.Status, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *appointmentRepoPG) scanAppointments(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var out []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.TrackingCode, &a.PatientID, &a.DoctorID,
			&a.ReservedDate, &a.ReservedTime, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (tracking_code, patient_id, doctor_id, reserved_date, reserved_time, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING appointment_id, created_at`,
		a.TrackingCode, a.PatientID, a.DoctorID, a.ReservedDate, a.ReservedTime, a.Status).
		Scan(&a.ID, &a.CreatedAt)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE appointment_id = $1`, id))
}

func (r *appointmentRepoPG) GetByTrackingCode(ctx context.Context, code string) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE tracking_code = $1 ORDER BY created_at DESC, appointment_id DESC LIMIT 1`, code))
}

func (r *appointmentRepoPG) CountActiveAt(ctx context.Context, doctorID int64, date, timeSlot string) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND reserved_date = $2 AND reserved_time = $3 AND status <> $4`,
		doctorID, date, timeSlot, StatusCanceled).Scan(&n)
	return n, err
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status = $1 WHERE appointment_id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepoPG) ListByDoctorAndDate(ctx context.Context, doctorID int64, date string) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE doctor_id = $1 AND reserved_date = $2
		 ORDER BY reserved_time`, doctorID, date)
	if err != nil {
		return nil, err
	}
	return r.scanAppointments(rows)
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE patient_id = $1
		 ORDER BY reserved_date DESC, reserved_time DESC`, patientID)
	if err != nil {
		return nil, err
	}
	return r.scanAppointments(rows)
}

func (r *appointmentRepoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 ORDER BY reserved_date DESC, reserved_time DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list, err := r.scanAppointments(rows)
	return list, total, err
}
