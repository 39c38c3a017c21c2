package staff

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

type personnelRepoPG struct{ pool *pgxpool.Pool }

func NewPersonnelRepoPG(pool *pgxpool.Pool) PersonnelRepository { return &personnelRepoPG{pool: pool} }

func (r *personnelRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const personnelCols = `national_code, first_name, last_name, role, password_hash, created_at`

func (r *personnelRepoPG) scanPersonnel(row pgx.Row) (*Personnel, error) {
	var p Personnel
	err := row.Scan(&p.NationalCode, &p.FirstName, &p.LastName, &p.Role, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *personnelRepoPG) Create(ctx context.Context, p *Personnel) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO personnel (national_code, first_name, last_name, role, password_hash)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		p.NationalCode, p.FirstName, p.LastName, p.Role, p.PasswordHash).
		Scan(&p.CreatedAt)
}

func (r *personnelRepoPG) GetByNationalCode(ctx context.Context, nationalCode string) (*Personnel, error) {
	return r.scanPersonnel(r.conn(ctx).QueryRow(ctx,
		`SELECT `+personnelCols+` FROM personnel WHERE national_code = $1`, nationalCode))
}

func (r *personnelRepoPG) Update(ctx context.Context, p *Personnel) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE personnel SET first_name=$2, last_name=$3, role=$4
		WHERE national_code = $1`,
		p.NationalCode, p.FirstName, p.LastName, p.Role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *personnelRepoPG) UpdateCredentials(ctx context.Context, currentNationalCode, newNationalCode, passwordHash string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE personnel SET national_code=$2, password_hash=$3
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

func (r *personnelRepoPG) Delete(ctx context.Context, nationalCode string) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM personnel WHERE national_code = $1`, nationalCode)
	return err
}

func (r *personnelRepoPG) List(ctx context.Context, limit, offset int) ([]*Personnel, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM personnel`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+personnelCols+` FROM personnel ORDER BY last_name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Personnel
	for rows.Next() {
		p, err := r.scanPersonnel(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
