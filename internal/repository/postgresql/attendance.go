package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

// check-in/out live in TIME columns; reads add them back onto the date.
var attendanceSelect = `
	SELECT a.id, a.user_id, a.date, a.status,
		   a.date + a.check_in_time, a.date + a.check_out_time,
		   a.notes, a.marked_by, a.is_verified, a.created_at, a.updated_at,
		   ` + displayName("u") + ` AS user_name, u.email, u.department
	FROM attendances a
	JOIN users u ON a.user_id = u.id`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// clockParam renders the wall-clock part for a TIME column.
func clockParam(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04:05")
	return &s
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.UserID, &a.Date, &a.Status,
		&a.CheckIn, &a.CheckOut,
		&a.Notes, &a.MarkedBy, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt,
		&a.UserName, &a.UserEmail, &a.UserDepartment,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}
	return a, nil
}

// InsertIfAbsent relies on the (user_id, date) unique key so concurrent self-marks cannot both win.
func (r *attendanceRepository) InsertIfAbsent(ctx context.Context, a attendance.Attendance) (attendance.Attendance, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (user_id, date, status, check_in_time, check_out_time, notes, marked_by, is_verified)
		VALUES ($1, $2, $3, $4::time, $5::time, $6, $7, $8)
		ON CONFLICT (user_id, date) DO NOTHING
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		a.UserID, a.Date, a.Status, clockParam(a.CheckIn), clockParam(a.CheckOut), a.Notes, a.MarkedBy, a.IsVerified,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := r.GetByUserAndDate(ctx, a.UserID, a.Date)
		return existing, false, err
	}
	if err != nil {
		return attendance.Attendance{}, false, fmt.Errorf("failed to insert attendance: %w", err)
	}

	created, err := r.GetByID(ctx, id)
	return created, err == nil, err
}

func (r *attendanceRepository) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (user_id, date, status, check_in_time, check_out_time, notes, marked_by, is_verified)
		VALUES ($1, $2, $3, $4::time, $5::time, $6, $7, $8)
		ON CONFLICT (user_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			notes = EXCLUDED.notes,
			marked_by = EXCLUDED.marked_by,
			is_verified = EXCLUDED.is_verified,
			updated_at = NOW()
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		a.UserID, a.Date, a.Status, clockParam(a.CheckIn), clockParam(a.CheckOut), a.Notes, a.MarkedBy, a.IsVerified,
	).Scan(&id)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	return scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	return scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.user_id = $1 AND a.date = $2", userID, date))
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET status = $1, check_in_time = $2::time, check_out_time = $3::time,
			notes = $4, marked_by = $5, is_verified = $6, updated_at = NOW()
		WHERE id = $7
	`
	tag, err := q.Exec(ctx, query,
		a.Status, clockParam(a.CheckIn), clockParam(a.CheckOut), a.Notes, a.MarkedBy, a.IsVerified, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance with id %s: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepository) SetVerified(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE attendances SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.UserID != nil {
		whereClause += fmt.Sprintf(" AND a.user_id = $%d", argIndex)
		args = append(args, *filter.UserID)
		argIndex++
	}
	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND a.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.From != nil {
		whereClause += fmt.Sprintf(" AND a.date >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		whereClause += fmt.Sprintf(" AND a.date <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendances a "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := attendanceSelect + " " + whereClause + " ORDER BY a.date DESC, u.username ASC"
	query, args = paginate(query, args, argIndex, filter.Page, filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
