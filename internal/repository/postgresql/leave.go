package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

var leaveSelect = `
	SELECT l.id, l.user_id, l.leave_type, l.start_date, l.end_date, l.reason, l.status,
		   l.approved_by, l.approval_date, l.remarks, l.created_at, l.updated_at,
		   ` + displayName("u") + ` AS user_name,
		   ` + displayName("a") + ` AS approver_name
	FROM leaves l
	JOIN users u ON l.user_id = u.id
	LEFT JOIN users a ON l.approved_by = a.id`

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.UserID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Reason, &l.Status,
		&l.ApprovedBy, &l.ApprovalDate, &l.Remarks, &l.CreatedAt, &l.UpdatedAt,
		&l.UserName, &l.ApproverName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, err
	}
	return l, nil
}

func (r *leaveRepositoryImpl) Create(ctx context.Context, newLeave leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (user_id, leave_type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		newLeave.UserID, newLeave.LeaveType, newLeave.StartDate, newLeave.EndDate, newLeave.Reason, newLeave.Status,
	).Scan(&id)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)
	return scanLeave(q.QueryRow(ctx, leaveSelect+" WHERE l.id = $1", id))
}

// GetByIDForUpdate implements leave.LeaveRepository. Only the leaves row is locked.
func (r *leaveRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)
	return scanLeave(q.QueryRow(ctx, leaveSelect+" WHERE l.id = $1 FOR UPDATE OF l", id))
}

func (r *leaveRepositoryImpl) UpdateStatus(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, approved_by = $2, approval_date = $3, remarks = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, l.Status, l.ApprovedBy, l.ApprovalDate, l.Remarks, l.ID)
	if err != nil {
		return fmt.Errorf("failed to update leave with id %s: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// LockUser takes a transaction-scoped advisory lock keyed by the user id.
func (r *leaveRepositoryImpl) LockUser(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('leaves:' || $1))`, userID)
	return err
}

func (r *leaveRepositoryImpl) HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM leaves
			WHERE user_id = $1
			  AND status IN ('Pending', 'Approved')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, userID, start, end).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.UserID != nil {
		whereClause += fmt.Sprintf(" AND l.user_id = $%d", argIndex)
		args = append(args, *filter.UserID)
		argIndex++
	}
	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND l.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.From != nil {
		whereClause += fmt.Sprintf(" AND l.end_date >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		whereClause += fmt.Sprintf(" AND l.start_date <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leaves l "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := leaveSelect + " " + whereClause + " ORDER BY l.created_at DESC"
	query, args = paginate(query, args, argIndex, filter.Page, filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, 0, err
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

type balanceRepositoryImpl struct {
	db *database.DB
}

func NewBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &balanceRepositoryImpl{db: db}
}

// GetOrCreate implements leave.BalanceRepository. The no-op DO UPDATE makes RETURNING yield the existing row.
func (r *balanceRepositoryImpl) GetOrCreate(ctx context.Context, userID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	d := leave.DefaultBalance(userID, year)
	query := `
		INSERT INTO leave_balances (user_id, year, sick_leave, casual_leave, earned_leave)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, year) DO UPDATE SET year = EXCLUDED.year
		RETURNING id, user_id, year, sick_leave, casual_leave, earned_leave
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, d.UserID, d.Year, d.SickLeave, d.CasualLeave, d.EarnedLeave).
		Scan(&b.ID, &b.UserID, &b.Year, &b.SickLeave, &b.CasualLeave, &b.EarnedLeave)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}
