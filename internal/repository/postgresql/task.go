package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

// displayName mirrors user.FullName for a joined users alias.
func displayName(alias string) string {
	return fmt.Sprintf("COALESCE(NULLIF(TRIM(%[1]s.first_name || ' ' || %[1]s.last_name), ''), %[1]s.username)", alias)
}

var taskSelect = `
	SELECT t.id, t.assigned_to, t.assigned_by, t.title, t.description, t.priority, t.due_date,
		   t.status, t.acceptance_status, t.rejection_reason, t.held_from, t.submission_file,
		   t.completed_at, t.created_at, t.updated_at,
		   ` + displayName("ato") + ` AS assigned_to_name,
		   ` + displayName("aby") + ` AS assigned_by_name
	FROM tasks t
	JOIN users ato ON t.assigned_to = ato.id
	LEFT JOIN users aby ON t.assigned_by = aby.id`

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID, &t.AssignedTo, &t.AssignedBy, &t.Title, &t.Description, &t.Priority, &t.DueDate,
		&t.Status, &t.AcceptanceStatus, &t.RejectionReason, &t.HeldFrom, &t.SubmissionFile,
		&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
		&t.AssignedToName, &t.AssignedByName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, err
	}
	return t, nil
}

func (r *taskRepositoryImpl) Create(ctx context.Context, newTask task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (
			assigned_to, assigned_by, title, description, priority, due_date,
			status, acceptance_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newTask.AssignedTo, newTask.AssignedBy, newTask.Title, newTask.Description, newTask.Priority, newTask.DueDate,
		newTask.Status, newTask.AcceptanceStatus,
	).Scan(&id)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *taskRepositoryImpl) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)
	return scanTask(q.QueryRow(ctx, taskSelect+" WHERE t.id = $1", id))
}

// Update implements task.TaskRepository.
func (r *taskRepositoryImpl) Update(ctx context.Context, t task.Task) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, due_date = $4,
			status = $5, acceptance_status = $6, rejection_reason = $7, held_from = $8,
			submission_file = $9, completed_at = $10, updated_at = NOW()
		WHERE id = $11
	`
	tag, err := q.Exec(ctx, query,
		t.Title, t.Description, t.Priority, t.DueDate,
		t.Status, t.AcceptanceStatus, t.RejectionReason, t.HeldFrom,
		t.SubmissionFile, t.CompletedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task with id %s: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepositoryImpl) List(ctx context.Context, filter task.TaskFilter) ([]task.Task, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.AssignedTo != nil {
		whereClause += fmt.Sprintf(" AND t.assigned_to = $%d", argIndex)
		args = append(args, *filter.AssignedTo)
		argIndex++
	}
	if filter.AssignedBy != nil {
		whereClause += fmt.Sprintf(" AND t.assigned_by = $%d", argIndex)
		args = append(args, *filter.AssignedBy)
		argIndex++
	}
	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND t.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM tasks t "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := taskSelect + " " + whereClause + " ORDER BY t.created_at DESC"
	query, args = paginate(query, args, argIndex, filter.Page, filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}
