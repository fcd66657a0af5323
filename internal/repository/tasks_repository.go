package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/pkg/cleanup"
	"github.com/kinboard/kinboard/pkg/entity"
)

const taskColumns = `id, title, description, quadrant, status, priority, assignee_id, created_by, family_id, due_date, completed_at, points, tags, created_at, updated_at`

type TasksRepository struct {
	conn PgConnection
}

func NewTasksRepo(cfg DBConfig) *TasksRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for tasksRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for tasksRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &TasksRepository{
		conn: pool,
	}
}

func NewTasksRepoWithConn(conn PgConnection) *TasksRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for tasksRepo: " + err.Error())
	}
	return &TasksRepository{
		conn: conn,
	}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var task entity.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Quadrant,
		&task.Status,
		&task.Priority,
		&task.AssigneeID,
		&task.CreatedBy,
		&task.FamilyID,
		&task.DueDate,
		&task.CompletedAt,
		&task.Points,
		&task.Tags,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (tr *TasksRepository) collectTasks(ctx context.Context, query string, args ...any) ([]*entity.Task, error) {
	tasks := make([]*entity.Task, 0)
	rows, err := tr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("querying tasks error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, errors.New("unmarshalling task error: " + err.Error())
		}
		tasks = append(tasks, task)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning tasks: " + rows.Err().Error())
	}
	return tasks, nil
}

func (tr *TasksRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	if task == nil {
		return nil, errors.New("task is nil")
	}
	row := tr.conn.QueryRow(ctx, `INSERT INTO tasks (title, description, quadrant, status, priority, assignee_id, created_by, family_id, due_date, points, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+taskColumns+`;`,
		task.Title,
		task.Description,
		task.Quadrant,
		task.Status,
		task.Priority,
		task.AssigneeID,
		task.CreatedBy,
		task.FamilyID,
		task.DueDate,
		task.Points,
		task.Tags,
	)
	saved, err := scanTask(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrFamilyNotFound
			}
		}
		return nil, errors.New("creating task db error: " + err.Error())
	}
	return saved, nil
}

func (tr *TasksRepository) GetByID(ctx context.Context, id int) (*entity.Task, error) {
	row := tr.conn.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1;`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("getting task by id error: " + err.Error())
	}
	return task, nil
}

func (tr *TasksRepository) GetByFamily(ctx context.Context, familyID uuid.UUID) ([]*entity.Task, error) {
	return tr.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE family_id = $1 ORDER BY created_at DESC;`, familyID)
}

func (tr *TasksRepository) GetByAssignee(ctx context.Context, uid uuid.UUID) ([]*entity.Task, error) {
	return tr.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE assignee_id = $1 ORDER BY created_at DESC;`, uid)
}

func (tr *TasksRepository) GetByQuadrant(ctx context.Context, familyID uuid.UUID, quadrant int) ([]*entity.Task, error) {
	return tr.collectTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE family_id = $1 AND quadrant = $2 ORDER BY created_at DESC;`, familyID, quadrant)
}

func (tr *TasksRepository) Update(ctx context.Context, id int, patch *TaskPatch) (*entity.Task, error) {
	if patch == nil {
		return nil, errors.New("patch is nil")
	}
	sets := make([]string, 0, 10)
	args := make([]any, 0, 10)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Quadrant != nil {
		add("quadrant", *patch.Quadrant)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.AssigneeID != nil {
		add("assignee_id", *patch.AssigneeID)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if patch.Points != nil {
		add("points", *patch.Points)
	}
	if patch.Tags != nil {
		add("tags", *patch.Tags)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING `+taskColumns+`;`, strings.Join(sets, ", "), len(args))
	task, err := scanTask(tr.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("updating task error: " + err.Error())
	}
	return task, nil
}

func (tr *TasksRepository) Delete(ctx context.Context, id int) error {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting task error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func (tr *TasksRepository) Complete(ctx context.Context, id int, awardeeID uuid.UUID) (*entity.Task, error) {
	tx, err := tr.conn.Begin(ctx)
	if err != nil {
		return nil, errors.New("beginning completion tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	// The status guard lives in the UPDATE itself: two concurrent
	// completions serialize on the row lock and the loser matches no row,
	// so the points award can never run twice
	row := tx.QueryRow(ctx, `UPDATE tasks SET status = 'completed', completed_at = NOW(), updated_at = NOW() WHERE id = $1 AND status <> 'completed' RETURNING `+taskColumns+`;`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskCompleted
		}
		return nil, errors.New("completing task error: " + err.Error())
	}
	if task.Points > 0 {
		var role entity.Role
		err = tx.QueryRow(ctx, `SELECT role FROM users WHERE id = $1;`, awardeeID).Scan(&role)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("looking up awardee role error: " + err.Error())
		}
		if role == entity.RoleChild {
			// Increment in SQL, not read-modify-write in Go: concurrent
			// completions for the same user must not lose points
			_, err = tx.Exec(ctx, `UPDATE users SET gamification_points = gamification_points + $1, updated_at = NOW() WHERE id = $2;`, task.Points, awardeeID)
			if err != nil {
				return nil, errors.New("awarding points error: " + err.Error())
			}
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, errors.New("committing completion tx error: " + err.Error())
	}
	return task, nil
}
