package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kinboard/kinboard/pkg/entity"
)

type UsersRepositoryI interface {
	// Inserts user or, when the id already exists, updates the profile
	// fields. Gamification points are never touched by an upsert
	Upsert(ctx context.Context, user *entity.User) (*entity.User, error)
	// Looks up user by id. Absence surfaces as ErrUserNotFound
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Looks up user by email. Used for login
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Binds user to a family with the given role
	AssignFamily(ctx context.Context, uid, familyID uuid.UUID, role entity.Role) error
	// Atomic gamification points increment
	AddPoints(ctx context.Context, uid uuid.UUID, delta int) error
}

type FamiliesRepositoryI interface {
	Create(ctx context.Context, family *entity.Family) (*entity.Family, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Family, error)
	// All users whose family_id matches
	GetMembers(ctx context.Context, familyID uuid.UUID) ([]*entity.User, error)
}

// TaskPatch carries a partial update: nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Quadrant    *int
	Status      *entity.TaskStatus
	Priority    *entity.TaskPriority
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
	Points      *int
	Tags        *[]string
}

type TasksRepositoryI interface {
	Create(ctx context.Context, task *entity.Task) (*entity.Task, error)
	GetByID(ctx context.Context, id int) (*entity.Task, error)
	// Family task list, newest first
	GetByFamily(ctx context.Context, familyID uuid.UUID) ([]*entity.Task, error)
	GetByAssignee(ctx context.Context, uid uuid.UUID) ([]*entity.Task, error)
	GetByQuadrant(ctx context.Context, familyID uuid.UUID, quadrant int) ([]*entity.Task, error)
	Update(ctx context.Context, id int, patch *TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, id int) error
	// Marks the task completed and stamps completed_at. When the task
	// carries positive points and awardee's role is child, increments the
	// awardee's gamification points in the same transaction. The UPDATE
	// matches only non-completed rows, so a task that is already completed
	// (or was completed concurrently) surfaces as ErrTaskCompleted and the
	// award happens at most once
	Complete(ctx context.Context, id int, awardeeID uuid.UUID) (*entity.Task, error)
}

// EventPatch carries a partial update: nil fields are left untouched.
type EventPatch struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Location    *string
	Category    *entity.EventCategory
	Attendees   *[]uuid.UUID
	Color       *string
}

type EventsRepositoryI interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id int) (*entity.Event, error)
	// Family events ordered by start time
	GetByFamily(ctx context.Context, familyID uuid.UUID) ([]*entity.Event, error)
	// Events whose attendee list contains uid (jsonb containment)
	GetByAttendee(ctx context.Context, uid uuid.UUID) ([]*entity.Event, error)
	// Events with from <= start_time and end_time <= to, both inclusive
	GetByDateRange(ctx context.Context, familyID uuid.UUID, from, to time.Time) ([]*entity.Event, error)
	Update(ctx context.Context, id int, patch *EventPatch) (*entity.Event, error)
	Delete(ctx context.Context, id int) error
}

type AchievementsRepositoryI interface {
	Create(ctx context.Context, achievement *entity.Achievement) (*entity.Achievement, error)
	// User's achievements, most recently unlocked first
	GetByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Achievement, error)
}

type NotificationsRepositoryI interface {
	Create(ctx context.Context, notification *entity.Notification) (*entity.Notification, error)
	// User's notifications, newest first
	GetByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Notification, error)
	// Scoped to uid so nobody can flip someone else's notification
	MarkRead(ctx context.Context, id int, uid uuid.UUID) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
