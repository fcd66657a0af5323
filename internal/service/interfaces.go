package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kinboard/kinboard/pkg/entity"
)

// Identity is the session-derived caller, resolved by the auth middleware
// and passed explicitly into every service call that acts on its behalf.
type Identity struct {
	UserID   uuid.UUID
	FamilyID *uuid.UUID
	Role     entity.Role
}

type RegisterRequest struct {
	Email     string `validate:"required,email,max=255"`
	Password  string `validate:"required,min=8,max=72"`
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"max=100"`
}

type UpdateProfileRequest struct {
	FirstName       *string    `validate:"omitempty,max=100"`
	LastName        *string    `validate:"omitempty,max=100"`
	ProfileImageURL *string    `validate:"omitempty,url"`
	DateOfBirth     *time.Time `validate:"omitempty"`
}

type UserServiceI interface {
	// Validates credentials and profile fields, hashes the password,
	// creates the user row. Returns the stored user with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares credentials. If ok, gives back user's data with ID
	Login(ctx context.Context, email, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*entity.User, error)
}

type CreateFamilyRequest struct {
	Name string `validate:"required,min=2,max=100"`
}

type JoinFamilyRequest struct {
	Role entity.Role `validate:"required,oneof=spouse child"`
}

type FamilyServiceI interface {
	// Creates the family and promotes the creator to parent inside it
	Create(ctx context.Context, ident Identity, req *CreateFamilyRequest) (*entity.Family, error)
	// Adds caller to an existing family as spouse or child
	Join(ctx context.Context, ident Identity, familyID uuid.UUID, req *JoinFamilyRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Family, error)
	Members(ctx context.Context, familyID uuid.UUID) ([]*entity.User, error)
	// Dashboard counters derived from the family's tasks on each call
	Stats(ctx context.Context, familyID uuid.UUID) (*entity.FamilyStats, error)
}

type CreateTaskRequest struct {
	Title       string              `validate:"required,max=200"`
	Description string              `validate:"max=2000"`
	Quadrant    int                 `validate:"required,quadrant"`
	Priority    entity.TaskPriority `validate:"omitempty,oneof=low medium high urgent"`
	AssigneeID  *uuid.UUID          `validate:"omitempty"`
	DueDate     *time.Time          `validate:"omitempty"`
	Points      int                 `validate:"min=0"`
	Tags        []string            `validate:"omitempty,dive,max=50"`
}

type UpdateTaskRequest struct {
	Title       *string              `validate:"omitempty,max=200"`
	Description *string              `validate:"omitempty,max=2000"`
	Quadrant    *int                 `validate:"omitempty,quadrant"`
	Status      *entity.TaskStatus   `validate:"omitempty,oneof=not_started in_progress blocked completed"`
	Priority    *entity.TaskPriority `validate:"omitempty,oneof=low medium high urgent"`
	AssigneeID  *uuid.UUID           `validate:"omitempty"`
	DueDate     *time.Time           `validate:"omitempty"`
	Points      *int                 `validate:"omitempty,min=0"`
	Tags        *[]string            `validate:"omitempty,dive,max=50"`
}

// TaskFilter selects the storage query for a task list: quadrant and
// assignee pick dedicated queries, status is applied on the result.
type TaskFilter struct {
	Quadrant   *int
	Status     *entity.TaskStatus
	AssigneeID *uuid.UUID
}

type TaskServiceI interface {
	Create(ctx context.Context, ident Identity, req *CreateTaskRequest) (*entity.Task, error)
	Get(ctx context.Context, ident Identity, id int) (*entity.Task, error)
	List(ctx context.Context, ident Identity, filter TaskFilter) ([]*entity.Task, error)
	Update(ctx context.Context, ident Identity, id int, req *UpdateTaskRequest) (*entity.Task, error)
	Delete(ctx context.Context, ident Identity, id int) error
	// Marks the task completed exactly once; awards its points to a child
	// assignee and notifies the task's creator
	Complete(ctx context.Context, ident Identity, id int) (*entity.Task, error)
}

type CreateEventRequest struct {
	Title       string               `validate:"required,max=200"`
	Description string               `validate:"max=2000"`
	StartTime   time.Time            `validate:"required"`
	EndTime     time.Time            `validate:"required,gtfield=StartTime"`
	Location    string               `validate:"max=255"`
	Category    entity.EventCategory `validate:"required,oneof=work school social healthcare travel official family sports"`
	Attendees   []uuid.UUID          `validate:"omitempty"`
	Color       string               `validate:"omitempty,max=30"`
}

type UpdateEventRequest struct {
	Title       *string               `validate:"omitempty,max=200"`
	Description *string               `validate:"omitempty,max=2000"`
	StartTime   *time.Time            `validate:"omitempty"`
	EndTime     *time.Time            `validate:"omitempty"`
	Location    *string               `validate:"omitempty,max=255"`
	Category    *entity.EventCategory `validate:"omitempty,oneof=work school social healthcare travel official family sports"`
	Attendees   *[]uuid.UUID          `validate:"omitempty"`
	Color       *string               `validate:"omitempty,max=30"`
}

type EventFilter struct {
	From       *time.Time
	To         *time.Time
	AttendeeID *uuid.UUID
}

type EventServiceI interface {
	Create(ctx context.Context, ident Identity, req *CreateEventRequest) (*entity.Event, error)
	Get(ctx context.Context, ident Identity, id int) (*entity.Event, error)
	List(ctx context.Context, ident Identity, filter EventFilter) ([]*entity.Event, error)
	Update(ctx context.Context, ident Identity, id int, req *UpdateEventRequest) (*entity.Event, error)
	Delete(ctx context.Context, ident Identity, id int) error
}

type CreateAchievementRequest struct {
	UserID        uuid.UUID `validate:"required"`
	Type          string    `validate:"required,oneof=badge level milestone"`
	Name          string    `validate:"required,max=200"`
	Description   string    `validate:"max=2000"`
	IconURL       string    `validate:"omitempty,url"`
	PointsAwarded int       `validate:"min=0"`
}

type AchievementServiceI interface {
	// Achievements are recorded manually, milestone automation doesn't
	// exist yet
	Create(ctx context.Context, req *CreateAchievementRequest) (*entity.Achievement, error)
	ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Achievement, error)
}

type NotificationServiceI interface {
	ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id int, uid uuid.UUID) error
}
