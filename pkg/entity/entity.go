package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role is a closed set: every family member is exactly one of these.
type Role string

const (
	RoleParent Role = "parent"
	RoleSpouse Role = "spouse"
	RoleChild  Role = "child"
)

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

type EventCategory string

const (
	CategoryWork       EventCategory = "work"
	CategorySchool     EventCategory = "school"
	CategorySocial     EventCategory = "social"
	CategoryHealthcare EventCategory = "healthcare"
	CategoryTravel     EventCategory = "travel"
	CategoryOfficial   EventCategory = "official"
	CategoryFamily     EventCategory = "family"
	CategorySports     EventCategory = "sports"
)

type NotificationType string

const (
	NotificationTask        NotificationType = "task"
	NotificationEvent       NotificationType = "event"
	NotificationAchievement NotificationType = "achievement"
	NotificationFamily      NotificationType = "family"
)

type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	PasswordHash    string     `json:"-"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	Role            Role       `json:"role"`
	FamilyID        *uuid.UUID `json:"family_id,omitempty"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Points          int        `json:"gamification_points"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Family struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quadrant follows the Eisenhower matrix:
// 1 urgent+important, 2 important, 3 urgent, 4 neither.
type Task struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Quadrant    int          `json:"quadrant"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *uuid.UUID   `json:"assignee_id,omitempty"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	FamilyID    uuid.UUID    `json:"family_id"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Points      int          `json:"points"`
	Tags        []string     `json:"tags,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Event struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Location    string        `json:"location,omitempty"`
	Category    EventCategory `json:"category"`
	Attendees   []uuid.UUID   `json:"attendees,omitempty"`
	CreatedBy   uuid.UUID     `json:"created_by"`
	FamilyID    uuid.UUID     `json:"family_id"`
	Color       string        `json:"color,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Achievement struct {
	ID            int       `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	IconURL       string    `json:"icon_url,omitempty"`
	PointsAwarded int       `json:"points_awarded"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

type Notification struct {
	ID        int              `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	ActionURL string           `json:"action_url,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// FamilyStats is derived from a family's task list on each request, never stored.
type FamilyStats struct {
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	CompletedToday int `json:"completedToday"`
	DueThisWeek    int `json:"dueThisWeek"`
	CompletionRate int `json:"completionRate"`
}
