package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/internal/repository"
	"github.com/kinboard/kinboard/pkg/entity"
)

type TaskService struct {
	repo       repository.TasksRepositoryI
	notifsRepo repository.NotificationsRepositoryI
}

func NewTaskService(tasksRepo repository.TasksRepositoryI, notifsRepo repository.NotificationsRepositoryI) *TaskService {
	if tasksRepo == nil || notifsRepo == nil {
		log.Fatal("provided nil repos to task service")
	}
	return &TaskService{
		repo:       tasksRepo,
		notifsRepo: notifsRepo,
	}
}

func (ts *TaskService) Create(ctx context.Context, ident Identity, req *CreateTaskRequest) (*entity.Task, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if ident.FamilyID == nil {
		return nil, errorvalues.ErrNoFamily
	}
	assignee := req.AssigneeID
	if assignee == nil {
		// Unassigned tasks land on their creator
		uid := ident.UserID
		assignee = &uid
	}
	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	task, err := ts.repo.Create(ctx, &entity.Task{
		Title:       req.Title,
		Description: req.Description,
		Quadrant:    req.Quadrant,
		Status:      entity.StatusNotStarted,
		Priority:    priority,
		AssigneeID:  assignee,
		CreatedBy:   ident.UserID,
		FamilyID:    *ident.FamilyID,
		DueDate:     req.DueDate,
		Points:      req.Points,
		Tags:        req.Tags,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrFamilyNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

// getOwned loads a task and verifies it belongs to the caller's family.
// Tasks of other families surface as absent.
func (ts *TaskService) getOwned(ctx context.Context, ident Identity, id int) (*entity.Task, error) {
	if ident.FamilyID == nil {
		return nil, errorvalues.ErrNoFamily
	}
	task, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	if task.FamilyID != *ident.FamilyID {
		return nil, errorvalues.ErrWrongFamily
	}
	return task, nil
}

func (ts *TaskService) Get(ctx context.Context, ident Identity, id int) (*entity.Task, error) {
	return ts.getOwned(ctx, ident, id)
}

func (ts *TaskService) List(ctx context.Context, ident Identity, filter TaskFilter) ([]*entity.Task, error) {
	if ident.FamilyID == nil {
		return nil, errorvalues.ErrNoFamily
	}
	var (
		tasks []*entity.Task
		err   error
	)
	switch {
	case filter.Quadrant != nil:
		tasks, err = ts.repo.GetByQuadrant(ctx, *ident.FamilyID, *filter.Quadrant)
	case filter.AssigneeID != nil:
		tasks, err = ts.repo.GetByAssignee(ctx, *filter.AssigneeID)
	default:
		tasks, err = ts.repo.GetByFamily(ctx, *ident.FamilyID)
	}
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	if filter.Status == nil {
		return tasks, nil
	}
	filtered := make([]*entity.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == *filter.Status {
			filtered = append(filtered, task)
		}
	}
	return filtered, nil
}

func (ts *TaskService) Update(ctx context.Context, ident Identity, id int, req *UpdateTaskRequest) (*entity.Task, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if _, err := ts.getOwned(ctx, ident, id); err != nil {
		return nil, err
	}
	task, err := ts.repo.Update(ctx, id, &repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Quadrant:    req.Quadrant,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Points:      req.Points,
		Tags:        req.Tags,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

func (ts *TaskService) Delete(ctx context.Context, ident Identity, id int) error {
	if _, err := ts.getOwned(ctx, ident, id); err != nil {
		return err
	}
	err := ts.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return err
		}
		return errors.New("tasks repository error: " + err.Error())
	}
	return nil
}

func (ts *TaskService) Complete(ctx context.Context, ident Identity, id int) (*entity.Task, error) {
	task, err := ts.getOwned(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	// A task completes once: the point award must not repeat
	if task.Status == entity.StatusCompleted {
		return nil, errorvalues.ErrTaskCompleted
	}
	awardee := ident.UserID
	if task.AssigneeID != nil {
		awardee = *task.AssigneeID
	}
	completed, err := ts.repo.Complete(ctx, id, awardee)
	if err != nil {
		// ErrTaskCompleted here means another request finished the task
		// between our read and the guarded update
		if errors.Is(err, errorvalues.ErrTaskCompleted) || errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	// Best effort: a failed notification doesn't undo the completion
	_, err = ts.notifsRepo.Create(ctx, &entity.Notification{
		UserID:    completed.CreatedBy,
		Title:     "Task completed",
		Message:   fmt.Sprintf("%q is done", completed.Title),
		Type:      entity.NotificationTask,
		ActionURL: fmt.Sprintf("/tasks/%d", completed.ID),
	})
	if err != nil {
		log.Printf("creating completion notification error: %v", err)
	}
	return completed, nil
}
