package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/internal/service"
	"github.com/kinboard/kinboard/pkg/entity"
	"github.com/stretchr/testify/assert"
)

type familiesRepoMock struct {
	state mockState
}

func (frmock *familiesRepoMock) Create(ctx context.Context, family *entity.Family) (*entity.Family, error) {
	switch frmock.state {
	case stateNotFound:
		return nil, errorvalues.ErrUserNotFound
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return family, nil
	}
}

func (frmock *familiesRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Family, error) {
	switch frmock.state {
	case stateNotFound:
		return nil, errorvalues.ErrFamilyNotFound
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return &entity.Family{ID: id, Name: "The Smiths", CreatedBy: userID}, nil
	}
}

func (frmock *familiesRepoMock) GetMembers(ctx context.Context, familyID uuid.UUID) ([]*entity.User, error) {
	if frmock.state == stateDBError {
		return nil, errors.New("db error")
	}
	return []*entity.User{
		{ID: userID, Role: entity.RoleParent, FamilyID: &familyID},
		{ID: uuid.New(), Role: entity.RoleChild, FamilyID: &familyID},
	}, nil
}

func newFamilyService(families *familiesRepoMock, users *usersRepoMock, tasks *tasksRepoMock) *service.FamilyService {
	return service.NewFamilyService(families, users, tasks)
}

func TestCreateFamilyService(t *testing.T) {
	mock := &familiesRepoMock{state: stateSuccess}
	fs := newFamilyService(mock, &usersRepoMock{}, &tasksRepoMock{})
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		family, err := fs.Create(ctx, service.Identity{UserID: userID}, &service.CreateFamilyRequest{Name: "The Smiths"})
		assert.NoError(t, err)
		assert.Equal(t, "The Smiths", family.Name)
		assert.Equal(t, userID, family.CreatedBy)
	})
	t.Run("caller already in a family", func(t *testing.T) {
		_, err := fs.Create(ctx, testIdent, &service.CreateFamilyRequest{Name: "Second Family"})
		assert.ErrorIs(t, err, errorvalues.ErrAlreadyMember)
	})
	t.Run("name too short", func(t *testing.T) {
		_, err := fs.Create(ctx, service.Identity{UserID: userID}, &service.CreateFamilyRequest{Name: "x"})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("db error", func(t *testing.T) {
		mock.state = stateDBError
		_, err := fs.Create(ctx, service.Identity{UserID: userID}, &service.CreateFamilyRequest{Name: "The Smiths"})
		assert.Error(t, err)
	})
}

func TestJoinFamily(t *testing.T) {
	mock := &familiesRepoMock{state: stateSuccess}
	fs := newFamilyService(mock, &usersRepoMock{}, &tasksRepoMock{})
	ctx := context.Background()
	t.Run("joined as child", func(t *testing.T) {
		err := fs.Join(ctx, service.Identity{UserID: userID}, familyID, &service.JoinFamilyRequest{Role: entity.RoleChild})
		assert.NoError(t, err)
	})
	t.Run("parent role is reserved for creators", func(t *testing.T) {
		err := fs.Join(ctx, service.Identity{UserID: userID}, familyID, &service.JoinFamilyRequest{Role: entity.RoleParent})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("already a member", func(t *testing.T) {
		err := fs.Join(ctx, testIdent, familyID, &service.JoinFamilyRequest{Role: entity.RoleChild})
		assert.ErrorIs(t, err, errorvalues.ErrAlreadyMember)
	})
	t.Run("family not found", func(t *testing.T) {
		mock.state = stateNotFound
		err := fs.Join(ctx, service.Identity{UserID: userID}, familyID, &service.JoinFamilyRequest{Role: entity.RoleChild})
		assert.ErrorIs(t, err, errorvalues.ErrFamilyNotFound)
	})
}

func TestFamilyMembers(t *testing.T) {
	mock := &familiesRepoMock{state: stateSuccess}
	fs := newFamilyService(mock, &usersRepoMock{}, &tasksRepoMock{})
	ctx := context.Background()
	members, err := fs.Members(ctx, familyID)
	assert.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestFamilyStats(t *testing.T) {
	// tasksRepoMock returns one open and one completed task
	fs := newFamilyService(&familiesRepoMock{}, &usersRepoMock{}, &tasksRepoMock{})
	ctx := context.Background()
	stats, err := fs.Stats(ctx, familyID)
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 50, stats.CompletionRate)
}
