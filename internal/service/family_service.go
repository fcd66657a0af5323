package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/internal/repository"
	"github.com/kinboard/kinboard/pkg/entity"
)

type FamilyService struct {
	repo      repository.FamiliesRepositoryI
	usersRepo repository.UsersRepositoryI
	tasksRepo repository.TasksRepositoryI
}

func NewFamilyService(familiesRepo repository.FamiliesRepositoryI, usersRepo repository.UsersRepositoryI, tasksRepo repository.TasksRepositoryI) *FamilyService {
	if familiesRepo == nil || usersRepo == nil || tasksRepo == nil {
		log.Fatal("provided nil repos to family service")
	}
	return &FamilyService{
		repo:      familiesRepo,
		usersRepo: usersRepo,
		tasksRepo: tasksRepo,
	}
}

func (fs *FamilyService) Create(ctx context.Context, ident Identity, req *CreateFamilyRequest) (*entity.Family, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if ident.FamilyID != nil {
		return nil, errorvalues.ErrAlreadyMember
	}
	family, err := fs.repo.Create(ctx, &entity.Family{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedBy: ident.UserID,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("families repository error: " + err.Error())
	}
	// Creator becomes the family's parent
	err = fs.usersRepo.AssignFamily(ctx, ident.UserID, family.ID, entity.RoleParent)
	if err != nil {
		return nil, errors.New("assigning creator to family error: " + err.Error())
	}
	return family, nil
}

func (fs *FamilyService) Join(ctx context.Context, ident Identity, familyID uuid.UUID, req *JoinFamilyRequest) error {
	if err := validateStruct(*req); err != nil {
		return err
	}
	if ident.FamilyID != nil {
		return errorvalues.ErrAlreadyMember
	}
	_, err := fs.repo.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrFamilyNotFound) {
			return err
		}
		return errors.New("families repository error: " + err.Error())
	}
	err = fs.usersRepo.AssignFamily(ctx, ident.UserID, familyID, req.Role)
	if err != nil {
		return errors.New("assigning user to family error: " + err.Error())
	}
	return nil
}

func (fs *FamilyService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Family, error) {
	family, err := fs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrFamilyNotFound) {
			return nil, err
		}
		return nil, errors.New("families repository error: " + err.Error())
	}
	return family, nil
}

func (fs *FamilyService) Members(ctx context.Context, familyID uuid.UUID) ([]*entity.User, error) {
	members, err := fs.repo.GetMembers(ctx, familyID)
	if err != nil {
		return nil, errors.New("families repository error: " + err.Error())
	}
	return members, nil
}

func (fs *FamilyService) Stats(ctx context.Context, familyID uuid.UUID) (*entity.FamilyStats, error) {
	tasks, err := fs.tasksRepo.GetByFamily(ctx, familyID)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	stats := ComputeFamilyStats(tasks, time.Now())
	return &stats, nil
}
