package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/internal/repository"
	"github.com/kinboard/kinboard/pkg/entity"
)

type AchievementService struct {
	repo      repository.AchievementsRepositoryI
	usersRepo repository.UsersRepositoryI
}

func NewAchievementService(achievementsRepo repository.AchievementsRepositoryI, usersRepo repository.UsersRepositoryI) *AchievementService {
	if achievementsRepo == nil || usersRepo == nil {
		log.Fatal("provided nil repos to achievement service")
	}
	return &AchievementService{
		repo:      achievementsRepo,
		usersRepo: usersRepo,
	}
}

func (as *AchievementService) Create(ctx context.Context, req *CreateAchievementRequest) (*entity.Achievement, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	achievement, err := as.repo.Create(ctx, &entity.Achievement{
		UserID:        req.UserID,
		Type:          req.Type,
		Name:          req.Name,
		Description:   req.Description,
		IconURL:       req.IconURL,
		PointsAwarded: req.PointsAwarded,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("achievements repository error: " + err.Error())
	}
	// Best effort: the achievement stands even if the point award fails
	if achievement.PointsAwarded > 0 {
		err = as.usersRepo.AddPoints(ctx, achievement.UserID, achievement.PointsAwarded)
		if err != nil {
			log.Printf("awarding achievement points error: %v", err)
		}
	}
	return achievement, nil
}

func (as *AchievementService) ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Achievement, error) {
	achievements, err := as.repo.GetByUser(ctx, uid)
	if err != nil {
		return nil, errors.New("achievements repository error: " + err.Error())
	}
	return achievements, nil
}

type NotificationService struct {
	repo repository.NotificationsRepositoryI
}

func NewNotificationService(notificationsRepo repository.NotificationsRepositoryI) *NotificationService {
	if notificationsRepo == nil {
		log.Fatal("provided nil notificationsRepo")
	}
	return &NotificationService{
		repo: notificationsRepo,
	}
}

func (ns *NotificationService) ListByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Notification, error) {
	notifications, err := ns.repo.GetByUser(ctx, uid)
	if err != nil {
		return nil, errors.New("notifications repository error: " + err.Error())
	}
	return notifications, nil
}

// MarkRead flips a notification owned by uid. A notification that exists
// but belongs to somebody else looks exactly like a missing one.
func (ns *NotificationService) MarkRead(ctx context.Context, id int, uid uuid.UUID) error {
	err := ns.repo.MarkRead(ctx, id, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNotificationNotFound) {
			return err
		}
		return errors.New("notifications repository error: " + err.Error())
	}
	return nil
}
