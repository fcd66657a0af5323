package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/pkg/cleanup"
	"github.com/kinboard/kinboard/pkg/entity"
)

const achievementColumns = `id, user_id, type, name, description, icon_url, points_awarded, unlocked_at`

type AchievementsRepository struct {
	conn PgConnection
}

func NewAchievementsRepo(cfg DBConfig) *AchievementsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for achievementsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for achievementsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &AchievementsRepository{
		conn: pool,
	}
}

func NewAchievementsRepoWithConn(conn PgConnection) *AchievementsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for achievementsRepo: " + err.Error())
	}
	return &AchievementsRepository{
		conn: conn,
	}
}

func (ar *AchievementsRepository) Create(ctx context.Context, achievement *entity.Achievement) (*entity.Achievement, error) {
	if achievement == nil {
		return nil, errors.New("achievement is nil")
	}
	var saved entity.Achievement
	row := ar.conn.QueryRow(ctx, `INSERT INTO achievements (user_id, type, name, description, icon_url, points_awarded)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+achievementColumns+`;`,
		achievement.UserID,
		achievement.Type,
		achievement.Name,
		achievement.Description,
		achievement.IconURL,
		achievement.PointsAwarded,
	)
	err := row.Scan(&saved.ID, &saved.UserID, &saved.Type, &saved.Name, &saved.Description, &saved.IconURL, &saved.PointsAwarded, &saved.UnlockedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrUserNotFound
			}
		}
		return nil, errors.New("creating achievement db error: " + err.Error())
	}
	return &saved, nil
}

func (ar *AchievementsRepository) GetByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Achievement, error) {
	achievements := make([]*entity.Achievement, 0)
	rows, err := ar.conn.Query(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE user_id = $1 ORDER BY unlocked_at DESC;`, uid)
	if err != nil {
		return nil, errors.New("getting achievements by user error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		a := entity.Achievement{}
		err = rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Name, &a.Description, &a.IconURL, &a.PointsAwarded, &a.UnlockedAt)
		if err != nil {
			return nil, errors.New("unmarshalling achievement error: " + err.Error())
		}
		achievements = append(achievements, &a)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning achievements: " + rows.Err().Error())
	}
	return achievements, nil
}
