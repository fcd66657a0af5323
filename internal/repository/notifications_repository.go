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

const notificationColumns = `id, user_id, title, message, type, is_read, action_url, created_at`

type NotificationsRepository struct {
	conn PgConnection
}

func NewNotificationsRepo(cfg DBConfig) *NotificationsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for notificationsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for notificationsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &NotificationsRepository{
		conn: pool,
	}
}

func NewNotificationsRepoWithConn(conn PgConnection) *NotificationsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for notificationsRepo: " + err.Error())
	}
	return &NotificationsRepository{
		conn: conn,
	}
}

func (nr *NotificationsRepository) Create(ctx context.Context, notification *entity.Notification) (*entity.Notification, error) {
	if notification == nil {
		return nil, errors.New("notification is nil")
	}
	var saved entity.Notification
	row := nr.conn.QueryRow(ctx, `INSERT INTO notifications (user_id, title, message, type, action_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns+`;`,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.ActionURL,
	)
	err := row.Scan(&saved.ID, &saved.UserID, &saved.Title, &saved.Message, &saved.Type, &saved.IsRead, &saved.ActionURL, &saved.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrUserNotFound
			}
		}
		return nil, errors.New("creating notification db error: " + err.Error())
	}
	return &saved, nil
}

func (nr *NotificationsRepository) GetByUser(ctx context.Context, uid uuid.UUID) ([]*entity.Notification, error) {
	notifications := make([]*entity.Notification, 0)
	rows, err := nr.conn.Query(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC;`, uid)
	if err != nil {
		return nil, errors.New("getting notifications by user error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		n := entity.Notification{}
		err = rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.ActionURL, &n.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling notification error: " + err.Error())
		}
		notifications = append(notifications, &n)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning notifications: " + rows.Err().Error())
	}
	return notifications, nil
}

func (nr *NotificationsRepository) MarkRead(ctx context.Context, id int, uid uuid.UUID) error {
	ct, err := nr.conn.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2;`, id, uid)
	if err != nil {
		return errors.New("marking notification as read error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrNotificationNotFound
	}
	return nil
}
