package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/pkg/cleanup"
	"github.com/kinboard/kinboard/pkg/entity"
)

const eventColumns = `id, title, description, start_time, end_time, location, category, attendees, created_by, family_id, color, created_at, updated_at`

type EventsRepository struct {
	conn PgConnection
}

func NewEventsRepo(cfg DBConfig) *EventsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for eventsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for eventsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &EventsRepository{
		conn: pool,
	}
}

func NewEventsRepoWithConn(conn PgConnection) *EventsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for eventsRepo: " + err.Error())
	}
	return &EventsRepository{
		conn: conn,
	}
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	var event entity.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartTime,
		&event.EndTime,
		&event.Location,
		&event.Category,
		&event.Attendees,
		&event.CreatedBy,
		&event.FamilyID,
		&event.Color,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (er *EventsRepository) collectEvents(ctx context.Context, query string, args ...any) ([]*entity.Event, error) {
	events := make([]*entity.Event, 0)
	rows, err := er.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("querying events error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, errors.New("unmarshalling event error: " + err.Error())
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning events: " + rows.Err().Error())
	}
	return events, nil
}

func (er *EventsRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	if event == nil {
		return nil, errors.New("event is nil")
	}
	row := er.conn.QueryRow(ctx, `INSERT INTO events (title, description, start_time, end_time, location, category, attendees, created_by, family_id, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+eventColumns+`;`,
		event.Title,
		event.Description,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.Category,
		event.Attendees,
		event.CreatedBy,
		event.FamilyID,
		event.Color,
	)
	saved, err := scanEvent(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrFamilyNotFound
			}
		}
		return nil, errors.New("creating event db error: " + err.Error())
	}
	return saved, nil
}

func (er *EventsRepository) GetByID(ctx context.Context, id int) (*entity.Event, error) {
	row := er.conn.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1;`, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrEventNotFound
		}
		return nil, errors.New("getting event by id error: " + err.Error())
	}
	return event, nil
}

func (er *EventsRepository) GetByFamily(ctx context.Context, familyID uuid.UUID) ([]*entity.Event, error) {
	return er.collectEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE family_id = $1 ORDER BY start_time;`, familyID)
}

func (er *EventsRepository) GetByAttendee(ctx context.Context, uid uuid.UUID) ([]*entity.Event, error) {
	// Attendee lists stay denormalized jsonb arrays, so membership is a
	// containment check rather than a join
	return er.collectEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE attendees @> $1 ORDER BY start_time;`, []uuid.UUID{uid})
}

func (er *EventsRepository) GetByDateRange(ctx context.Context, familyID uuid.UUID, from, to time.Time) ([]*entity.Event, error) {
	return er.collectEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE family_id = $1 AND start_time >= $2 AND end_time <= $3 ORDER BY start_time;`,
		familyID, from, to)
}

func (er *EventsRepository) Update(ctx context.Context, id int, patch *EventPatch) (*entity.Event, error) {
	if patch == nil {
		return nil, errors.New("patch is nil")
	}
	sets := make([]string, 0, 9)
	args := make([]any, 0, 9)
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
	if patch.StartTime != nil {
		add("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		add("end_time", *patch.EndTime)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Attendees != nil {
		add("attendees", *patch.Attendees)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING `+eventColumns+`;`, strings.Join(sets, ", "), len(args))
	event, err := scanEvent(er.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrEventNotFound
		}
		return nil, errors.New("updating event error: " + err.Error())
	}
	return event, nil
}

func (er *EventsRepository) Delete(ctx context.Context, id int) error {
	ct, err := er.conn.Exec(ctx, `DELETE FROM events WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting event error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEventNotFound
	}
	return nil
}
