package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/kinboard/kinboard/internal/error_values"
	"github.com/kinboard/kinboard/pkg/cleanup"
	"github.com/kinboard/kinboard/pkg/entity"
)

type FamiliesRepository struct {
	conn PgConnection
}

func NewFamiliesRepo(cfg DBConfig) *FamiliesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for familiesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for familiesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &FamiliesRepository{
		conn: pool,
	}
}

func NewFamiliesRepoWithConn(conn PgConnection) *FamiliesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for familiesRepo: " + err.Error())
	}
	return &FamiliesRepository{
		conn: conn,
	}
}

func (fr *FamiliesRepository) Create(ctx context.Context, family *entity.Family) (*entity.Family, error) {
	if family == nil {
		return nil, errors.New("family is nil")
	}
	var saved entity.Family
	row := fr.conn.QueryRow(ctx, `INSERT INTO families (id, name, created_by) VALUES ($1, $2, $3)
		RETURNING id, name, created_by, created_at, updated_at;`,
		family.ID,
		family.Name,
		family.CreatedBy,
	)
	if err := row.Scan(&saved.ID, &saved.Name, &saved.CreatedBy, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation on created_by
			case "23503":
				return nil, errorvalues.ErrUserNotFound
			}
		}
		return nil, errors.New("creating family db error: " + err.Error())
	}
	return &saved, nil
}

func (fr *FamiliesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Family, error) {
	var family entity.Family
	row := fr.conn.QueryRow(ctx, `SELECT id, name, created_by, created_at, updated_at FROM families WHERE id = $1;`, id)
	if err := row.Scan(&family.ID, &family.Name, &family.CreatedBy, &family.CreatedAt, &family.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrFamilyNotFound
		}
		return nil, errors.New("getting family by id error: " + err.Error())
	}
	return &family, nil
}

func (fr *FamiliesRepository) GetMembers(ctx context.Context, familyID uuid.UUID) ([]*entity.User, error) {
	members := make([]*entity.User, 0)
	rows, err := fr.conn.Query(ctx, `SELECT `+userColumns+` FROM users WHERE family_id = $1;`, familyID)
	if err != nil {
		return nil, errors.New("getting family members error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.New("unmarshalling member error: " + err.Error())
		}
		members = append(members, user)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning members: " + rows.Err().Error())
	}
	return members, nil
}
