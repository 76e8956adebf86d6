package repository

import (
	"context"
	"database/sql"
	"errors"

	"learnhub/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

const uniqueViolation = "23505"

type ProfileRepository interface {
	// Create returns ErrProfileExists when the id is taken.
	Create(ctx context.Context, p *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	// Update changes the editable fields and returns ErrProfileNotFound for an unknown id.
	Update(ctx context.Context, p *model.Profile) error
}

type profileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, p *model.Profile) error {
	query := `INSERT INTO profiles (id, email, full_name, role, avatar_url, bio)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.Email, p.FullName, p.Role, p.AvatarURL, p.Bio).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrProfileExists
	}
	return err
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	if !validID(id) {
		return nil, nil
	}
	var p model.Profile
	query := `SELECT id, COALESCE(email, ''), COALESCE(full_name, ''), role, COALESCE(avatar_url, ''),
	                 COALESCE(bio, ''), created_at, updated_at
	          FROM profiles WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.AvatarURL, &p.Bio, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Update(ctx context.Context, p *model.Profile) error {
	if !validID(p.ID) {
		return ErrProfileNotFound
	}
	query := `UPDATE profiles SET full_name=$1, avatar_url=$2, bio=$3, updated_at=NOW()
              WHERE id=$4 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, p.FullName, p.AvatarURL, p.Bio, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	return err
}
