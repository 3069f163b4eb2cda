package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

const profileColumns = `id, identity, username, bio, avatar, created_at, updated_at`

func (r *Repository) CreateProfile(ctx context.Context, profile *giveaway.Profile) error {
	query := `
		INSERT INTO profile (identity, username, bio, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		profile.Identity, profile.Username, profile.Bio, profile.Avatar,
		profile.CreatedAt, profile.UpdatedAt).Scan(&profile.ID)
	if err != nil {
		return r.handlePostgresError("create profile", err)
	}
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, id int64) (*giveaway.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profile WHERE id = $1`
	return r.getProfile(ctx, "get profile", query, id)
}

func (r *Repository) GetProfileByIdentity(ctx context.Context, identity string) (*giveaway.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profile WHERE identity = $1`
	return r.getProfile(ctx, "get profile by identity", query, identity)
}

func (r *Repository) UpdateProfile(ctx context.Context, profile *giveaway.Profile) error {
	query := `
		UPDATE profile SET username = $2, bio = $3, avatar = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		profile.ID, profile.Username, profile.Bio, profile.Avatar, profile.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return giveaway.ErrProfileNotFound
	}
	return nil
}

func (r *Repository) getProfile(ctx context.Context, operation, query string, arg interface{}) (*giveaway.Profile, error) {
	var p giveaway.Profile
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Identity, &p.Username, &p.Bio, &p.Avatar, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, giveaway.ErrProfileNotFound
	}
	if err != nil {
		return nil, r.handlePostgresError(operation, err)
	}
	return &p, nil
}
