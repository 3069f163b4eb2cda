package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements giveaway.Store using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS listing (
	id                  BIGSERIAL PRIMARY KEY,
	title               TEXT NOT NULL,
	category            TEXT NOT NULL,
	condition           TEXT NOT NULL,
	description         TEXT NOT NULL,
	images              TEXT[] NOT NULL DEFAULT '{}',
	pickup_address      TEXT NOT NULL,
	pickup_instructions TEXT NOT NULL DEFAULT '',
	created_by          TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS listing_created_by_idx ON listing (created_by);
CREATE INDEX IF NOT EXISTS listing_category_idx ON listing (category);
CREATE TABLE IF NOT EXISTS profile (
	id         BIGSERIAL PRIMARY KEY,
	identity   TEXT NOT NULL UNIQUE,
	username   TEXT NOT NULL,
	bio        TEXT NOT NULL DEFAULT '',
	avatar     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// Migrate creates the listing and profile tables and their indexes if they do not exist
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return r.handlePostgresError("migrate", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return giveaway.ErrListingNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return giveaway.ErrProfileExists
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const listingColumns = `id, title, category, condition, description, images,
	pickup_address, pickup_instructions, created_by, created_at, updated_at`

func (r *Repository) CreateListing(ctx context.Context, listing *giveaway.Listing) error {
	query := `
		INSERT INTO listing (
			title, category, condition, description, images,
			pickup_address, pickup_instructions, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		listing.Title, listing.Category, listing.Condition, listing.Description, images(listing.Images),
		listing.PickupAddress, listing.PickupInstructions, listing.CreatedBy,
		listing.CreatedAt, listing.UpdatedAt).Scan(&listing.ID)
	if err != nil {
		return r.handlePostgresError("create listing", err)
	}

	return nil
}

func (r *Repository) GetListing(ctx context.Context, id int64) (*giveaway.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listing WHERE id = $1`

	listing, err := scanListing(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get listing", err)
	}
	return listing, nil
}

func (r *Repository) UpdateListing(ctx context.Context, listing *giveaway.Listing) error {
	query := `
		UPDATE listing SET
			title = $2, category = $3, condition = $4, description = $5, images = $6,
			pickup_address = $7, pickup_instructions = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		listing.ID, listing.Title, listing.Category, listing.Condition, listing.Description,
		images(listing.Images), listing.PickupAddress, listing.PickupInstructions, listing.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update listing", err)
	}
	if tag.RowsAffected() == 0 {
		return giveaway.ErrListingNotFound
	}
	return nil
}

func (r *Repository) DeleteListing(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM listing WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete listing", err)
	}
	if tag.RowsAffected() == 0 {
		return giveaway.ErrListingNotFound
	}
	return nil
}

func (r *Repository) ListListings(ctx context.Context, q giveaway.ListingQuery) ([]*giveaway.Listing, int, error) {
	q = q.Normalize()
	where, args := buildWhereClause(q)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM listing`+where, args...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count listings", err)
	}

	query := `SELECT ` + listingColumns + ` FROM listing` + where + orderByClause(q) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, q.PageSize, q.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list listings", err)
	}
	defer rows.Close()

	listings := []*giveaway.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan listing", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.handlePostgresError("iterate listing rows", err)
	}

	return listings, total, nil
}

// buildWhereClause returns " WHERE ..." (or "") and its positional args
func buildWhereClause(q giveaway.ListingQuery) (string, []interface{}) {
	var conditions []string
	args := []interface{}{}
	argIndex := 1

	if search := strings.TrimSpace(q.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+escapeLike(search)+"%")
		argIndex++
	}
	if q.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, q.Category)
		argIndex++
	}
	if q.CreatedBy != "" {
		conditions = append(conditions, fmt.Sprintf("created_by = $%d", argIndex))
		args = append(args, q.CreatedBy)
		argIndex++
	}
	if len(q.ExcludeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("NOT (id = ANY($%d))", argIndex))
		args = append(args, q.ExcludeIDs)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderByClause(q giveaway.ListingQuery) string {
	column := "id"
	if q.SortBy == giveaway.SortByTitle {
		column = "title"
	}
	order := "DESC"
	if q.SortOrder == giveaway.SortAsc {
		order = "ASC"
	}
	if column == "id" {
		return fmt.Sprintf(" ORDER BY id %s", order)
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", column, order, order)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func images(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func scanListing(row pgx.Row) (*giveaway.Listing, error) {
	var l giveaway.Listing
	err := row.Scan(
		&l.ID, &l.Title, &l.Category, &l.Condition, &l.Description, &l.Images,
		&l.PickupAddress, &l.PickupInstructions, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
