package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserFilter is a fully resolved member search. The services layer
// fills in every default (opposite gender, age window, like-graph
// restriction) before it reaches the repository, so the same WHERE
// clause drives both the count and the item fetch.
type UserFilter struct {
	ExcludeID int64
	Gender    string

	// DOB window; both zero means no age restriction.
	MinDOB time.Time
	MaxDOB time.Time

	// RestrictIDs limits results to IDs when true. An empty slice with
	// RestrictIDs set matches nothing, which is distinct from no
	// restriction at all.
	RestrictIDs bool
	IDs         []int64

	// OrderBy is "created" or anything else for last-active, both
	// descending.
	OrderBy string

	Limit  int
	Offset int
}

func (f UserFilter) where() (string, []any) {
	clauses := []string{"id <> $1", "gender = $2"}
	args := []any{f.ExcludeID, f.Gender}

	if f.RestrictIDs {
		args = append(args, f.IDs)
		clauses = append(clauses, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if !f.MinDOB.IsZero() || !f.MaxDOB.IsZero() {
		args = append(args, f.MinDOB)
		clauses = append(clauses, fmt.Sprintf("date_of_birth >= $%d", len(args)))
		args = append(args, f.MaxDOB)
		clauses = append(clauses, fmt.Sprintf("date_of_birth <= $%d", len(args)))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (f UserFilter) order() string {
	if f.OrderBy == "created" {
		return "ORDER BY created DESC"
	}
	return "ORDER BY last_active DESC"
}

const userColumns = `id, username, password_hash, gender, date_of_birth,
		known_as, introduction, city, country, created, last_active`

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Gender, &u.DateOfBirth,
		&u.KnownAs, &u.Introduction, &u.City, &u.Country, &u.Created, &u.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and fills in the generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, gender, date_of_birth,
			known_as, introduction, city, country, created, last_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Gender, user.DateOfBirth,
		user.KnownAs, user.Introduction, user.City, user.Country,
		user.Created, user.LastActive,
	).Scan(&user.ID)
	if err != nil {
		return storageErr("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
		}
		return nil, storageErr("failed to get user", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by their lowercased username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
		}
		return nil, storageErr("failed to get user by username", err)
	}
	return user, nil
}

// UsernameExists checks whether a username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, storageErr("failed to check username", err)
	}
	return exists, nil
}

// Update persists the editable profile fields.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET known_as = $1, introduction = $2, city = $3, country = $4
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query,
		user.KnownAs, user.Introduction, user.City, user.Country, user.ID,
	)
	if err != nil {
		return storageErr("failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", user.ID, apperr.ErrNotFound)
	}
	return nil
}

// TouchLastActive bumps the user's last-active timestamp.
func (r *UserRepository) TouchLastActive(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_active = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, at, id); err != nil {
		return storageErr("failed to touch last active", err)
	}
	return nil
}

// Delete removes a user together with their photos, like edges and
// messages in one transaction. The cascade is explicit, nothing is
// left to database-level ON DELETE rules.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr("failed to begin delete user", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM photos WHERE user_id = $1`, id); err != nil {
		return storageErr("failed to delete user photos", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE liker_id = $1 OR likee_id = $1`, id); err != nil {
		return storageErr("failed to delete user likes", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE sender_id = $1 OR recipient_id = $1`, id); err != nil {
		return storageErr("failed to delete user messages", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storageErr("failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("failed to commit delete user", err)
	}
	return nil
}

// List runs the filtered member search. Count and fetch share the
// exact same WHERE clause so the reported total always matches the
// returned slice's query.
func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]models.User, int, error) {
	where, args := f.where()

	var total int
	countQuery := `SELECT COUNT(*) FROM users ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("failed to count users", err)
	}

	args = append(args, f.Limit)
	limitParam := len(args)
	args = append(args, f.Offset)
	offsetParam := len(args)

	query := fmt.Sprintf(`SELECT %s FROM users %s %s LIMIT $%d OFFSET $%d`,
		userColumns, where, f.order(), limitParam, offsetParam)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, storageErr("failed to list users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, storageErr("failed to scan user", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("error iterating users", err)
	}

	return users, total, nil
}
