package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chatlink-auth/entity"

	"github.com/jmoiron/sqlx"
)

// UserRepository interface defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id int) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	SetPassword(ctx context.Context, id int, passwordHash string) error
	Save(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdateLastLogin(ctx context.Context, id int) error
}

const userColumns = `id, username, email, phone, password_hash, full_name, date_of_birth, gender, country,
	native_language, learning_language, learning_language_updated_at, registered_at, last_login_at, is_active`

// userRepository implements UserRepository interface
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

// Create creates a new user. Unique constraint failures on username, email or
// phone are reported as ErrUniqueViolation.
func (r *userRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (username, email, phone, password_hash, full_name, date_of_birth, gender, country,
			native_language, learning_language, learning_language_updated_at, registered_at, last_login_at, is_active)
		VALUES (:username, :email, :phone, :password_hash, :full_name, :date_of_birth, :gender, :country,
			:native_language, :learning_language, :learning_language_updated_at, :registered_at, :last_login_at, :is_active)
		RETURNING ` + userColumns

	if user.RegisteredAt.IsZero() {
		user.RegisteredAt = time.Now()
	}
	user.IsActive = true

	rows, err := r.db.NamedQueryContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUniqueViolation
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && isUniqueViolation(err) {
			return nil, ErrUniqueViolation
		}
		return nil, fmt.Errorf("failed to get created user")
	}

	var createdUser entity.User
	if err := rows.StructScan(&createdUser); err != nil {
		return nil, fmt.Errorf("failed to scan created user: %w", err)
	}

	return &createdUser, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*entity.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

// GetByPhone retrieves a user by phone number
func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return r.getOne(ctx, "phone = $1", phone)
}

// GetByIdentifier resolves a username, email or phone number to a user
func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	return r.getOne(ctx, "(username = $1 OR email = $1 OR phone = $1)", identifier)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg interface{}) (*entity.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s AND is_active = TRUE
		LIMIT 1
	`, userColumns, where)

	var user entity.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// SetPassword overwrites the stored credential
func (r *userRepository) SetPassword(ctx context.Context, id int, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1
		WHERE id = $2 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Save persists the editable profile fields of an existing user
func (r *userRepository) Save(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		UPDATE users
		SET full_name = :full_name, gender = :gender, country = :country,
			native_language = :native_language, learning_language = :learning_language,
			learning_language_updated_at = :learning_language_updated_at
		WHERE id = :id AND is_active = TRUE
		RETURNING ` + userColumns

	rows, err := r.db.NamedQueryContext(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}

	var updatedUser entity.User
	if err := rows.StructScan(&updatedUser); err != nil {
		return nil, fmt.Errorf("failed to scan updated user: %w", err)
	}

	return &updatedUser, nil
}

// UpdateLastLogin updates the last login timestamp for a user
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int) error {
	query := `
		UPDATE users
		SET last_login_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
