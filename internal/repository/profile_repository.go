package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bikeparts/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileRepository defines the interface for shipping profile data access
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
}

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Upsert inserts or replaces a shopper's saved shipping details
func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, name, phone, address, city, postal_code, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, phone = EXCLUDED.phone, address = EXCLUDED.address,
		    city = EXCLUDED.city, postal_code = EXCLUDED.postal_code, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.Name,
		profile.Phone,
		profile.Address,
		profile.City,
		profile.PostalCode,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// FindByUserID retrieves a shopper's saved shipping details
func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, name, phone, address, city, postal_code, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	profile := &domain.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Name,
		&profile.Phone,
		&profile.Address,
		&profile.City,
		&profile.PostalCode,
		&profile.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}
