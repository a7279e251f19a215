package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sixia/internal/database/models"
)

type PreferencesRepository interface {
	// Get returns the stored preferences, or the defaults when none exist.
	Get(ctx context.Context, userID uuid.UUID) (*models.Preferences, error)
	Put(ctx context.Context, prefs *models.Preferences) error
}

type preferencesRepository struct {
	db *sql.DB
}

func NewPreferencesRepository(db *sql.DB) PreferencesRepository {
	return &preferencesRepository{db: db}
}

func (r *preferencesRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	prefs := models.Preferences{UserID: userID}
	query := `SELECT theme, layout, updated_at FROM user_preferences WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&prefs.Theme, &prefs.Layout, &prefs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := models.DefaultPreferences(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting preferences: %w", err)
	}
	return &prefs, nil
}

func (r *preferencesRepository) Put(ctx context.Context, prefs *models.Preferences) error {
	query := `
		INSERT INTO user_preferences (user_id, theme, layout, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET theme = EXCLUDED.theme, layout = EXCLUDED.layout, updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, prefs.UserID, string(prefs.Theme), string(prefs.Layout)).Scan(&prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error saving preferences: %w", err)
	}
	return nil
}
