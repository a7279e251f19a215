package service

import (
	"context"

	"github.com/rs/zerolog"

	"sixia/internal/apperr"
	"sixia/internal/database/dto"
	"sixia/internal/database/models"
	"sixia/internal/database/repositories"
)

type PreferencesService struct {
	prefs repositories.PreferencesRepository
	log   zerolog.Logger
}

func NewPreferencesService(prefs repositories.PreferencesRepository, log zerolog.Logger) *PreferencesService {
	return &PreferencesService{prefs: prefs, log: log}
}

func (s *PreferencesService) Get(ctx context.Context, identity string) (*models.Preferences, error) {
	userID, err := authorize(identity)
	if err != nil {
		return nil, err
	}
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, storeError(s.log, "get_preferences", err)
	}
	return prefs, nil
}

// Update applies the non-nil fields of req.
func (s *PreferencesService) Update(ctx context.Context, identity string, req dto.PreferencesRequest) (*models.Preferences, error) {
	userID, err := authorize(identity)
	if err != nil {
		return nil, err
	}
	if req.Theme != nil && !models.Theme(*req.Theme).Valid() {
		return nil, apperr.InvalidInput("unknown theme %q", *req.Theme)
	}
	if req.Layout != nil && !models.Layout(*req.Layout).Valid() {
		return nil, apperr.InvalidInput("unknown layout %q", *req.Layout)
	}

	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, storeError(s.log, "get_preferences", err)
	}
	if req.Theme != nil {
		prefs.Theme = models.Theme(*req.Theme)
	}
	if req.Layout != nil {
		prefs.Layout = models.Layout(*req.Layout)
	}
	if err := s.prefs.Put(ctx, prefs); err != nil {
		return nil, storeError(s.log, "put_preferences", err)
	}
	return prefs, nil
}
