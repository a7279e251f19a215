// Package service holds the note, credential and preference operations.
//
// Every entry point checks the caller identity first, then validates its
// input, and only then touches a repository. Store faults are logged and
// replaced by apperr.ErrPersistence so that no driver detail reaches a
// client.
package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sixia/internal/apperr"
)

// authorize turns a caller identity into an owner id.
func authorize(identity string) (uuid.UUID, error) {
	if identity == "" {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	id, err := uuid.Parse(identity)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return id, nil
}

// storeError passes application errors through and converts anything else
// into a generic persistence failure.
func storeError(log zerolog.Logger, op string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	log.Error().Err(err).Str("op", op).Msg("store operation failed")
	return apperr.Persistence(err)
}
