package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sixia/internal/apperr"
	"sixia/internal/content"
	"sixia/internal/database/models"
	"sixia/internal/database/repositories"
)

type NoteService struct {
	notes repositories.NoteRepository
	log   zerolog.Logger
}

func NewNoteService(notes repositories.NoteRepository, log zerolog.Logger) *NoteService {
	return &NoteService{notes: notes, log: log}
}

func (s *NoteService) ListNotes(ctx context.Context, identity string) ([]models.Note, error) {
	ownerID, err := authorize(identity)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListOwned(ctx, ownerID)
	if err != nil {
		return nil, storeError(s.log, "list_notes", err)
	}
	return notes, nil
}

// SearchNotes lists the caller's notes whose text contains query. A blank
// query lists everything.
func (s *NoteService) SearchNotes(ctx context.Context, identity, query string) ([]models.Note, error) {
	ownerID, err := authorize(identity)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return s.ListNotes(ctx, identity)
	}
	notes, err := s.notes.Search(ctx, ownerID, query)
	if err != nil {
		return nil, storeError(s.log, "search_notes", err)
	}
	return notes, nil
}

func (s *NoteService) CreateNote(ctx context.Context, identity string, raw any) (*models.Note, error) {
	ownerID, err := authorize(identity)
	if err != nil {
		return nil, err
	}
	blocks, err := content.Validate(raw)
	if err != nil {
		return nil, err
	}
	note, err := s.notes.Create(ctx, ownerID, blocks)
	if err != nil {
		return nil, storeError(s.log, "create_note", err)
	}
	s.log.Debug().Str("note_id", note.ID.String()).Int("blocks", len(blocks)).Msg("note created")
	return note, nil
}

func (s *NoteService) GetNote(ctx context.Context, identity, noteID string) (*models.Note, error) {
	ownerID, err := authorize(identity)
	if err != nil {
		return nil, err
	}
	id, err := parseNoteID(noteID)
	if err != nil {
		return nil, err
	}
	note, err := s.notes.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, storeError(s.log, "get_note", err)
	}
	return note, nil
}

// UpdateNote replaces the whole content of a note owned by the caller.
func (s *NoteService) UpdateNote(ctx context.Context, identity, noteID string, raw any) (*models.Note, error) {
	ownerID, err := authorize(identity)
	if err != nil {
		return nil, err
	}
	id, err := parseNoteID(noteID)
	if err != nil {
		return nil, err
	}
	blocks, err := content.Validate(raw)
	if err != nil {
		return nil, err
	}
	note, err := s.notes.UpdateContent(ctx, id, ownerID, blocks)
	if err != nil {
		return nil, storeError(s.log, "update_note", err)
	}
	return note, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, identity, noteID string) error {
	ownerID, err := authorize(identity)
	if err != nil {
		return err
	}
	id, err := parseNoteID(noteID)
	if err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, id, ownerID); err != nil {
		return storeError(s.log, "delete_note", err)
	}
	s.log.Debug().Str("note_id", id.String()).Msg("note deleted")
	return nil
}

// parseNoteID reports a malformed id as not found; it cannot name a note.
func parseNoteID(noteID string) (uuid.UUID, error) {
	id, err := uuid.Parse(noteID)
	if err != nil {
		return uuid.Nil, apperr.ErrNoteNotFound
	}
	return id, nil
}
