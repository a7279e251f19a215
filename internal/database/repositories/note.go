package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sixia/internal/apperr"
	"sixia/internal/database/models"
)

// NoteRepository is owner-scoped: every lookup filters on the owner, and a
// note owned by someone else is reported exactly like a missing one.
type NoteRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, blocks models.Blocks) (*models.Note, error)
	GetOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.Note, error)
	// ListOwned returns the owner's notes, newest first.
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error)
	// UpdateContent replaces the whole block sequence.
	UpdateContent(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, blocks models.Blocks) (*models.Note, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	// Search returns the owner's notes with a text block containing query,
	// ignoring case, newest first.
	Search(ctx context.Context, ownerID uuid.UUID, query string) ([]models.Note, error)
}

type noteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) NoteRepository {
	return &noteRepository{db: db}
}

const noteColumns = `id, user_id, content, created_at, updated_at`

func (r *noteRepository) Create(ctx context.Context, ownerID uuid.UUID, blocks models.Blocks) (*models.Note, error) {
	note := models.Note{UserID: ownerID, Content: blocks.Clone()}
	query := `
		INSERT INTO notes (user_id, content, created_at, updated_at)
		VALUES ($1, $2, clock_timestamp(), clock_timestamp())
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, ownerID, blocks).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}
	return &note, nil
}

func (r *noteRepository) GetOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`
	note, err := scanNote(r.db.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting note: %w", err)
	}
	return note, nil
}

func (r *noteRepository) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying notes: %w", err)
	}
	return collectNotes(rows)
}

func (r *noteRepository) UpdateContent(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, blocks models.Blocks) (*models.Note, error) {
	query := `
		UPDATE notes
		SET content = $1, updated_at = clock_timestamp()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + noteColumns
	note, err := scanNote(r.db.QueryRowContext(ctx, query, blocks, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating note: %w", err)
	}
	return note, nil
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.ErrNoteNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var note models.Note
	err := row.Scan(&note.ID, &note.UserID, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func collectNotes(rows *sql.Rows) ([]models.Note, error) {
	defer rows.Close()
	notes := make([]models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}
