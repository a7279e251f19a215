package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sixia/internal/database/models"
)

func (r *noteRepository) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]models.Note, error) {
	sqlQuery := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1 AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(content) AS block
			WHERE block->>'type' = 'text'
			  AND block->>'content' ILIKE $2 ESCAPE '\'
		)
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, sqlQuery, ownerID, formatLikePattern(query))
	if err != nil {
		return nil, fmt.Errorf("error searching notes: %w", err)
	}
	return collectNotes(rows)
}

// formatLikePattern turns free text into a substring ILIKE pattern, escaping
// the LIKE metacharacters.
func formatLikePattern(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(query)) + "%"
}
