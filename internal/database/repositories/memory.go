package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sixia/internal/apperr"
	"sixia/internal/content"
	"sixia/internal/database/models"
)

// Clock supplies timestamps to the in-memory repositories.
type Clock func() time.Time

// MemoryUserRepository keeps users in process memory. Emails are compared
// exactly, like the unique index of the users table.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
	now     Clock
}

func NewMemoryUserRepository(now Clock) *MemoryUserRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryUserRepository{
		byID:    make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
		now:     now,
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return apperr.ErrDuplicateEmail
	}
	user.ID = uuid.New()
	user.CreatedAt = r.now()
	user.UpdatedAt = user.CreatedAt
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, exists := r.byID[id]
	if !exists {
		return nil, apperr.ErrUserNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, exists := r.byEmail[email]
	if !exists {
		return nil, apperr.ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

// MemoryNoteRepository keeps notes in process memory. Returned notes never
// share block slices with the stored ones.
type MemoryNoteRepository struct {
	mu    sync.RWMutex
	notes map[uuid.UUID]models.Note
	now   Clock
}

func NewMemoryNoteRepository(now Clock) *MemoryNoteRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryNoteRepository{
		notes: make(map[uuid.UUID]models.Note),
		now:   now,
	}
}

func (r *MemoryNoteRepository) Create(ctx context.Context, ownerID uuid.UUID, blocks models.Blocks) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	note := models.Note{
		ID:        uuid.New(),
		UserID:    ownerID,
		Content:   blocks.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.notes[note.ID] = note
	return copyNote(note), nil
}

func (r *MemoryNoteRepository) GetOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	note, ok := r.owned(id, ownerID)
	if !ok {
		return nil, apperr.ErrNoteNotFound
	}
	return copyNote(note), nil
}

func (r *MemoryNoteRepository) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	return r.filter(ownerID, func(models.Note) bool { return true }), nil
}

func (r *MemoryNoteRepository) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]models.Note, error) {
	return r.filter(ownerID, func(n models.Note) bool {
		return content.MatchesText(n.Content, query)
	}), nil
}

func (r *MemoryNoteRepository) UpdateContent(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, blocks models.Blocks) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.owned(id, ownerID)
	if !ok {
		return nil, apperr.ErrNoteNotFound
	}
	note.Content = blocks.Clone()
	note.UpdatedAt = r.now()
	r.notes[id] = note
	return copyNote(note), nil
}

func (r *MemoryNoteRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owned(id, ownerID); !ok {
		return apperr.ErrNoteNotFound
	}
	delete(r.notes, id)
	return nil
}

// owned must be called with the lock held.
func (r *MemoryNoteRepository) owned(id uuid.UUID, ownerID uuid.UUID) (models.Note, bool) {
	note, exists := r.notes[id]
	if !exists || note.UserID != ownerID {
		return models.Note{}, false
	}
	return note, true
}

func (r *MemoryNoteRepository) filter(ownerID uuid.UUID, keep func(models.Note) bool) []models.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	notes := make([]models.Note, 0)
	for _, note := range r.notes {
		if note.UserID == ownerID && keep(note) {
			notes = append(notes, *copyNote(note))
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID.String() > notes[j].ID.String()
	})
	return notes
}

func copyNote(note models.Note) *models.Note {
	note.Content = note.Content.Clone()
	return &note
}

// MemoryPreferencesRepository keeps preferences in process memory.
type MemoryPreferencesRepository struct {
	mu    sync.RWMutex
	prefs map[uuid.UUID]models.Preferences
	now   Clock
}

func NewMemoryPreferencesRepository(now Clock) *MemoryPreferencesRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryPreferencesRepository{
		prefs: make(map[uuid.UUID]models.Preferences),
		now:   now,
	}
}

func (r *MemoryPreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prefs, exists := r.prefs[userID]
	if !exists {
		prefs = models.DefaultPreferences(userID)
	}
	return &prefs, nil
}

func (r *MemoryPreferencesRepository) Put(ctx context.Context, prefs *models.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefs.UpdatedAt = r.now()
	r.prefs[prefs.UserID] = *prefs
	return nil
}
