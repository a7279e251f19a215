package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"pgregory.net/rapid"

	"sixia/internal/apperr"
	"sixia/internal/database/repositories"
	"sixia/internal/identity"
)

// rawBlock draws a well-formed block in the shape a client sends.
func rawBlock() *rapid.Generator[map[string]any] {
	return rapid.Custom(func(t *rapid.T) map[string]any {
		if rapid.Bool().Draw(t, "image") {
			return map[string]any{"type": "image", "src": rapid.String().Draw(t, "src")}
		}
		return map[string]any{"type": "text", "content": rapid.String().Draw(t, "content")}
	})
}

func rawContent(t *rapid.T, label string) []any {
	blocks := rapid.SliceOfN(rawBlock(), 1, 12).Draw(t, label)
	out := make([]any, len(blocks))
	for i, b := range blocks {
		out[i] = b
	}
	return out
}

func testNoteLifecycle_Properties(t *rapid.T) {
	ctx := context.Background()
	svc := newNoteService()
	owner := uuid.NewString()
	raw := rawContent(t, "content")

	note, err := svc.CreateNote(ctx, owner, raw)
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	// Property: create then get returns the identical ordered sequence.
	got, err := svc.GetNote(ctx, owner, note.ID.String())
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if len(got.Content) != len(raw) {
		t.Fatalf("got %d blocks, want %d", len(got.Content), len(raw))
	}
	for i, item := range raw {
		m := item.(map[string]any)
		b := got.Content[i]
		if string(b.Type) != m["type"] {
			t.Fatalf("block %d: type %q, want %q", i, b.Type, m["type"])
		}
		if m["type"] == "text" && b.Content != m["content"] {
			t.Fatalf("block %d: content %q, want %q", i, b.Content, m["content"])
		}
		if m["type"] == "image" && b.Src != m["src"] {
			t.Fatalf("block %d: src %q, want %q", i, b.Src, m["src"])
		}
	}

	// Property: an update by anyone else is NotFound and changes nothing.
	stranger := uuid.NewString()
	_, err = svc.UpdateNote(ctx, stranger, note.ID.String(), rawContent(t, "replacement"))
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("stranger update: got %v, want NOT_FOUND", err)
	}
	after, err := svc.GetNote(ctx, owner, note.ID.String())
	if err != nil {
		t.Fatalf("GetNote after stranger update: %v", err)
	}
	if !after.UpdatedAt.Equal(note.UpdatedAt) || len(after.Content) != len(note.Content) {
		t.Fatalf("stranger update mutated the note")
	}
	for i := range note.Content {
		if after.Content[i] != note.Content[i] {
			t.Fatalf("stranger update changed block %d", i)
		}
	}

	// Property: delete then get is NotFound.
	if err := svc.DeleteNote(ctx, owner, note.ID.String()); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := svc.GetNote(ctx, owner, note.ID.String()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("GetNote after delete: got %v, want NOT_FOUND", err)
	}
}

func TestNoteLifecycle_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testNoteLifecycle_Properties)
}

func FuzzNoteLifecycle_Properties(f *testing.F) {
	f.Add([]byte{0x00})
	f.Fuzz(rapid.MakeFuzz(testNoteLifecycle_Properties))
}

func testListOrder_Properties(t *rapid.T) {
	ctx := context.Background()
	svc := newNoteService()
	owner := uuid.NewString()
	n := rapid.IntRange(0, 15).Draw(t, "n")

	for i := 0; i < n; i++ {
		if _, err := svc.CreateNote(ctx, owner, textContent("note")); err != nil {
			t.Fatalf("CreateNote: %v", err)
		}
	}

	// Property: N notes with distinct times list as N notes, strictly newest first.
	notes, err := svc.ListNotes(ctx, owner)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != n {
		t.Fatalf("listed %d notes, want %d", len(notes), n)
	}
	for i := 1; i < len(notes); i++ {
		if !notes[i-1].CreatedAt.After(notes[i].CreatedAt) {
			t.Fatalf("notes %d and %d are not strictly descending", i-1, i)
		}
	}
}

func TestListOrder_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testListOrder_Properties)
}

func FuzzListOrder_Properties(f *testing.F) {
	f.Add([]byte{0x00})
	f.Fuzz(rapid.MakeFuzz(testListOrder_Properties))
}

func testDuplicateRegistration_Properties(t *rapid.T) {
	ctx := context.Background()
	svc, err := NewAuthService(repositories.NewMemoryUserRepository(nil),
		identity.NewIssuer("prop-secret", 0), bcrypt.MinCost, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	email := rapid.StringMatching(`[a-z]{1,10}@[a-z]{1,8}\.test`).Draw(t, "email")
	password := rapid.StringMatching(`[a-zA-Z0-9]{1,20}`).Draw(t, "password")
	name := rapid.StringMatching(`[A-Z][a-z]{0,10}`).Draw(t, "name")

	first, err := svc.Register(ctx, email, password, name)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Property: a second registration with the same email is DuplicateEmail
	// and leaves the original record alone.
	other := rapid.StringMatching(`[a-zA-Z0-9]{1,20}`).Draw(t, "other")
	if _, err := svc.Register(ctx, email, other, "Other"); apperr.KindOf(err) != apperr.KindDuplicateEmail {
		t.Fatalf("second Register: got %v, want DUPLICATE_EMAIL", err)
	}
	stored, err := svc.users.GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.ID != first.ID || stored.Name != name {
		t.Fatalf("original record changed: %+v", stored.Public())
	}
}

func TestDuplicateRegistration_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testDuplicateRegistration_Properties)
}

func FuzzDuplicateRegistration_Properties(f *testing.F) {
	f.Add([]byte{0x00})
	f.Fuzz(rapid.MakeFuzz(testDuplicateRegistration_Properties))
}
