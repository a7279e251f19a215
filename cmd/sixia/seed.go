package main

import (
	"fmt"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"

	"sixia/internal/content"
	"sixia/internal/database"
	"sixia/internal/database/repositories"
	"sixia/internal/service"
)

var (
	seedEmail string
	seedCount int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo notes for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		db, err := database.New(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := repositories.NewUserRepository(db.DB()).GetByEmail(cmd.Context(), seedEmail)
		if err != nil {
			return err
		}
		notes := service.NewNoteService(repositories.NewNoteRepository(db.DB()), log)

		fake := faker.New()
		created := 0
		for created < seedCount {
			raw := demoContent(fake)
			blocks, err := content.Validate(raw)
			if err != nil {
				return err
			}
			if !content.HasContent(blocks) {
				continue
			}
			if _, err := notes.CreateNote(cmd.Context(), user.ID.String(), raw); err != nil {
				return err
			}
			created++
		}
		fmt.Printf("Created %d notes for %s\n", created, user.Email)
		return nil
	},
}

// demoContent builds note content the way a client submits it.
func demoContent(fake faker.Faker) []any {
	n := fake.IntBetween(1, 4)
	blocks := make([]any, 0, n+1)
	blocks = append(blocks, map[string]any{"type": "text", "content": fake.Lorem().Sentence(fake.IntBetween(2, 6))})
	for i := 1; i < n; i++ {
		blocks = append(blocks, map[string]any{"type": "text", "content": fake.Lorem().Paragraph(fake.IntBetween(1, 3))})
	}
	if fake.IntBetween(0, 3) == 0 {
		blocks = append(blocks, map[string]any{
			"type": "image",
			"src":  fmt.Sprintf("https://picsum.photos/seed/%s/640/480", fake.Lorem().Word()),
		})
	}
	return blocks
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedEmail, "email", "", "Owner of the demo notes")
	seedCmd.Flags().IntVar(&seedCount, "count", 10, "Number of notes to create")
	seedCmd.MarkFlagRequired("email")
}
