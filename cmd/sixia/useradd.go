package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sixia/internal/database"
	"sixia/internal/database/repositories"
	"sixia/internal/identity"
	"sixia/internal/service"
)

var (
	useraddEmail    string
	useraddName     string
	useraddPassword string
)

var useraddCmd = &cobra.Command{
	Use:   "useradd",
	Short: "Register a user",
	Long:  `Register a user directly in the database. The password is read from the terminal unless --password is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		password := useraddPassword
		if password == "" {
			password, err = readPassword()
			if err != nil {
				return err
			}
		}

		db, err := database.New(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		issuer := identity.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		auth, err := service.NewAuthService(repositories.NewUserRepository(db.DB()), issuer, cfg.Auth.BcryptCost, log)
		if err != nil {
			return err
		}
		user, err := auth.Register(cmd.Context(), useraddEmail, password, useraddName)
		if err != nil {
			return err
		}
		fmt.Printf("User %s created with id %s\n", user.Email, user.ID)
		return nil
	},
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal; pass --password")
	}
	fmt.Print("Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}

func init() {
	rootCmd.AddCommand(useraddCmd)
	useraddCmd.Flags().StringVar(&useraddEmail, "email", "", "Email address")
	useraddCmd.Flags().StringVar(&useraddName, "name", "", "Display name")
	useraddCmd.Flags().StringVar(&useraddPassword, "password", "", "Password (prompted when empty)")
	useraddCmd.MarkFlagRequired("email")
	useraddCmd.MarkFlagRequired("name")
}
