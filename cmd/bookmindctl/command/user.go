package command

import (
	"errors"
	"fmt"

	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/spf13/cobra"
)

var userPassword string

var createUserCmd = &cobra.Command{
	Use:   "create-user [username] [email]",
	Short: "Register a user account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if userPassword == "" {
			return errors.New("--password is required")
		}

		db, cfg, err := openDatabase()
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
		auth := services.NewAuthService(db, tokens, nil)

		user, err := auth.Register(services.RegisterRequest{
			Username: args[0],
			Email:    args[1],
			Password: userPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Fprintln(out, "✓ User created successfully!")
		fmt.Fprintf(out, "ID: %d\n", user.ID)
		fmt.Fprintf(out, "Username: %s\n", user.Username)
		fmt.Fprintf(out, "Email: %s\n", user.Email)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVarP(&userPassword, "password", "p", "", "password for the new account")
}
