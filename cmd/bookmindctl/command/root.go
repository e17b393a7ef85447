package command

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/princeprakhar/bookmind/internal/config"
	"github.com/princeprakhar/bookmind/internal/database"
	"github.com/princeprakhar/bookmind/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "bookmindctl",
	Short: "bookmindctl - BookMind administration tool",
	Long: `bookmindctl runs maintenance tasks against a BookMind database using the
same environment configuration as the server:
- Apply schema migrations
- Create user accounts
- Try a book lookup`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && envFile != ".env" {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return nil
	},
}

// Execute runs the root command; called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(lookupCmd)
}

func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	logger.Init(cfg.Environment, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDatabase() (*gorm.DB, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Init(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}
