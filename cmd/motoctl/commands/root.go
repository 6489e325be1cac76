package commands

import (
	"fmt"
	"os"

	"motoparts-inventory/internal/repository"
	"motoparts-inventory/internal/service"
	"motoparts-inventory/pkg/config"
	"motoparts-inventory/pkg/database"
	"motoparts-inventory/pkg/jwt"
	"motoparts-inventory/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	dbURL   string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "motoctl",
	Short: "Admin tool for the motoparts inventory service",
	Long: `motoctl runs maintenance tasks against the inventory database.

It reads the same environment (and optional .env file) as the API server.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(migrateCmd, createOperatorCmd, resetPasswordCmd)
}

// env is what every subcommand needs: config, logger and an open database.
type env struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func openEnv() (*env, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(level, "console")

	db, err := database.Connect(cfg.DSN(), database.Options{
		MaxIdleConns:    1,
		MaxOpenConns:    2,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if err := database.Close(e.db); err != nil {
		e.log.Warn().Err(err).Msg("close database")
	}
}

func (e *env) authService() service.AuthService {
	return service.NewAuthService(repository.NewOperatorRepo(e.db), jwt.NewManager(e.cfg.JWTSecret, e.cfg.TokenTTL), e.log)
}
