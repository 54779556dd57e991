package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mystere-theatre/assets"
	"github.com/robalobadob/mystere-theatre/internal/catalog"
	"github.com/robalobadob/mystere-theatre/internal/httpserver"
	"github.com/robalobadob/mystere-theatre/internal/ledger"
	"github.com/robalobadob/mystere-theatre/internal/store"
)

const devSessionSecret = "dev-only-session-secret"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var servePort string

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (default $PORT or 5175)")
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	venue, err := catalog.Load(os.Getenv("CATALOG_FILE"))
	if err != nil {
		return err
	}

	db, err := ledger.Open(getEnv("DATABASE_PATH", "./data/theatre.db"))
	if err != nil {
		return err
	}
	defer db.Close()
	migrations, err := assets.Migrations()
	if err != nil {
		return err
	}
	if err := ledger.Migrate(db, migrations); err != nil {
		return err
	}

	cfg := serverConfig()
	srv := httpserver.New(cfg, venue, store.NewMemoryStore(), ledger.NewStore(db))

	port := servePort
	if port == "" {
		port = getEnv("PORT", "5175")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("port", port).Str("venue", venue.Name).Int("stations", len(venue.Stations)).
		Bool("desk", cfg.StaffPasswordHash != "").Msg("starting theatre server")
	return srv.Run(ctx, ":"+port)
}

func serverConfig() httpserver.Config {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Warn().Msg("SESSION_SECRET not set, using a development secret")
		secret = devSessionSecret
	}
	salt := os.Getenv("CLAIM_SALT")
	if salt == "" {
		log.Warn().Msg("CLAIM_SALT not set, claim codes fall back to the session secret")
		salt = secret
	}
	return httpserver.Config{
		SessionSecret:     secret,
		SessionTTL:        time.Duration(envInt("SESSION_TTL_HOURS", 12)) * time.Hour,
		ClaimSalt:         salt,
		StaffPasswordHash: os.Getenv("STAFF_PASSWORD_HASH"),
		ClientOrigin:      os.Getenv("CLIENT_ORIGIN"),
		Production:        os.Getenv("APP_ENV") == "production",
	}
}
