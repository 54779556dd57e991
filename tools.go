package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/mystere-theatre/assets"
	"github.com/robalobadob/mystere-theatre/internal/catalog"
	"github.com/robalobadob/mystere-theatre/internal/ledger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the win ledger database",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		path := getEnv("DATABASE_PATH", "./data/theatre.db")
		db, err := ledger.Open(path)
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
		log.Info().Str("db", path).Msg("ledger up to date")
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for STAFF_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := hashPassword(args[0])
		if err != nil {
			return err
		}
		if !checkPassword(h, args[0]) {
			return fmt.Errorf("hash does not verify")
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the loaded venue, answers included",
	Long:  "Loads the venue from $CATALOG_FILE (or the built-in theatre), validates it and prints it as YAML.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		venue, err := catalog.Load(os.Getenv("CATALOG_FILE"))
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(venue)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, hashPasswordCmd, catalogCmd)
}
