package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initSchemaCmd = &cobra.Command{
	Use:   "init-schema",
	Short: "Create the events table of the journal if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		journalKind, _ := cmd.Flags().GetString("journal")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		j, db, err := openJournal(cmd.Context(), journalKind, logger, telemetry{})
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err = j.CreateSchema(cmd.Context()); err != nil {
			return fmt.Errorf("creating the schema failed: %w", err)
		}

		logger.Info("schema ready", "journal", journalKind)

		return nil
	},
}

func init() {
	initSchemaCmd.Flags().String("journal", journalPostgres, "event journal: postgres or sqlite")
	rootCmd.AddCommand(initSchemaCmd)
}
