package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/storage/pg"
	sharedpg "github.com/MoniqueMiko/watch-auth-microservice/shared/storage/pg"
)

func NewMigrateCmd() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending schema migrations, or roll them all back with --down.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()

			storage, err := pg.NewWithConfig(cmd.Context(), cfg.Private.Pg, sharedpg.LightweightConnectionConfig())
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
			}
			defer storage.Cleanup()

			if !down {
				cmd.Println("Running migrations...")
				if err := storage.Migrate(); err != nil {
					return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
				}
				cmd.Println("Migrations completed successfully")
				return nil
			}

			m, err := storage.Migrator()
			if err != nil {
				return err
			}
			defer m.Close()
			cmd.Println("Rolling back migrations...")
			if err := m.Down(); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "roll back migrations").Wrap(err)
			}
			cmd.Println("Rollback completed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back every migration (drops all identities)")
	return cmd
}
