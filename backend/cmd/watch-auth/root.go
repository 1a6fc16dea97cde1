package main

import (
	"github.com/spf13/cobra"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/config"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/logger"
)

var configFolder string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch-auth",
		Short: "Credential service: registration and login",
		Long: `watch-auth registers identities and authenticates them, issuing
signed access tokens. Operations are served as NATS request/reply
subjects (auth_store, auth_login) and over HTTP.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadConfig reads the config folder and applies its logging settings.
func loadConfig() *config.Config {
	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.Json)
	return cfg
}
