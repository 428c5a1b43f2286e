package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/lightsout/internal/config"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(config.Load().LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := rootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("lightsout exited")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	serve := serveCmd()
	root := &cobra.Command{
		Use:           "lightsout",
		Short:         "Lights Out game server and terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		// bare invocation serves, matching how the server is deployed
		RunE: serve.RunE,
	}
	root.AddCommand(serve, playCmd(), solveCmd())
	return root
}
