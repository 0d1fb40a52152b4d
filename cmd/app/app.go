package main

import (
	"os"

	"github.com/DRSN-tech/store/internal/app"
	config "github.com/DRSN-tech/store/internal/cfg"
	"github.com/DRSN-tech/store/pkg/logger"
	"github.com/spf13/cobra"
)

//	@title			Store API
//	@version		1.0
//	@description	CRUD-сервис товаров.
//	@host			localhost:8080
//	@BasePath		/api/v1
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "store",
		Short:         "Product store service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional env file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start HTTP and gRPC servers (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd, envFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply PostgreSQL migrations and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd, envFile)
			},
		},
	)

	return root
}

func serve(cmd *cobra.Command, envFile string) error {
	log, cfg, err := setup(envFile)
	if err != nil {
		return err
	}

	application, err := app.NewApp(cmd.Context(), cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		return err
	}

	return application.Run()
}

func migrate(cmd *cobra.Command, envFile string) error {
	log, cfg, err := setup(envFile)
	if err != nil {
		return err
	}

	if err := app.Migrate(cmd.Context(), cfg, log); err != nil {
		log.Errorf(err, "failed to run migrations")
		return err
	}

	return nil
}

func setup(envFile string) (*logger.SlogLogger, *config.Config, error) {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log, envFile)
	if err != nil {
		log.Errorf(err, "failed to load config")
		return nil, nil, err
	}

	if err := log.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warnf("%v, falling back to info", err)
	}

	return log, cfg, nil
}
