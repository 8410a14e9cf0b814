package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/thomas-vilte/repograde/internal/cache"
	"github.com/thomas-vilte/repograde/internal/commands/analyze"
	"github.com/thomas-vilte/repograde/internal/commands/batch"
	"github.com/thomas-vilte/repograde/internal/commands/config"
	"github.com/thomas-vilte/repograde/internal/commands/pipeline"
	"github.com/thomas-vilte/repograde/internal/commands/registry"
	"github.com/thomas-vilte/repograde/internal/commands/serve"
	cfg "github.com/thomas-vilte/repograde/internal/config"
	"github.com/thomas-vilte/repograde/internal/i18n"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/providers"
	"github.com/thomas-vilte/repograde/internal/ui"
	"github.com/thomas-vilte/repograde/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("Error starting repograde: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(err, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("could not get the user home directory: %w", err)
	}

	cfgApp, err := cfg.LoadConfig(homeDir)
	if err != nil {
		return nil, nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading translations: %w", err)
	}

	// One store per process, so repeated analyses of a repository skip the host.
	store, err := cache.New(cfgApp.Cache.MaxEntries)
	if err != nil {
		return nil, nil, err
	}
	newAnalyzer := func(ctx context.Context) (pipeline.Analyzer, error) {
		svc, err := providers.NewAnalysisService(ctx, cfgApp, store)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	if err := registerCommand.Register("analyze", analyze.NewAnalyzeCommandFactory(newAnalyzer)); err != nil {
		return nil, nil, err
	}
	if err := registerCommand.Register("batch", batch.NewBatchCommandFactory(newAnalyzer)); err != nil {
		return nil, nil, err
	}
	if err := registerCommand.Register("serve", serve.NewServeCommandFactory(newAnalyzer)); err != nil {
		return nil, nil, err
	}
	if err := registerCommand.Register("config", config.NewConfigCommandFactory()); err != nil {
		return nil, nil, err
	}

	return &cli.Command{
		Name:    "repograde",
		Usage:   translations.GetMessage("app.usage", 0, nil),
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("app.flag_debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: translations.GetMessage("app.flag_verbose", 0, nil),
			},
			&cli.StringFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Usage:   translations.GetMessage("app.flag_lang", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))

			if lang := cmd.String("lang"); lang != "" {
				lang = cfg.GetLocaleConfig(lang)
				cfgApp.Language = lang
				if err := translations.SetLanguage(lang); err != nil {
					return ctx, err
				}
			}
			return ctx, nil
		},
		Commands: registerCommand.CreateCommands(),
	}, translations, nil
}
