package config

import (
	"context"
	"fmt"
	"io"

	"github.com/thomas-vilte/repograde/internal/config"
	"github.com/thomas-vilte/repograde/internal/i18n"
	"github.com/thomas-vilte/repograde/internal/ui"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct{}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config.usage", 0, nil),
		Commands: []*cli.Command{
			c.newInitCommand(t, cfg),
			c.newShowCommand(t, cfg),
		},
	}
}

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config.init_usage", 0, nil),
		Action: func(_ context.Context, cmd *cli.Command) error {
			fresh := config.Default()
			fresh.PathFile = cfg.PathFile
			fresh.Language = cfg.Language

			if err := config.SaveConfig(fresh); err != nil {
				return err
			}

			ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("config.created", 0, map[string]interface{}{
				"Path": cfg.PathFile,
			}))
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(_ context.Context, cmd *cli.Command) error {
			printConfig(cmd.Root().Writer, cfg, t)
			return nil
		},
	}
}

func printConfig(w io.Writer, cfg *config.Config, t *i18n.Translations) {
	ui.PrintSectionBanner(w, t.GetMessage("config.current", 0, nil))

	missing := t.GetMessage("config.api_key_missing", 0, nil)
	apiKey := cfg.AIProviders[string(config.AIGemini)].APIKey

	ui.PrintKeyValue(w, t.GetMessage("config.path", 0, nil), cfg.PathFile)
	ui.PrintKeyValue(w, t.GetMessage("config.language", 0, nil), cfg.Language)
	ui.PrintKeyValue(w, t.GetMessage("config.model", 0, nil), fmt.Sprintf("%s / %s", cfg.AIConfig.ActiveAI, cfg.ActiveModel()))
	ui.PrintKeyValue(w, t.GetMessage("config.api_key", 0, nil), MaskSecret(apiKey, missing))
	ui.PrintKeyValue(w, t.GetMessage("config.github_token", 0, nil), MaskSecret(cfg.GitHub.Token, missing))
	ui.PrintKeyValue(w, t.GetMessage("config.timeouts", 0, nil),
		fmt.Sprintf("%s / %s", cfg.Timeouts.Fetch.Std(), cfg.Timeouts.Generation.Std()))
}

// MaskSecret keeps only the last four characters of a secret.
func MaskSecret(secret, missing string) string {
	if secret == "" {
		return missing
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
