package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thomas-vilte/repograde/internal/commands/pipeline"
	"github.com/thomas-vilte/repograde/internal/config"
	"github.com/thomas-vilte/repograde/internal/i18n"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/server"
	"github.com/thomas-vilte/repograde/internal/ui"
	"github.com/urfave/cli/v3"
)

type ServeCommandFactory struct {
	newAnalyzer pipeline.Factory
}

func NewServeCommandFactory(newAnalyzer pipeline.Factory) *ServeCommandFactory {
	return &ServeCommandFactory{newAnalyzer: newAnalyzer}
}

func (f *ServeCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("serve.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Value:   cfg.Server.Addr,
				Usage:   t.GetMessage("serve.flag_addr", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger.InitializeJSON(cmd.Root().ErrWriter, cmd.Bool("debug"), cmd.Bool("verbose"))

			analyzer, err := f.newAnalyzer(ctx)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := cmd.String("addr")
			ui.PrintInfo(cmd.Root().Writer, t.GetMessage("serve.listening", 0, map[string]interface{}{"Addr": addr}))

			if err := server.Run(ctx, addr, server.NewRouter(analyzer)); err != nil {
				return err
			}

			ui.PrintInfo(cmd.Root().Writer, t.GetMessage("serve.stopped", 0, nil))
			return nil
		},
	}
}
