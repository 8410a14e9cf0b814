package analyze

import (
	"context"
	"errors"

	"github.com/thomas-vilte/repograde/internal/commands/pipeline"
	"github.com/thomas-vilte/repograde/internal/config"
	"github.com/thomas-vilte/repograde/internal/i18n"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/ui"
	"github.com/urfave/cli/v3"
)

type AnalyzeCommandFactory struct {
	newAnalyzer pipeline.Factory
}

func NewAnalyzeCommandFactory(newAnalyzer pipeline.Factory) *AnalyzeCommandFactory {
	return &AnalyzeCommandFactory{newAnalyzer: newAnalyzer}
}

func (f *AnalyzeCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     t.GetMessage("analyze.usage", 0, nil),
		ArgsUsage: "<repository-url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(pipeline.FormatText),
				Usage:   t.GetMessage("analyze.flag_format", 0, nil),
			},
		},
		Action: f.createAction(t),
	}
}

func (f *AnalyzeCommandFactory) createAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		format, ok := pipeline.ParseFormat(cmd.String("format"))
		if !ok {
			return errors.New(t.GetMessage("analyze.error_invalid_format", 0, map[string]interface{}{
				"Format": cmd.String("format"),
			}))
		}

		repoURL := cmd.Args().First()
		if repoURL == "" {
			return errors.New(t.GetMessage("analyze.error_missing_url", 0, nil))
		}

		analyzer, err := f.newAnalyzer(ctx)
		if err != nil {
			return err
		}

		out := cmd.Root().Writer
		log := logger.FromContext(ctx)
		log.Debug("analyze command started", "url", repoURL, "format", string(format))

		var progress func(models.ProgressEvent)
		var spinner *ui.SmartSpinner
		if format == pipeline.FormatText {
			spinner = ui.NewSmartSpinner(cmd.Root().ErrWriter, t.GetMessage("progress.fetching_content", 0, nil))
			progress = spinner.ProgressFunc(ProgressMessages(t))
			spinner.Start()
		}

		result, err := analyzer.AnalyzeRepository(ctx, repoURL, progress)
		if spinner != nil {
			if err != nil {
				spinner.Error(t.GetMessage("progress.failed", 0, nil))
			} else {
				spinner.Success(t.GetMessage("analyze.done", 0, nil))
			}
		}
		if err != nil {
			return err
		}

		if format == pipeline.FormatText {
			ui.PrintReport(out, result, t)
			return nil
		}
		return pipeline.Encode(out, format, result)
	}
}

// ProgressMessages are the spinner messages for each running pipeline state.
func ProgressMessages(t *i18n.Translations) ui.ProgressMessages {
	return ui.ProgressMessages{
		models.StateFetchingContent:     t.GetMessage("progress.fetching_content", 0, nil),
		models.StateAnalyzingDimensions: t.GetMessage("progress.analyzing_dimensions", 0, nil),
		models.StateGeneratingOutputs:   t.GetMessage("progress.generating_outputs", 0, nil),
	}
}
