package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/thomas-vilte/repograde/internal/commands/pipeline"
	"github.com/thomas-vilte/repograde/internal/config"
	"github.com/thomas-vilte/repograde/internal/i18n"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 3

// Item is the outcome of one repository in a batch. Exactly one of Result and Error is set.
type Item struct {
	RepoURL string                 `json:"repoUrl" yaml:"repoUrl"`
	Result  *models.AnalysisResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error   string                 `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

type BatchCommandFactory struct {
	newAnalyzer pipeline.Factory
}

func NewBatchCommandFactory(newAnalyzer pipeline.Factory) *BatchCommandFactory {
	return &BatchCommandFactory{newAnalyzer: newAnalyzer}
}

func (f *BatchCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Aliases:   []string{"b"},
		Usage:     t.GetMessage("batch.usage", 0, nil),
		ArgsUsage: "[repository-url...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: t.GetMessage("batch.flag_file", 0, nil),
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Value:   defaultConcurrency,
				Usage:   t.GetMessage("batch.flag_concurrency", 0, nil),
			},
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

func (f *BatchCommandFactory) createAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		format, ok := pipeline.ParseFormat(cmd.String("format"))
		if !ok {
			return errors.New(t.GetMessage("analyze.error_invalid_format", 0, map[string]interface{}{
				"Format": cmd.String("format"),
			}))
		}

		urls := cmd.Args().Slice()
		if path := cmd.String("file"); path != "" {
			fromFile, err := readURLFile(path)
			if err != nil {
				return errors.New(t.GetMessage("batch.error_reading_file", 0, map[string]interface{}{
					"Error": err.Error(),
				}))
			}
			urls = append(urls, fromFile...)
		}
		if len(urls) == 0 {
			return errors.New(t.GetMessage("batch.error_no_urls", 0, nil))
		}

		analyzer, err := f.newAnalyzer(ctx)
		if err != nil {
			return err
		}

		concurrency := int(cmd.Int("concurrency"))
		if concurrency < 1 {
			concurrency = 1
		}

		bar := pb.New(len(urls))
		bar.SetTemplate(pb.Simple)
		bar.SetWriter(cmd.Root().ErrWriter)
		bar.Start()
		items := Run(ctx, analyzer, urls, concurrency, func() { bar.Increment() })
		bar.Finish()

		return report(cmd.Root().Writer, cmd.Root().ErrWriter, format, items, t)
	}
}

// Run analyzes every URL with at most concurrency analyses in flight. Results keep the input order
// and one failure never cancels the others. done is called once per finished URL.
func Run(ctx context.Context, analyzer pipeline.Analyzer, urls []string, concurrency int, done func()) []Item {
	log := logger.FromContext(ctx)
	items := make([]Item, len(urls))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, url := range urls {
		g.Go(func() error {
			result, err := analyzer.AnalyzeRepository(gctx, url, nil)
			items[i] = Item{RepoURL: url, Result: result, err: err}
			if err != nil {
				items[i].Result = nil
				items[i].Error = err.Error()
				log.Warn("batch item failed", "url", url, "error", err)
			}
			if done != nil {
				mu.Lock()
				done()
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func report(out, errOut io.Writer, format pipeline.Format, items []Item, t *i18n.Translations) error {
	var failed []Item
	for _, item := range items {
		if item.err != nil {
			failed = append(failed, item)
		}
	}

	if format == pipeline.FormatText {
		for _, item := range items {
			if item.Result != nil {
				ui.PrintReport(out, item.Result, t)
			}
		}
	} else if err := pipeline.Encode(out, format, items); err != nil {
		return err
	}

	for _, item := range failed {
		ui.PrintError(errOut, t.GetMessage("batch.failed_item", 0, map[string]interface{}{
			"URL":   item.RepoURL,
			"Error": item.err.Error(),
		}))
	}

	succeeded := len(items) - len(failed)
	summary := t.GetMessage("batch.summary", len(items), map[string]interface{}{
		"Succeeded": succeeded,
		"Count":     len(items),
	})
	if len(failed) > 0 {
		ui.PrintWarning(errOut, summary)
		return fmt.Errorf("%d of %d analyses failed", len(failed), len(items))
	}
	ui.PrintSuccess(errOut, summary)
	return nil
}

// readURLFile reads one URL per line, skipping blank lines and # comments.
func readURLFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
