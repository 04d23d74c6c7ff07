package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Nydauron/fms2tba/internal/config"
	"github.com/Nydauron/fms2tba/parsers"
	"github.com/Nydauron/fms2tba/prompts"
	"github.com/Nydauron/fms2tba/tba"
	"github.com/Nydauron/fms2tba/ui"
	"github.com/Nydauron/fms2tba/writers"
)

const (
	inputFlag     = "input"
	outputFlag    = "output"
	csvFlag       = "csv"
	yearFlag      = "year"
	eventFlag     = "event"
	formatFlag    = "format"
	previewFlag   = "preview"
	seasonsFlag   = "seasons"
	stdoutCLIName = "-"
)

const (
	exitFetch = iota + 2
	exitEncode
	exitParse
	exitConvert
)

var build string
var semanticVersion = "v0.1.0-dev" + build

type options struct {
	inputLocation string
	isCSV         bool
	year          int
	eventCode     string
	format        writers.Format
	preview       bool
	httpTimeout   time.Duration
}

func openInput(ctx context.Context, logger *slog.Logger, inputLocation string, timeout time.Duration) (io.ReadCloser, error) {
	if u, err := url.ParseRequestURI(inputLocation); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		logger.Info("URL detected", "url", u.String())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		client := &http.Client{Timeout: timeout}
		resp, err := client.Do(req)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("Error occurred when trying to fetch page: %v", err), exitFetch)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, cli.Exit(fmt.Sprintf("invalid HTTP status code received: %v", resp.Status), exitFetch)
		}
		contentType := resp.Header.Get("content-type")
		if !strings.HasPrefix(contentType, "text/html") && !strings.HasPrefix(contentType, "text/csv") {
			logger.Warn("unexpected content type for ranking report", "content_type", contentType)
		}
		return resp.Body, nil
	}
	if f, err := os.Open(inputLocation); err == nil {
		logger.Info("File detected", "path", inputLocation)
		return f, nil
	}
	return nil, fmt.Errorf("provided input was neither a valid URL or a path to existing file: %v", inputLocation)
}

func cliHandle(ctx context.Context, logger *slog.Logger, opts options, outputWriter io.Writer) error {
	input, err := openInput(ctx, logger, opts.inputLocation, opts.httpTimeout)
	if err != nil {
		return err
	}
	defer input.Close()

	var table *parsers.Table
	if opts.isCSV {
		table, err = parsers.ParseCSV(input)
	} else {
		table, err = parsers.ParseHTML(input)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Could not read ranking report: %v", err), exitParse)
	}
	logger.Debug("parsed ranking report", "teams", len(table.Records), "sort_columns", table.SortColumns)

	names, _ := tba.RankingNames(opts.year)
	if len(table.SortColumns) < len(names)-1 {
		logger.Warn("report has fewer sort columns than the season uses",
			"year", opts.year, "report_columns", len(table.SortColumns), "season_columns", len(names)-1)
	}

	payload, err := tba.NewRankingsUpdate(table.Records, opts.year)
	if err != nil {
		return cli.Exit(err.Error(), exitConvert)
	}
	payload.EventKey = tba.EventKey(opts.year, opts.eventCode)
	logger.Info("converted rankings", "event", payload.EventKey, "teams", len(payload.Rankings))

	if opts.preview {
		fmt.Fprintln(os.Stderr, ui.RenderRankings(payload))
	}

	if err := writers.EncodeRankings(outputWriter, opts.format, payload); err != nil {
		return cli.Exit(err.Error(), exitEncode)
	}
	return nil
}

// closeOutput closes the output file, if any. A close failure is only reported
// when the run itself succeeded.
func closeOutput(c io.Closer, runErr error) error {
	if c == nil {
		return runErr
	}
	if err := c.Close(); err != nil && runErr == nil {
		return cli.Exit(fmt.Sprintf("Writing output failed on close: %v", err), exitEncode)
	}
	return runErr
}

func newLogger(cfg config.Config) *slog.Logger {
	level, _ := cfg.Level()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newApp(cfg config.Config, prompter *prompts.Prompter) *cli.App {
	var inputLocation string
	var outputLocation = ""
	var isCSV = false
	return &cli.App{
		Name:    "fms2tba",
		Usage:   "A tool to turn FMS ranking reports into The Blue Alliance rankings",
		Version: semanticVersion,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        csvFlag,
				Usage:       "File passed in is a CSV rather than an HTML file",
				Destination: &isCSV,
			},
			&cli.StringFlag{
				Name:        inputFlag,
				Aliases:     []string{"i"},
				Usage:       "The URL or path to the ranking report to convert",
				Destination: &inputLocation,
			},
			&cli.StringFlag{
				Name:        outputFlag,
				Aliases:     []string{"o"},
				Usage:       "The location to write the result. Can be a file path or \"-\" (for stdout).",
				Value:       stdoutCLIName,
				Destination: &outputLocation,
			},
			&cli.IntFlag{
				Name:    yearFlag,
				Aliases: []string{"y"},
				Usage:   "Season year of the event (prompted when not set)",
				Value:   cfg.Year,
			},
			&cli.StringFlag{
				Name:    eventFlag,
				Aliases: []string{"e"},
				Usage:   "Event code, with or without the season year (prompted when not set)",
			},
			&cli.StringFlag{
				Name:  formatFlag,
				Usage: "Output format: json or yaml",
				Value: cfg.Format,
			},
			&cli.BoolFlag{
				Name:  previewFlag,
				Usage: "Print the converted rankings as a table on stderr",
			},
			&cli.BoolFlag{
				Name:  seasonsFlag,
				Usage: "List the supported seasons and their ranking columns, then exit",
			},
		},
		Action: func(cCtx *cli.Context) error {
			logger := newLogger(cfg)
			if cCtx.Bool(seasonsFlag) {
				fmt.Fprintln(cCtx.App.Writer, ui.RenderSeasons())
				return nil
			}
			if inputLocation == "" {
				return fmt.Errorf("input not set")
			}

			format, err := writers.ParseFormat(cCtx.String(formatFlag))
			if err != nil {
				return err
			}

			eventCode := cCtx.String(eventFlag)
			if eventCode == "" {
				if eventCode, err = prompter.EventCodePrompt(); err != nil {
					return fmt.Errorf("reading event code: %w", err)
				}
			} else if !tba.IsWellFormedEventCode(eventCode) {
				return fmt.Errorf("invalid event code %q: only letters and digits are allowed", eventCode)
			}

			year := cCtx.Int(yearFlag)
			if year == 0 {
				if year, err = prompter.SeasonYearPrompt(); err != nil {
					return fmt.Errorf("reading season year: %w", err)
				}
			} else if !tba.IsValidYear(year) {
				return cli.Exit((&tba.UnsupportedSeasonError{Year: year}).Error(), exitConvert)
			}

			var outputWriter io.Writer = os.Stdout
			var outputFile io.Closer
			if outputLocation != stdoutCLIName {
				lazy := writers.NewLazyFile(outputLocation)
				outputWriter, outputFile = lazy, lazy
			}

			err = cliHandle(cCtx.Context, logger, options{
				inputLocation: inputLocation,
				isCSV:         isCSV,
				year:          year,
				eventCode:     eventCode,
				format:        format,
				preview:       cCtx.Bool(previewFlag),
				httpTimeout:   cfg.HTTPTimeout,
			}, outputWriter)
			return closeOutput(outputFile, err)
		},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	app := newApp(cfg, prompts.Default())
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
