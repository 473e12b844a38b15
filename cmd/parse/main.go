// Command parse reads extracted document text from a file or stdin and
// prints the parsed document as JSON. An optional positions file carries
// the per-row token coordinates produced by the text extraction layer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alfierilab/ddtft/internal/domain/document"
	"github.com/alfierilab/ddtft/internal/domain/parse"
	"github.com/alfierilab/ddtft/pkg/config"
	"github.com/alfierilab/ddtft/pkg/money"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		positionsPath = flag.String("positions", "", "JSON file with positioned token rows")
		fileName      = flag.String("name", "", "original file name (used as a classification hint)")
		verbose       = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		return err
	}
	if err := deps.Scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer deps.Scheduler.Stop()

	in := parse.Input{FileName: *fileName}

	switch flag.NArg() {
	case 0:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		in.Text = string(data)
	case 1:
		path := flag.Arg(0)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		in.Text = string(data)
		if in.FileName == "" {
			in.FileName = filepath.Base(path)
		}
	default:
		return fmt.Errorf("expected at most one input file, got %d", flag.NArg())
	}

	if *positionsPath != "" {
		data, err := os.ReadFile(*positionsPath)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		var rows [][]document.PositionedToken
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("decode positions: %w", err)
		}
		in.Positions = rows
	}

	doc, err := deps.ParseService.Parse(context.Background(), in)
	if err != nil {
		return err
	}

	logger.Info("document parsed",
		slog.String("kind", doc.Kind.String()),
		slog.String("number", doc.Number),
		slog.String("client", doc.Client.CanonicalName),
		slog.String("total", money.FormatEUR(doc.Total)),
		slog.Int("items", len(doc.Items)),
		slog.Int("warnings", len(doc.Warnings)),
	)

	if deps.Archive != nil {
		if _, err := deps.Archive.Store(context.Background(), doc); err != nil {
			logger.Warn("failed to archive document", slog.Any("error", err))
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
