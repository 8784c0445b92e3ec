// Command mltour runs the machine learning tour and renders it as markdown.
//
// Usage:
//
//	mltour [-config file.yaml] [-o out.md] [-assets dir] [-log-level level] [-list]
//
// The course document is built in memory, executed cell by cell and the
// rendered markdown is written to stdout or the -o file. Figures land as PNG
// files under the -assets directory when one is given. A YAML config file can
// set the same options as the flags; explicit flags win. -list prints the
// cells without executing anything. When a cell fails the partial render is
// still written and the process exits nonzero. SIGINT cancels between cells.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"gopkg.in/yaml.v2"

	"github.com/mltour/mltour/lessons"
	"github.com/mltour/mltour/notebook"
	"github.com/mltour/mltour/pkg/errors"
	"github.com/mltour/mltour/pkg/log"
)

// config mirrors the command line flags so runs can be scripted from a file.
type config struct {
	Output   string `yaml:"output"`
	Assets   string `yaml:"assets"`
	LogLevel string `yaml:"log_level"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("mltour", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "YAML config file mirroring the flags")
		output     = fs.String("o", "", "write rendered markdown to this file instead of stdout")
		assets     = fs.String("assets", "", "directory to write figure PNGs into")
		logLevel   = fs.String("log-level", "info", "log level: debug, info, warn or error")
		list       = fs.Bool("list", false, "print cell names and kinds without executing")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mltour: %v\n", err)
			return 2
		}
		applyConfig(fs, cfg, output, assets, logLevel)
	}

	if !log.ValidLogLevel(*logLevel) {
		fmt.Fprintf(os.Stderr, "mltour: invalid log level %q (want debug, info, warn or error)\n", *logLevel)
		return 2
	}
	logger := log.NewConsoleLogger(log.Level(log.ToLogLevel(*logLevel)))
	log.InstallWarningBridge(logger)

	doc := lessons.NewCourse()

	if *list {
		listCells(stdout, doc)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := notebook.NewRunner(notebook.WithLogger(logger))
	report, runErr := runner.Run(ctx, doc)
	if runErr != nil {
		logger.Error("run stopped", runErr, log.DocTitleKey, doc.Title)
	}
	if report == nil {
		return 1
	}

	var opts []notebook.RenderOption
	if *assets != "" {
		opts = append(opts, notebook.WithAssetDir(*assets))
	}
	if err := writeRender(*output, stdout, report, opts...); err != nil {
		logger.Error("render failed", err, log.DocTitleKey, doc.Title)
		return 1
	}
	if runErr != nil {
		return 1
	}
	return 0
}

// loadConfig reads a YAML options file.
func loadConfig(path string) (*config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var cfg config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return &cfg, nil
}

// applyConfig fills in options from the config file. Flags given on the
// command line keep their values.
func applyConfig(fs *flag.FlagSet, cfg *config, output, assets, logLevel *string) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["o"] && cfg.Output != "" {
		*output = cfg.Output
	}
	if !set["assets"] && cfg.Assets != "" {
		*assets = cfg.Assets
	}
	if !set["log-level"] && cfg.LogLevel != "" {
		*logLevel = cfg.LogLevel
	}
}

// listCells prints one line per cell: index, kind and name.
func listCells(w io.Writer, doc *notebook.Document) {
	fmt.Fprintf(w, "%s\n", doc.Title)
	for i := range doc.Cells {
		cell := &doc.Cells[i]
		name := cell.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%3d  %-8s  %s\n", i, cell.Kind, name)
	}
}

// writeRender renders the report to the named file, or to stdout when path is
// empty. File output is buffered so a render error never leaves a truncated
// file behind.
func writeRender(path string, stdout io.Writer, report *notebook.Report, opts ...notebook.RenderOption) error {
	if path == "" {
		return notebook.RenderMarkdown(stdout, report, opts...)
	}
	var buf bytes.Buffer
	if err := notebook.RenderMarkdown(&buf, report, opts...); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
