package notebook

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/pkg/errors"
)

// Figure is an image a cell returns as its value, typically produced by the
// viz package. Name is the asset file stem; PNG holds the encoded image.
type Figure struct {
	Name string
	PNG  []byte
}

type renderConfig struct {
	assetDir      string
	showDurations bool
}

// RenderOption configures RenderMarkdown.
type RenderOption func(*renderConfig)

// WithAssetDir writes figures as PNG files into dir and links them from the
// document. Without it figures are noted inline and nothing touches disk.
func WithAssetDir(dir string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.assetDir = dir
	}
}

// WithDurations appends each code cell's wall time to its section. Off by
// default so two renders of the same report are byte-identical.
func WithDurations() RenderOption {
	return func(cfg *renderConfig) {
		cfg.showDurations = true
	}
}

// RenderMarkdown writes the report as a markdown document: prose cells
// verbatim, code cells as fenced Go listings followed by their captured
// output, final values pretty-printed, errors as a bold error block and
// skipped cells marked as such. The document reads top to bottom exactly as
// the run happened.
func RenderMarkdown(w io.Writer, report *Report, opts ...RenderOption) error {
	if report == nil || report.Doc == nil {
		return errors.NewValueError("RenderMarkdown", "report must carry a document")
	}
	if len(report.Results) != len(report.Doc.Cells) {
		return errors.NewValueError("RenderMarkdown", "report does not match its document")
	}
	cfg := renderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	mw := &markdownWriter{w: w}
	if report.Doc.Title != "" {
		mw.printf("# %s\n\n", report.Doc.Title)
	}
	for i := range report.Doc.Cells {
		cell := &report.Doc.Cells[i]
		switch cell.Kind {
		case KindMarkdown:
			mw.printf("%s\n\n", strings.TrimRight(cell.Text, "\n"))
		case KindCode:
			renderCode(mw, &cfg, cell, &report.Results[i])
		}
	}
	return mw.err
}

func renderCode(mw *markdownWriter, cfg *renderConfig, cell *Cell, result *CellResult) {
	mw.printf("```go\n%s\n```\n\n", strings.TrimRight(cell.Source, "\n"))

	if result.Skipped {
		mw.printf("_Skipped: an earlier cell failed._\n\n")
		return
	}
	if result.Output != "" {
		output := result.Output
		if !strings.HasSuffix(output, "\n") {
			output += "\n"
		}
		mw.printf("```text\n%s```\n\n", output)
	}
	if result.Err != nil {
		mw.printf("**Error:**\n\n```text\n%s\n```\n\n", result.Err.Error())
		return
	}
	renderValue(mw, cfg, cell, result.Value)
	if cfg.showDurations {
		mw.printf("_Completed in %dms._\n\n", result.Duration.Milliseconds())
	}
}

func renderValue(mw *markdownWriter, cfg *renderConfig, cell *Cell, value any) {
	switch v := value.(type) {
	case nil:
		return
	case Figure:
		renderFigure(mw, cfg, cell, &v)
	case *Figure:
		if v != nil {
			renderFigure(mw, cfg, cell, v)
		}
	default:
		if text, ok := formatValue(value); ok {
			mw.printf("**Out:**\n\n```text\n%s\n```\n\n", text)
		}
	}
}

func renderFigure(mw *markdownWriter, cfg *renderConfig, cell *Cell, fig *Figure) {
	name := fig.Name
	if name == "" {
		name = "cell-" + cell.Name
	}
	if cfg.assetDir == "" {
		mw.printf("_Figure `%s` not written: no asset directory configured._\n\n", name)
		return
	}
	if mw.err != nil {
		return
	}
	if err := os.MkdirAll(cfg.assetDir, 0o755); err != nil {
		mw.err = errors.Wrapf(err, "mltour: create asset directory %q", cfg.assetDir)
		return
	}
	file := filepath.Join(cfg.assetDir, name+".png")
	if err := os.WriteFile(file, fig.PNG, 0o644); err != nil {
		mw.err = errors.Wrapf(err, "mltour: write figure %q", name)
		return
	}
	link := path.Join(filepath.ToSlash(cfg.assetDir), name+".png")
	mw.printf("![%s](%s)\n\n", name, link)
}

// formatValue renders a cell value as plain text. Maps print one sorted
// "key: value" line per entry so the same report always renders the same
// bytes; matrices go through gonum's aligned formatter.
func formatValue(value any) (string, bool) {
	switch v := value.(type) {
	case mat.Matrix:
		return fmt.Sprintf("%v", mat.Formatted(v, mat.Squeeze())), true
	case map[string]any:
		if len(v) == 0 {
			return "", false
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		lines := make([]string, len(keys))
		for i, key := range keys {
			lines[i] = fmt.Sprintf("%s: %v", key, v[key])
		}
		return strings.Join(lines, "\n"), true
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprintf("%v", value), true
	}
}

// markdownWriter keeps the first write error and drops everything after it.
type markdownWriter struct {
	w   io.Writer
	err error
}

func (mw *markdownWriter) printf(format string, args ...any) {
	if mw.err != nil {
		return
	}
	_, mw.err = fmt.Fprintf(mw.w, format, args...)
}
