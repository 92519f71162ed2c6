package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// rendererFor maps an output format name to its renderer and file extension.
func rendererFor(format string) (Renderer, string, error) {
	switch format {
	case "json", "":
		return &JSONRenderer{}, "json", nil
	case "markdown", "md":
		return &MarkdownRenderer{}, "md", nil
	default:
		return nil, "", fmt.Errorf("unknown report format %q (want json or markdown)", format)
	}
}

// Write renders r in the given format and writes it into dir, returning the
// path of the created file. The filename is derived from the task and
// attempt so repeated runs do not overwrite each other.
func Write(dir, format string, r *CallReport) (string, error) {
	renderer, ext, err := rendererFor(format)
	if err != nil {
		return "", err
	}

	data, err := renderer.Render(r)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	name := fmt.Sprintf("report-%s-attempt%d-%s.%s",
		r.Session.TaskID,
		r.Session.AttemptNumber,
		r.Session.EndedAt.Format("20060102-150405"),
		ext,
	)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Read loads a report file in either format, sniffing JSON by its first
// non-space byte.
func Read(path string) (*CallReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var parser Parser = &MarkdownParser{}
	for _, b := range data {
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		if b == '{' {
			parser = &JSONParser{}
		}
		break
	}
	return parser.Parse(data)
}
