package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Parser deserializes a rendered report back into structured data.
type Parser interface {
	Parse(data []byte) (*CallReport, error)
}

// JSONParser parses a JSON-encoded CallReport.
type JSONParser struct{}

func (p *JSONParser) Parse(data []byte) (*CallReport, error) {
	var r CallReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse JSON report: %w", err)
	}
	return &r, nil
}

// MarkdownParser parses a Markdown-rendered CallReport by extracting the
// embedded base64 JSON payload from the sentinel comments.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(data []byte) (*CallReport, error) {
	content := string(data)

	// Require the version sentinel.
	if !strings.Contains(content, "<!-- opsim-report-version: 1 -->") {
		return nil, fmt.Errorf("not a valid call report: missing version sentinel")
	}

	// Extract the base64 payload from <!-- opsim-data: <base64> -->.
	const prefix = "<!-- opsim-data: "
	const suffix = " -->"
	start := strings.Index(content, prefix)
	if start == -1 {
		return nil, fmt.Errorf("not a valid call report: missing data payload")
	}
	start += len(prefix)
	end := strings.Index(content[start:], suffix)
	if end == -1 {
		return nil, fmt.Errorf("not a valid call report: malformed data payload")
	}
	encoded := content[start : start+end]

	jsonBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("not a valid call report: corrupted base64 payload: %w", err)
	}

	var r CallReport
	if err := json.Unmarshal(jsonBytes, &r); err != nil {
		return nil, fmt.Errorf("not a valid call report: failed to parse embedded JSON: %w", err)
	}

	return &r, nil
}
