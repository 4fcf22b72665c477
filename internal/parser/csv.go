package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVExtractor handles tabular transcript exports, the
// timestamp/speaker/text shape Zoom and Otter produce.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(r io.Reader, _ string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	speaker, text := transcriptColumns(rows[0])
	var lines []string
	if text >= 0 {
		for _, row := range rows[1:] {
			if text >= len(row) {
				continue
			}
			line := strings.TrimSpace(row[text])
			if line == "" {
				continue
			}
			if speaker >= 0 && speaker < len(row) {
				if name := strings.TrimSpace(row[speaker]); name != "" {
					line = name + ": " + line
				}
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n"), nil
	}

	// No recognizable header: treat every cell as dialogue.
	for _, row := range rows {
		if line := strings.TrimSpace(strings.Join(row, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// transcriptColumns finds the speaker and dialogue columns in a header
// row, returning -1 for one it cannot identify.
func transcriptColumns(header []string) (speaker, text int) {
	speaker, text = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "speaker", "name", "participant":
			if speaker < 0 {
				speaker = i
			}
		case "text", "dialogue", "transcript", "content":
			if text < 0 {
				text = i
			}
		}
	}
	return speaker, text
}
