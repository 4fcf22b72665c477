// Package parser pulls plain transcript text out of the file formats
// meeting transcripts arrive in. Each extractor flattens one format to
// text; Transcript then routes that text through the WebVTT normalizer or
// the plain-dialogue cleanup.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/joshuasparkes/transcription-to-stories/internal/vtt"
)

// Extractor converts raw file bytes into plain text.
type Extractor interface {
	Extract(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service accepts.
var SupportedExtensions = map[string]bool{
	".vtt":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".vtt", ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks whether a filename has a supported extension.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Transcript reads one file and returns normalized dialogue. WebVTT
// content goes through the full cue normalizer; everything else gets the
// same textual polish so downstream prompting sees a uniform shape.
func Transcript(r io.Reader, filename string) (string, error) {
	ex, err := ForFile(filename)
	if err != nil {
		return "", err
	}
	text, err := ex.Extract(r, filename)
	if err != nil {
		return "", err
	}
	if vtt.IsTranscript(text) {
		return vtt.Normalize(text), nil
	}
	return vtt.Clean(text), nil
}
