package parser

import "io"

// TextExtractor handles .vtt and .txt files. The bytes already are the
// transcript; normalization happens downstream.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
