// Package vtt turns WebVTT subtitle documents into readable dialogue text.
//
// Meeting platforms export transcripts as .vtt files: a WEBVTT magic line,
// then cues made of an optional identifier line, a timing line and one or
// more payload lines, usually wrapped in <v Speaker> voice tags. Normalize
// throws away everything except the spoken words and polishes the result
// into a single paragraph suitable for prompting or reading.
package vtt

import (
	"regexp"
	"strings"
)

const (
	header      = "WEBVTT"
	timingArrow = "-->"
	voiceOpen   = "<v "
	bom         = "\uFEFF"
)

var (
	// voiceTag captures the payload of the first voice span on a line.
	voiceTag = regexp.MustCompile(`<v[^>]*>(.*?)</v>`)
	// anyTag matches leftover angle-bracket markup (<i>, <c.color>, …).
	anyTag = regexp.MustCompile(`<[^>]*>`)

	spaces      = regexp.MustCompile(`\s+`)
	spacedPunct = regexp.MustCompile(`\s+([.,!?;:])`)
	packedPunct = regexp.MustCompile(`([.,!?;:])(\S)`)
	words       = regexp.MustCompile(`\w+`)
	sentence    = regexp.MustCompile(`\. [a-z]`)
)

// IsTranscript reports whether content looks like WebVTT: it starts with
// the WEBVTT magic or carries a cue timing arrow anywhere.
func IsTranscript(content string) bool {
	head := strings.TrimSpace(strings.TrimPrefix(content, bom))
	return strings.HasPrefix(head, header) || strings.Contains(content, timingArrow)
}

// Normalize strips the WebVTT scaffolding from a document and returns the
// dialogue as one cleaned string. It never fails: malformed input degrades
// to best-effort text, possibly empty.
func Normalize(raw string) string {
	lines := strings.Split(strings.TrimPrefix(raw, bom), "\n")
	dialogue := make([]string, 0, len(lines))
	for _, l := range lines {
		line := strings.TrimSpace(l)
		switch {
		case line == "" || isHeader(line):
			// blank separators and the file magic carry no dialogue
		case isCueIdentifier(line):
		case strings.Contains(line, timingArrow):
		case strings.HasPrefix(line, voiceOpen):
			if m := voiceTag.FindStringSubmatch(line); m != nil {
				dialogue = append(dialogue, m[1])
			}
		default:
			dialogue = append(dialogue, line)
		}
	}
	return Clean(strings.Join(dialogue, " "))
}

// isHeader matches the WEBVTT magic line. The format allows trailing text
// after the token ("WEBVTT - This file has cues").
func isHeader(line string) bool {
	if !strings.HasPrefix(line, header) {
		return false
	}
	rest := line[len(header):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// isCueIdentifier reports whether a line looks like a cue identifier. Teams
// and Zoom emit UUID-shaped ids ("59a00a3f-…-…-…/19-0"), so anything with
// three or more hyphens is treated as an id. Over-eager for hyphen-happy
// dialogue, but cue payloads rarely look like that and ids outnumber them.
func isCueIdentifier(line string) bool {
	return strings.Count(line, "-") >= 3
}

// Clean polishes already-assembled dialogue text: markup stripped,
// whitespace and punctuation spacing repaired, stuttered words collapsed,
// sentence starts capitalized. Clean is idempotent.
func Clean(s string) string {
	s = anyTag.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(s, " ")
	s = spacedPunct.ReplaceAllString(s, "$1")
	s = packedPunct.ReplaceAllString(s, "$1 $2")
	s = collapseRepeats(s)
	s = capitalize(s)
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// collapseRepeats drops the second of two identical adjacent words, the
// live-caption stutter ("the the", "Hello hello"). Matching is
// case-insensitive and keeps the first spelling; words separated by
// anything but whitespace ("very, very") are left alone.
func collapseRepeats(s string) string {
	matches := words.FindAllStringIndex(s, -1)
	if len(matches) < 2 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	pos := 0
	prev := ""
	for _, m := range matches {
		word := s[m[0]:m[1]]
		gap := s[pos:m[0]]
		if prev != "" && gap != "" && strings.TrimSpace(gap) == "" && strings.EqualFold(word, prev) {
			pos = m[1]
			continue
		}
		b.WriteString(gap)
		b.WriteString(word)
		pos = m[1]
		prev = word
	}
	b.WriteString(s[pos:])
	return b.String()
}

// capitalize upper-cases the first character and any letter following a
// sentence boundary (". x"). ASCII only; the upstream exports are English.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		s = strings.ToUpper(s[:1]) + s[1:]
	}
	return sentence.ReplaceAllStringFunc(s, func(m string) string {
		return m[:2] + strings.ToUpper(m[2:])
	})
}
