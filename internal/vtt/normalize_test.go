package vtt

import (
	"strings"
	"testing"
)

func TestNormalizeDropsTimingAndStutter(t *testing.T) {
	got := Normalize("00:00:01.000 --> 00:00:02.000\nHello hello world.\n")
	if got != "Hello world." {
		t.Fatalf("expected %q, got %q", "Hello world.", got)
	}
}

func TestNormalizeUnwrapsVoiceTag(t *testing.T) {
	got := Normalize("<v John>Hi there.</v>")
	if got != "Hi there." {
		t.Fatalf("expected %q, got %q", "Hi there.", got)
	}
}

func TestNormalizeFullDocument(t *testing.T) {
	doc := strings.Join([]string{
		"WEBVTT",
		"",
		"59a00a3f-6f3a-4e9e-b2c4-01ab2cd30000/19-0",
		"00:00:01.000 --> 00:00:03.500",
		"<v Dana Smith>so the the login page needs a reset link.</v>",
		"",
		"59a00a3f-6f3a-4e9e-b2c4-01ab2cd30000/20-0",
		"00:00:03.600 --> 00:00:06.000",
		"<v Priya Patel>agreed , and it should expire after an hour.</v>",
		"",
	}, "\n")

	want := "So the login page needs a reset link. Agreed, and it should expire after an hour."
	if got := Normalize(doc); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNormalizeHeaderVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare header", "WEBVTT\n\nHi.", "Hi."},
		{"header with note", "WEBVTT - This file has cues\n\nHi.", "Hi."},
		{"header with tab", "WEBVTT\tKind: captions\n\nHi.", "Hi."},
		{"bom before header", "\uFEFFWEBVTT\n\nHi.", "Hi."},
		{"crlf line endings", "WEBVTT\r\n\r\n00:00:00.000 --> 00:00:01.000\r\nHi there.\r\n", "Hi there."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeCueIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"uuid identifier dropped",
			"8e6e32f1-4c1a-45a9-9f00-77aa01020304\nActual words here.",
			"Actual words here.",
		},
		{
			// The id heuristic counts hyphens, so hyphen-heavy dialogue
			// on its own line is lost too.
			"hyphen heavy line dropped",
			"one - two - three - four",
			"",
		},
		{
			"two hyphens kept",
			"a well-known, so-called fact.",
			"A well-known, so-called fact.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeVoiceTagEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unterminated tag contributes nothing", "<v John>half a thought", ""},
		{"only first span on a line", "<v A>first.</v> <v B>second.</v>", "First."},
		{"speaker with spaces", "<v Dana Smith>morning all.</v>", "Morning all."},
		{"tag without space is stripped inline", "<v>loose markup.", "Loose markup."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeLeavesNoMarkup(t *testing.T) {
	docs := []string{
		"WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n<v Ann><i>quietly</i> hello.</v>",
		"00:00:01.000 --> 00:00:02.000\n<c.yellow>warning</c> noted.",
		"WEBVTT\n\nNOTE internal\n\n00:01:00.000 --> 00:01:04.000\nplain line.",
	}
	for _, doc := range docs {
		got := Normalize(doc)
		if strings.Contains(got, "<") || strings.Contains(got, ">") {
			t.Fatalf("markup survived normalization: %q", got)
		}
		if strings.Contains(got, timingArrow) {
			t.Fatalf("timing arrow survived normalization: %q", got)
		}
		if strings.Contains(got, header) {
			t.Fatalf("header survived normalization: %q", got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	docs := []string{
		"WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n<v Jo>so so we we agreed , right ?</v>",
		"first. second sentence here. third x.",
		"Um... so that's the the plan!? great.",
		"",
	}
	for _, doc := range docs {
		once := Normalize(doc)
		twice := Normalize(once)
		if twice != once {
			t.Fatalf("normalizer not idempotent:\n once: %q\ntwice: %q", once, twice)
		}
	}
}

func TestCleanPunctuationSpacing(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello ,world .next", "Hello, world. Next"},
		{"wait !", "Wait!"},
		{"a.b.c", "A. B. C"},
		{"no change needed.", "No change needed."},
	}
	for _, tt := range tests {
		if got := Clean(tt.input); got != tt.want {
			t.Fatalf("Clean(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestCleanCollapsesRepeats(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello hello world.", "Hello world."},
		{"the the the plan", "The plan"},
		{"very, very good", "Very, very good"},
		{"bye. bye now", "Bye. Bye now"},
		{"THE the difference", "THE difference"},
	}
	for _, tt := range tests {
		if got := Clean(tt.input); got != tt.want {
			t.Fatalf("Clean(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"Um... so yeah",
		"wait!? really",
		"a.b.c",
		"hello  hello   world .",
		"tabs\tand\nnewlines",
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Fatalf("Clean(%q) not idempotent:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestIsTranscript(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"webvtt header", "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi.", true},
		{"header only", "WEBVTT", true},
		{"bom then header", "\uFEFFWEBVTT\n", true},
		{"arrow without header", "1\n00:00:01,000 --> 00:00:02,000\nHi.", true},
		{"plain prose", "We met on Tuesday to discuss the roadmap.", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTranscript(tt.content); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
