// Package textstat computes prose statistics over plain text.
package textstat

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Stats describes a body of text. Averages are integer divisions.
type Stats struct {
	Words          int
	Chars          int
	Lines          int
	Paragraphs     int
	Sentences      int
	AvgWordLen     int
	AvgSentenceLen int
}

// Sentences end with a run of terminators followed by whitespace or
// end of text.
var sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)`)

// Analyze computes statistics for text. Empty input yields all zeros.
// Chars counts runes, including whitespace. A paragraph is a run of
// non-blank lines.
func Analyze(text string) Stats {
	if text == "" {
		return Stats{}
	}

	words := strings.Fields(text)

	st := Stats{
		Words: len(words),
		Chars: utf8.RuneCountInString(text),
		Lines: countLines(text),
	}

	lines := strings.Split(text, "\n")
	inParagraph := false
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			if !inParagraph {
				st.Paragraphs++
			}
			inParagraph = true
		} else {
			inParagraph = false
		}
	}

	for _, seg := range sentenceEnd.Split(text, -1) {
		if strings.TrimSpace(seg) != "" {
			st.Sentences++
		}
	}

	if st.Words > 0 {
		total := 0
		for _, w := range words {
			total += utf8.RuneCountInString(w)
		}
		st.AvgWordLen = total / st.Words
	}
	if st.Sentences > 0 {
		st.AvgSentenceLen = st.Words / st.Sentences
	}

	return st
}

// countLines counts newline-delimited lines without counting a phantom
// line after a trailing newline.
func countLines(text string) int {
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
