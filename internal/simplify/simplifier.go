// Package simplify rewrites transcript text into short, deaf-accessible
// sentence chunks. Segmentation is the only transformation: word order and
// content are never changed.
package simplify

import (
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// DefaultMaxWords is the chunk limit used when callers pass a non-positive
// value.
const DefaultMaxWords = 15

const devanagariDanda = "।"

// Simplify breaks text into newline-separated chunks of at most maxWords
// words each. Empty or whitespace-only input yields "".
func Simplify(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	chunks := make([]string, 0)
	for _, sentence := range splitSentences(trimmed) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		words := strings.Fields(sentence)
		if len(words) <= maxWords {
			chunks = append(chunks, sentence)
			continue
		}

		for start := 0; start < len(words); start += maxWords {
			end := start + maxWords
			if end > len(words) {
				end = len(words)
			}
			chunks = append(chunks, strings.Join(words[start:end], " "))
		}
	}

	return strings.Join(chunks, "\n")
}

// splitSentences segments text into sentences. The primary splitter keys its
// terminator set off the detected script; when it produces a single run-on
// segment the fallback is a literal Devanagari danda split, then the whole
// input as one sentence.
func splitSentences(text string) []string {
	if segments := splitOnTerminators(text, terminatorsFor(text)); countNonEmpty(segments) > 1 {
		return segments
	}
	if segments := strings.Split(text, devanagariDanda); countNonEmpty(segments) > 1 {
		return segments
	}
	return []string{text}
}

// terminatorsFor picks sentence-final runes for the dominant script of the
// input. Devanagari text ends sentences with the danda rather than the
// period.
func terminatorsFor(text string) map[rune]bool {
	terminators := map[rune]bool{'.': true, '!': true, '?': true}

	info := whatlanggo.Detect(text)
	if info.Script == unicode.Devanagari {
		terminators['।'] = true
	}
	return terminators
}

// splitOnTerminators cuts after each terminator rune, keeping the terminator
// attached to its sentence. ASCII terminators only end a sentence before
// whitespace or end of input, so decimals and dotted abbreviations stay one
// word; the danda always ends one.
func splitOnTerminators(text string, terminators map[rune]bool) []string {
	runes := []rune(text)
	segments := make([]string, 0)
	var current strings.Builder

	for i, r := range runes {
		current.WriteRune(r)
		if !terminators[r] {
			continue
		}
		if r != '।' && i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		segments = append(segments, current.String())
		current.Reset()
	}
	if current.Len() > 0 {
		segments = append(segments, current.String())
	}
	return segments
}

func countNonEmpty(segments []string) int {
	n := 0
	for _, s := range segments {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}
