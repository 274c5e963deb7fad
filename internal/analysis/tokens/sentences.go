package tokens

import (
	"regexp"
	"strings"
)

var sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?]+)`)

// Sentences splits text into trimmed sentences. Trailing text without
// terminal punctuation forms a final sentence. Blank lines also end a
// sentence so that headings and list items are not glued together.
func Sentences(text string) []string {
	var out []string
	for _, para := range splitParagraphs(text) {
		matches := sentencePattern.FindAllStringIndex(para, -1)
		end := 0
		for _, m := range matches {
			out = appendSentence(out, para[m[0]:m[1]])
			end = m[1]
		}
		out = appendSentence(out, para[end:])
	}
	return out
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n\n")
}

func appendSentence(out []string, s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" || !hasWord(s) {
		return out
	}
	return append(out, s)
}

func hasWord(s string) bool {
	for _, r := range s {
		if r != '.' && r != '!' && r != '?' && r != ' ' {
			return true
		}
	}
	return false
}
