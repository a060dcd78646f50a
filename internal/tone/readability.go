package tone

import (
	"strings"
	"unicode"
)

// GradeScorer computes a grade-level readability score for a text. ok=false
// means the metric is unavailable for this text, which the validator treats
// as a pass (fail-open).
type GradeScorer interface {
	Grade(text string) (grade float64, ok bool)
}

// FleschKincaid scores text with the Flesch-Kincaid grade-level formula.
type FleschKincaid struct{}

func (FleschKincaid) Grade(text string) (float64, bool) {
	words := splitWords(text)
	if len(words) == 0 {
		return 0, false
	}
	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}
	grade := 0.39*(float64(len(words))/float64(sentences)) +
		11.8*(float64(syllables)/float64(len(words))) - 15.59
	if grade < 0 {
		grade = 0
	}
	return grade, true
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	return count
}

// countSyllables approximates by counting vowel groups, dropping a trailing
// silent e.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
