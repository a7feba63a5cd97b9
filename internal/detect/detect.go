// Package detect flags grammar, vocabulary and fluency errors in learner
// text using a fixed pattern table plus two heuristics. The output is a
// list of located spans; the detector never mutates or stores anything.
package detect

import (
	"regexp"
	"strings"

	"github.com/smarquez/linguaflash/internal/models"
)

// Span is one detected error before it is attached to a message.
type Span struct {
	Start         int
	End           int
	Category      models.ErrorCategory
	UserText      string
	CorrectedText string
	Note          string
}

type pattern struct {
	match      string
	correction string
	category   models.ErrorCategory
	note       string
}

var patterns = []pattern{
	{"i am agree", "I agree", models.CategoryGrammar, "Use 'agree' without the auxiliary verb."},
	{"peoples", "people", models.CategoryVocab, "The plural of person is 'people'."},
	{"more better", "better", models.CategoryGrammar, "Comparatives do not take 'more'."},
}

var (
	ageRe      = regexp.MustCompile(`\bi have (\d{1,2}) years\b`)
	sentenceRe = regexp.MustCompile(`[.!?]`)
)

// Errors returns every span detected in text, pattern matches first,
// then the fluency heuristic.
func Errors(text string) []Span {
	spans := patternErrors(text)
	spans = append(spans, fluencyErrors(text)...)
	return spans
}

func patternErrors(text string) []Span {
	lowered := strings.ToLower(text)
	var spans []Span
	for _, p := range patterns {
		from := 0
		for {
			idx := strings.Index(lowered[from:], p.match)
			if idx == -1 {
				break
			}
			start := from + idx
			end := start + len(p.match)
			spans = append(spans, Span{
				Start:         start,
				End:           end,
				Category:      p.category,
				UserText:      text[start:end],
				CorrectedText: p.correction,
				Note:          p.note,
			})
			from = end
		}
	}

	if m := ageRe.FindStringSubmatchIndex(lowered); m != nil {
		start, end := m[0], m[1]
		age := lowered[m[2]:m[3]]
		spans = append(spans, Span{
			Start:         start,
			End:           end,
			Category:      models.CategoryGrammar,
			UserText:      text[start:end],
			CorrectedText: "I am " + age + " years old",
			Note:          "Use the verb 'to be' to express age.",
		})
	}
	return spans
}

// fluencyErrors flags choppy phrasing: two or more sentences of at most
// three words mark the first short sentence as a fluency span.
func fluencyErrors(text string) []Span {
	var short []string
	for _, fragment := range sentenceRe.Split(text, -1) {
		s := strings.TrimSpace(fragment)
		if s == "" {
			continue
		}
		if len(strings.Fields(s)) <= 3 {
			short = append(short, s)
		}
	}
	if len(short) < 2 {
		return nil
	}
	start := strings.Index(text, short[0])
	return []Span{{
		Start:         start,
		End:           start + len(short[0]),
		Category:      models.CategoryFluency,
		UserText:      short[0],
		CorrectedText: "Combine short sentences for smoother speech.",
		Note:          "Multiple short utterances detected; try linking ideas.",
	}}
}
