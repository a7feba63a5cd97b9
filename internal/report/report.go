// Package report computes the end-of-session study summary.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/smarquez/linguaflash/internal/models"
)

const maxExamples = 3

// Build derives a session report from its messages, detected errors and
// quiz attempts. The computation is pure: identical inputs yield an
// identical report, which the caller persists at most once per session.
func Build(topicLabel string, messages []models.Message, errSpans []models.ErrorSpan, attempts []models.QuizAttempt) models.Report {
	words := countWords(messages)
	accuracy := accuracyPct(words, len(errSpans))
	cefr := cefrFromAccuracy(accuracy)
	quiz := summarizeAttempts(attempts)

	var strengths, improvements []string
	if accuracy >= 80 {
		strengths = append(strengths, "High lexical accuracy across the session.")
	} else {
		improvements = append(improvements, "Focus on clarity by revising key corrections provided.")
	}

	counts := countCategories(errSpans)
	if counts.get(models.CategoryFluency) > 0 {
		improvements = append(improvements, "Link short sentences to improve fluency.")
	}
	for _, cat := range counts.mostCommon(2) {
		improvements = append(improvements, fmt.Sprintf("Revisit %s patterns shown in corrections.", cat))
	}
	improvements = dedupe(improvements)
	if len(improvements) == 0 {
		improvements = append(improvements, "Keep expanding vocabulary with targeted drills.")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Consistent effort detected.")
	}

	var examples []models.ReportExample
	for i, span := range errSpans {
		if i == maxExamples {
			break
		}
		examples = append(examples, models.ReportExample{
			Source: span.UserText,
			Target: span.CorrectedText,
			Note:   span.Note,
		})
	}

	summary := fmt.Sprintf(
		"You practiced %s and produced %d words with ~%s%% accuracy. Estimated CEFR: %s. Quiz score: %d/%d.",
		strings.ToLower(topicLabel), words, formatPct(accuracy), cefr, quiz.Correct, quiz.Total,
	)

	return models.Report{
		Summary:      summary,
		Words:        words,
		Errors:       len(errSpans),
		AccuracyPct:  accuracy,
		CEFREstimate: cefr,
		QuizSummary:  quiz,
		Strengths:    strengths,
		Improvements: improvements,
		Examples:     examples,
	}
}

func countWords(messages []models.Message) int {
	total := 0
	for _, msg := range messages {
		if msg.Role == models.RoleUser {
			total += len(strings.Fields(msg.Text))
		}
	}
	return total
}

func accuracyPct(words, errCount int) float64 {
	if words <= 0 {
		return 0
	}
	pct := round2((1 - float64(errCount)/float64(words)) * 100)
	if pct < 0 {
		return 0
	}
	return pct
}

func cefrFromAccuracy(accuracy float64) models.CEFRLevel {
	switch {
	case accuracy >= 90:
		return models.CEFRC1
	case accuracy >= 75:
		return models.CEFRB2
	case accuracy >= 60:
		return models.CEFRB1
	default:
		return models.CEFRA2
	}
}

// summarizeAttempts keeps the latest attempt per quiz item (last
// occurrence in input order wins) and scores only those.
func summarizeAttempts(attempts []models.QuizAttempt) models.QuizSummary {
	latest := make(map[string]bool, len(attempts))
	for _, attempt := range attempts {
		latest[attempt.QuizItemID] = attempt.IsCorrect
	}
	summary := models.QuizSummary{Total: len(latest)}
	for _, correct := range latest {
		if correct {
			summary.Correct++
		}
	}
	if summary.Total > 0 {
		summary.AccuracyPct = round2(float64(summary.Correct) / float64(summary.Total) * 100)
	}
	return summary
}

// categoryCounter tallies error categories preserving first-seen order
// so that the most-common-2 selection stays deterministic on ties.
type categoryCounter struct {
	order  []models.ErrorCategory
	counts map[models.ErrorCategory]int
}

func countCategories(errSpans []models.ErrorSpan) *categoryCounter {
	c := &categoryCounter{counts: make(map[models.ErrorCategory]int)}
	for _, span := range errSpans {
		if _, seen := c.counts[span.Category]; !seen {
			c.order = append(c.order, span.Category)
		}
		c.counts[span.Category]++
	}
	return c
}

func (c *categoryCounter) get(cat models.ErrorCategory) int {
	return c.counts[cat]
}

func (c *categoryCounter) mostCommon(n int) []models.ErrorCategory {
	top := make([]models.ErrorCategory, len(c.order))
	copy(top, c.order)
	// Insertion sort keeps first-seen order between equal counts.
	for i := 1; i < len(top); i++ {
		for j := i; j > 0 && c.counts[top[j]] > c.counts[top[j-1]]; j-- {
			top[j], top[j-1] = top[j-1], top[j]
		}
	}
	if len(top) > n {
		top = top[:n]
	}
	return top
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
