package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/smarquez/linguaflash/internal/models"
	"github.com/smarquez/linguaflash/internal/report"
)

func userMsg(text string) models.Message {
	return models.Message{Role: models.RoleUser, Text: text}
}

func grammarSpan(userText, corrected string) models.ErrorSpan {
	return models.ErrorSpan{
		Category:      models.CategoryGrammar,
		UserText:      userText,
		CorrectedText: corrected,
		Note:          "grammar note",
	}
}

func spanOf(cat models.ErrorCategory) models.ErrorSpan {
	return models.ErrorSpan{Category: cat, UserText: "x", CorrectedText: "y", Note: "n"}
}

func words(n int) []models.Message {
	return []models.Message{userMsg(strings.TrimSpace(strings.Repeat("word ", n)))}
}

func TestBuild_WordCountOnlyUserMessages(t *testing.T) {
	messages := []models.Message{
		userMsg("one two three"),
		{Role: models.RoleAssistant, Text: "assistant words do not count"},
		userMsg("four five"),
	}
	r := report.Build("travel", messages, nil, nil)
	assert.Equal(t, 5, r.Words)
}

func TestBuild_AccuracyEdges(t *testing.T) {
	t.Run("no words means zero", func(t *testing.T) {
		r := report.Build("travel", nil, []models.ErrorSpan{grammarSpan("a", "b")}, nil)
		assert.Equal(t, float64(0), r.AccuracyPct)
	})

	t.Run("no errors means exactly 100", func(t *testing.T) {
		r := report.Build("travel", words(12), nil, nil)
		assert.Equal(t, float64(100), r.AccuracyPct)
	})

	t.Run("floored at zero when errors exceed words", func(t *testing.T) {
		errs := make([]models.ErrorSpan, 10)
		for i := range errs {
			errs[i] = grammarSpan("a", "b")
		}
		r := report.Build("travel", words(2), errs, nil)
		assert.Equal(t, float64(0), r.AccuracyPct)
	})

	t.Run("rounded to two decimals", func(t *testing.T) {
		// 1 error over 3 words: (1 - 1/3) * 100 = 66.666... -> 66.67
		r := report.Build("travel", words(3), []models.ErrorSpan{grammarSpan("a", "b")}, nil)
		assert.Equal(t, 66.67, r.AccuracyPct)
	})
}

func TestBuild_CEFRBoundaries(t *testing.T) {
	cases := []struct {
		words, errs int
		want        models.CEFRLevel
	}{
		{100, 0, models.CEFRC1},  // 100
		{100, 10, models.CEFRC1}, // exactly 90
		{100, 11, models.CEFRB2}, // 89
		{100, 25, models.CEFRB2}, // exactly 75
		{100, 26, models.CEFRB1}, // 74
		{100, 40, models.CEFRB1}, // exactly 60
		{100, 41, models.CEFRA2}, // 59
		{0, 0, models.CEFRA2},    // zero words -> accuracy 0
	}
	for _, tc := range cases {
		errs := make([]models.ErrorSpan, tc.errs)
		for i := range errs {
			errs[i] = grammarSpan("a", "b")
		}
		r := report.Build("travel", words(tc.words), errs, nil)
		assert.Equal(t, tc.want, r.CEFREstimate, "words=%d errors=%d accuracy=%v", tc.words, tc.errs, r.AccuracyPct)
	}
}

func TestBuild_QuizSummaryLatestAttemptWins(t *testing.T) {
	attempts := []models.QuizAttempt{
		{QuizItemID: "q1", IsCorrect: true},
		{QuizItemID: "q1", IsCorrect: false},
	}
	r := report.Build("travel", words(10), nil, attempts)
	assert.Equal(t, 1, r.QuizSummary.Total)
	assert.Equal(t, 0, r.QuizSummary.Correct)
	assert.Equal(t, float64(0), r.QuizSummary.AccuracyPct)
}

func TestBuild_QuizSummary(t *testing.T) {
	attempts := []models.QuizAttempt{
		{QuizItemID: "q1", IsCorrect: true},
		{QuizItemID: "q2", IsCorrect: false},
		{QuizItemID: "q3", IsCorrect: true},
	}
	r := report.Build("travel", words(10), nil, attempts)
	assert.Equal(t, 3, r.QuizSummary.Total)
	assert.Equal(t, 2, r.QuizSummary.Correct)
	assert.Equal(t, 66.67, r.QuizSummary.AccuracyPct)
	assert.Contains(t, r.Summary, "2/3")
}

func TestBuild_EmptyAttemptsScoreZero(t *testing.T) {
	r := report.Build("travel", words(10), nil, nil)
	assert.Equal(t, models.QuizSummary{}, r.QuizSummary)
}

func TestBuild_ImprovementsAndStrengths(t *testing.T) {
	t.Run("high accuracy yields strength", func(t *testing.T) {
		r := report.Build("travel", words(100), []models.ErrorSpan{spanOf(models.CategoryGrammar)}, nil)
		assert.Contains(t, r.Strengths, "High lexical accuracy across the session.")
		assert.Contains(t, r.Improvements, "Revisit grammar patterns shown in corrections.")
	})

	t.Run("low accuracy yields clarity improvement and default strength", func(t *testing.T) {
		errs := make([]models.ErrorSpan, 30)
		for i := range errs {
			errs[i] = spanOf(models.CategoryGrammar)
		}
		r := report.Build("travel", words(100), errs, nil)
		assert.Contains(t, r.Improvements, "Focus on clarity by revising key corrections provided.")
		assert.Equal(t, []string{"Consistent effort detected."}, r.Strengths)
	})

	t.Run("fluency error adds linking advice without duplication", func(t *testing.T) {
		errs := []models.ErrorSpan{spanOf(models.CategoryFluency), spanOf(models.CategoryFluency)}
		r := report.Build("travel", words(100), errs, nil)
		assert.Contains(t, r.Improvements, "Link short sentences to improve fluency.")
		assert.Contains(t, r.Improvements, "Revisit fluency patterns shown in corrections.")
		seen := map[string]bool{}
		for _, imp := range r.Improvements {
			assert.False(t, seen[imp], "duplicate improvement: %s", imp)
			seen[imp] = true
		}
	})

	t.Run("no rules fired yields generic drill advice", func(t *testing.T) {
		r := report.Build("travel", words(100), nil, nil)
		assert.Equal(t, []string{"Keep expanding vocabulary with targeted drills."}, r.Improvements)
	})

	t.Run("category ties broken by first appearance", func(t *testing.T) {
		errs := []models.ErrorSpan{
			spanOf(models.CategoryVocab),
			spanOf(models.CategoryGrammar),
			spanOf(models.CategoryFluency),
		}
		r := report.Build("travel", words(100), errs, nil)
		assert.Contains(t, r.Improvements, "Revisit vocab patterns shown in corrections.")
		assert.Contains(t, r.Improvements, "Revisit grammar patterns shown in corrections.")
		assert.NotContains(t, r.Improvements, "Revisit fluency patterns shown in corrections.")
	})
}

func TestBuild_ExamplesCappedAtThree(t *testing.T) {
	errs := []models.ErrorSpan{
		grammarSpan("a1", "b1"),
		grammarSpan("a2", "b2"),
		grammarSpan("a3", "b3"),
		grammarSpan("a4", "b4"),
	}
	r := report.Build("travel", words(10), errs, nil)
	require.Len(t, r.Examples, 3)
	assert.Equal(t, models.ReportExample{Source: "a1", Target: "b1", Note: "grammar note"}, r.Examples[0])
}

func TestBuild_SummaryString(t *testing.T) {
	r := report.Build("Travel", words(20), nil, []models.QuizAttempt{{QuizItemID: "q1", IsCorrect: true}})
	assert.Equal(t,
		"You practiced travel and produced 20 words with ~100% accuracy. Estimated CEFR: C1. Quiz score: 1/1.",
		r.Summary)
}

func TestBuild_Deterministic(t *testing.T) {
	messages := words(50)
	errs := []models.ErrorSpan{spanOf(models.CategoryGrammar), spanOf(models.CategoryVocab)}
	attempts := []models.QuizAttempt{{QuizItemID: "q1", IsCorrect: true}, {QuizItemID: "q2", IsCorrect: false}}

	first := report.Build("travel", messages, errs, attempts)
	second := report.Build("travel", messages, errs, attempts)
	assert.Equal(t, first, second)
}
