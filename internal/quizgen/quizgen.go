// Package quizgen deterministically builds a 3-5 item quiz from a
// session's detected errors and recent conversation context.
package quizgen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smarquez/linguaflash/internal/models"
)

const (
	maxErrorItems = 4
	maxItems      = 5
	minItems      = 3
	maxKeywords   = 3
	contextWindow = 6
	minWordLen    = 4
)

// Config carries the word lists the generator depends on. They are
// passed in rather than read from globals so tests can pin them.
type Config struct {
	Stopwords   []string
	Distractors []string
}

// DefaultConfig returns the stock stopword set and distractor pool.
func DefaultConfig() Config {
	return Config{
		Stopwords: []string{
			"about", "after", "again", "because", "been", "before", "being",
			"could", "during", "every", "from", "have", "just", "like",
			"really", "should", "some", "that", "their", "them", "there",
			"these", "they", "this", "very", "want", "were", "what", "when",
			"where", "which", "will", "with", "would", "your",
		},
		Distractors: []string{"weather", "cooking", "music", "football"},
	}
}

// Generator builds quizzes. Safe for concurrent use: it holds only the
// configured word lists and no per-call state.
type Generator struct {
	stopwords   map[string]struct{}
	distractors []string
}

func New(cfg Config) *Generator {
	stop := make(map[string]struct{}, len(cfg.Stopwords))
	for _, w := range cfg.Stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Generator{stopwords: stop, distractors: cfg.Distractors}
}

// Generate returns between 3 and 5 quiz items. Error-derived questions
// come first in input order, then at most one context-keyword question,
// a topic fallback when the quiz is still short, and always a closing
// comprehension question. Prompts are deduplicated (first occurrence
// wins) and the result is capped at 5 before padding back up to 3.
func (g *Generator) Generate(topic string, errSpans []models.ErrorSpan, messages []models.Message) []models.QuizItem {
	var items []models.QuizItem

	for i, span := range errSpans {
		if i == maxErrorItems {
			break
		}
		correct := strings.TrimSpace(span.CorrectedText)
		wrong := strings.TrimSpace(span.UserText)
		items = append(items, models.QuizItem{
			Type:          models.QuizMCQ,
			Prompt:        fmt.Sprintf("Choose the best correction for %q", wrong),
			Choices:       BuildChoices(correct, wrong),
			Answer:        correct,
			Rationale:     span.Note,
			SourceErrorID: span.ID,
		})
	}

	if keywords := g.Keywords(messages); len(keywords) > 0 {
		items = append(items, g.contextItem(topic, keywords[0]))
	}

	if len(items) < minItems {
		items = append(items, models.QuizItem{
			Type:      models.QuizCloze,
			Prompt:    fmt.Sprintf("What is a synonym for the topic '%s'?", topic),
			Choices:   []string{topic, topic + " practice", "grammar"},
			Answer:    topic,
			Rationale: "Recalling the topic reinforces new vocabulary.",
		})
	}

	items = append(items, models.QuizItem{
		Type:      models.QuizMCQ,
		Prompt:    fmt.Sprintf("What was the main theme of your session? (%s)", topic),
		Choices:   []string{topic, "small talk", "travel"},
		Answer:    topic,
		Rationale: "Summarizing a conversation checks overall comprehension.",
	})

	unique := items[:0]
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.Prompt]; dup {
			continue
		}
		seen[item.Prompt] = struct{}{}
		unique = append(unique, item)
		if len(unique) == maxItems {
			break
		}
	}

	for len(unique) < minItems {
		unique = append(unique, models.QuizItem{
			Type:      models.QuizCloze,
			Prompt:    fmt.Sprintf("Complete the idea about '%s'", topic),
			Choices:   []string{topic + " is important", "I enjoy " + topic, "Practice helps"},
			Answer:    "I enjoy " + topic,
			Rationale: "Practice makes it stick.",
		})
	}

	return unique
}

func (g *Generator) contextItem(topic, keyword string) models.QuizItem {
	answer := titleCase(keyword)
	choices := []string{answer}
	for _, d := range g.distractors {
		if len(choices) == 4 {
			break
		}
		if strings.EqualFold(d, keyword) {
			continue
		}
		choices = append(choices, d)
	}
	return models.QuizItem{
		Type:      models.QuizMCQ,
		Prompt:    fmt.Sprintf("Which word from your conversation fits the topic '%s' best?", topic),
		Choices:   choices,
		Answer:    answer,
		Rationale: "This keyword appeared in your recent messages.",
	}
}

// BuildChoices assembles the MCQ choice set for a correction question:
// the correction, the original mistake, a lowercase variant and a
// punctuated variant, deduplicated by trimmed equality in first-seen
// order and capped at 4. A filler is appended if fewer than 2 survive.
func BuildChoices(correct, wrong string) []string {
	pool := []string{correct, wrong, strings.ToLower(correct), wrong + "?"}
	seen := make(map[string]struct{}, len(pool))
	var choices []string
	for _, choice := range pool {
		normalized := strings.TrimSpace(choice)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		choices = append(choices, normalized)
		if len(choices) == 4 {
			break
		}
	}
	if len(choices) < 2 {
		choices = append(choices, "I don't know")
	}
	return choices
}

var wordRe = regexp.MustCompile(`[A-Za-z]+`)

type keywordStat struct {
	word   string // original casing of first occurrence
	count  int
	first  int
	titled bool
}

// Keywords extracts up to 3 ranked keywords from the user-authored text
// among the last 6 messages. Words shorter than 4 letters and stopwords
// are discarded; ranking is frequency, then title-cased words, then
// first occurrence.
func (g *Generator) Keywords(messages []models.Message) []string {
	window := messages
	if len(window) > contextWindow {
		window = window[len(window)-contextWindow:]
	}
	var parts []string
	for _, msg := range window {
		if msg.Role == models.RoleUser {
			parts = append(parts, msg.Text)
		}
	}

	stats := make(map[string]*keywordStat)
	var order []*keywordStat
	pos := 0
	for _, token := range wordRe.FindAllString(strings.Join(parts, " "), -1) {
		pos++
		if utf8.RuneCountInString(token) < minWordLen {
			continue
		}
		key := strings.ToLower(token)
		if _, stop := g.stopwords[key]; stop {
			continue
		}
		stat, ok := stats[key]
		if !ok {
			r, _ := utf8.DecodeRuneInString(token)
			stat = &keywordStat{word: token, first: pos, titled: unicode.IsUpper(r)}
			stats[key] = stat
			order = append(order, stat)
		}
		stat.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		if order[i].titled != order[j].titled {
			return order[i].titled
		}
		return order[i].first < order[j].first
	})

	var keywords []string
	for _, stat := range order {
		keywords = append(keywords, stat.word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
