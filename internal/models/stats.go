package models

// StatKind names a daily activity counter.
type StatKind string

const (
	StatChats      StatKind = "chats"
	StatQuizzes    StatKind = "quizzes"
	StatFlashcards StatKind = "flashcards"
)

// DailyStat is one row of the rolling per-day counters.
type DailyStat struct {
	Date       string `json:"date"` // YYYY-MM-DD, UTC
	Chats      int    `json:"chats"`
	Quizzes    int    `json:"quizzes"`
	Flashcards int    `json:"flashcards"`
}

// ErrorTagCount is one entry of the top-errors rollup.
type ErrorTagCount struct {
	Category ErrorCategory `json:"category"`
	Count    int           `json:"count"`
}

// StatsSummary is the dashboard rollup over a trailing window.
type StatsSummary struct {
	WindowDays     int             `json:"window_days"`
	Chats          int             `json:"chats"`
	Quizzes        int             `json:"quizzes"`
	Flashcards     int             `json:"flashcards"`
	FlashcardsDue  int             `json:"flashcards_due"`
	TotalFlashcards int            `json:"total_flashcards"`
	TopErrorTags   []ErrorTagCount `json:"top_error_tags"`
}
