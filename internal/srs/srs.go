// Package srs implements the SM-2 derived flashcard scheduler.
package srs

import (
	"math"
	"time"

	"github.com/smarquez/linguaflash/internal/models"
)

const minEase = 1.3

// CardState is the scheduling portion of a flashcard.
type CardState struct {
	Repetitions  int
	IntervalDays int
	Ease         float64
	DueAt        time.Time
}

// StateOf extracts the scheduling state from a flashcard.
func StateOf(card models.Flashcard) CardState {
	return CardState{
		Repetitions:  card.Repetitions,
		IntervalDays: card.IntervalDays,
		Ease:         card.Ease,
		DueAt:        card.DueAt,
	}
}

// Review computes the next scheduling state for a card given a recall
// quality rating. Quality is clamped to [0,5]; the function is total and
// has no side effects. The caller persists the returned state.
//
// quality < 3 is a lapse: repetitions reset and the card comes back in a
// day. The easiness update is applied on every review, lapse included,
// and never drops below 1.3.
func Review(state CardState, quality int, now time.Time) CardState {
	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}

	ease := state.Ease + (0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02))
	if ease < minEase {
		ease = minEase
	}

	var reps, interval int
	if quality < 3 {
		reps = 0
		interval = 1
	} else {
		reps = state.Repetitions + 1
		switch {
		case reps == 1:
			interval = 1
		case reps == 2:
			interval = 6
		default:
			interval = int(math.Round(float64(state.IntervalDays) * ease))
			// A zero-day interval would make the card due again immediately.
			if interval < 1 {
				interval = 1
			}
		}
	}

	return CardState{
		Repetitions:  reps,
		IntervalDays: interval,
		Ease:         ease,
		DueAt:        now.UTC().Add(time.Duration(interval) * 24 * time.Hour),
	}
}
