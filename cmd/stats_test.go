package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lernbox/internal/card"
)

func TestSetAccuracy(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	entry := func(q card.Quality) card.HistoryEntry {
		return card.HistoryEntry{Timestamp: now, Quality: q}
	}

	// Every answer except bad counts as correct, same rule as Card.Accuracy.
	cards := []*card.Card{
		{ID: "a", History: []card.HistoryEntry{entry(card.QualityBad), entry(card.QualityOK)}},
		{ID: "b", History: []card.HistoryEntry{entry(card.QualityGood), entry(card.QualityPerfect)}},
	}

	acc, answers := setAccuracy(cards)
	assert.Equal(t, 4, answers)
	assert.InDelta(t, 0.75, acc, 1e-9)
}

func TestSetAccuracy_NoAnswers(t *testing.T) {
	acc, answers := setAccuracy([]*card.Card{{ID: "a"}})
	assert.Zero(t, answers)
	assert.Zero(t, acc)
}
