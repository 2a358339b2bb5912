package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lernbox/internal/card"
	"lernbox/internal/deck"
	"lernbox/internal/store"
)

func TestResetProgress_MemoryAndStoreAgree(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	st, err := store.Open(filepath.Join(t.TempDir(), "lernbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c := &card.Card{ID: "c1", Question: "q", Answer: "a"}
	col := &deck.Collection{Subjects: []*deck.Subject{{
		ID: "subj1", Name: "Mathe",
		Sets: []*deck.Set{{ID: "set1", Name: "Analysis I", Cards: []*card.Card{c}}},
	}}}
	require.NoError(t, st.ImportCollection(ctx, col))

	c.State = &card.SchedulingState{Status: card.StatusPerfect, NextReviewAt: now.AddDate(0, 0, 30)}
	c.History = []card.HistoryEntry{{Timestamp: now, Quality: card.QualityPerfect}}
	require.NoError(t, st.RecordAnswer(ctx, c, c.History[0]))

	require.NoError(t, resetProgress(ctx, st, now, []*card.Card{c}))

	// The in-memory card is reset in place.
	require.NotNil(t, c.State)
	assert.Equal(t, card.StatusNew, c.State.Status)
	assert.True(t, c.State.NextReviewAt.Equal(now))
	assert.Empty(t, c.History)

	// The stored row says the same.
	loaded, err := st.LoadCollection(ctx)
	require.NoError(t, err)
	_, got := loaded.FindCard("c1")
	require.NotNil(t, got)
	require.NotNil(t, got.State)
	assert.Equal(t, card.StatusNew, got.State.Status)
	assert.True(t, got.State.NextReviewAt.Equal(now))
	assert.Empty(t, got.History)
}
