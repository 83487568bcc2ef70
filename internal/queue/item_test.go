package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/paheq/internal/episode"
)

func TestNewItem(t *testing.T) {
	bounds := episode.Bounds{Min: 1, Max: 12}

	item, err := NewItem(Request{
		Title:       "Frieren",
		Session:     "abc-123",
		EpisodeText: "1,2,5-7",
		Resolution:  "1080",
		Audio:       "eng",
	}, bounds)
	require.NoError(t, err)

	assert.Equal(t, "Frieren", item.Title)
	assert.Equal(t, "abc-123", item.Session)
	assert.Equal(t, []int{1, 2, 5, 6, 7}, item.Episodes)
	assert.Equal(t, "1080", item.Resolution)
	assert.Equal(t, "eng", item.Audio)
	assert.Equal(t, "1,2,5-7", item.EpisodeText)
}

func TestNewItem_Defaults(t *testing.T) {
	item, err := NewItem(Request{Session: "abc-123"}, episode.Bounds{Min: 1, Max: 3})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, item.Episodes)
	assert.Equal(t, "1-3", item.EpisodeText)
	assert.Equal(t, DefaultAudio, item.Audio)
	assert.Equal(t, "abc-123", item.Title, "title falls back to session")
	assert.Empty(t, item.Resolution)
}

func TestNewItem_Errors(t *testing.T) {
	bounds := episode.Bounds{Min: 1, Max: 12}

	_, err := NewItem(Request{Session: "abc", EpisodeText: "5-3"}, bounds)
	assert.ErrorIs(t, err, episode.ErrInvalidRange)

	_, err = NewItem(Request{Session: "abc", EpisodeText: "13"}, bounds)
	assert.ErrorIs(t, err, episode.ErrInvalidRange)

	_, err = NewItem(Request{Session: "  ", EpisodeText: "1"}, bounds)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = NewItem(Request{Session: "abc"}, episode.Bounds{Min: 5, Max: 1})
	assert.Error(t, err)
}

func TestItem_String(t *testing.T) {
	item := Item{Title: "Frieren", EpisodeText: "1-12", Audio: "jpn"}
	assert.Equal(t, "Frieren | Episodes: 1-12 | Res: Auto | Audio: jpn", item.String())

	item.Resolution = "720"
	assert.Equal(t, "Frieren | Episodes: 1-12 | Res: 720 | Audio: jpn", item.String())
}

func TestEntry_String(t *testing.T) {
	item := Item{Title: "Frieren", EpisodeText: "1-2", Audio: "jpn"}

	pending := Entry{Item: item, State: JobPending}
	assert.NotContains(t, pending.String(), "[")

	done := Entry{Item: item, State: JobFinished, Result: &Result{Success: true}}
	assert.Equal(t, item.String()+" [Done]", done.String())

	errs := Entry{Item: item, State: JobFinished, Result: &Result{Success: false}}
	assert.Equal(t, item.String()+" [Errors]", errs.String())
}
