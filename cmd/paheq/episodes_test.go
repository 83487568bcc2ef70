package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEpisodes(t *testing.T) {
	got := formatEpisodes([]int{1, 2, 5, 6, 7})
	assert.Equal(t, "1 2 5 6 7\n5 episodes (1-2,5-7)", got)
}
