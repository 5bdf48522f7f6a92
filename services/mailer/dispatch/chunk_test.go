package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSizes(t *testing.T) {
	items := make([]int, 1200)
	for i := range items {
		items[i] = i
	}

	var chunks [][]int
	for chunk := range Chunk(items, 500) {
		chunks = append(chunks, chunk)
	}

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Len(t, chunks[1], 500)
	assert.Len(t, chunks[2], 200)

	// Every element exactly once, in original order
	next := 0
	for _, chunk := range chunks {
		for _, v := range chunk {
			assert.Equal(t, next, v)
			next++
		}
	}
	assert.Equal(t, 1200, next)
}

func TestChunkExactMultiple(t *testing.T) {
	items := []string{"a", "b", "c", "d"}

	var chunks [][]string
	for chunk := range Chunk(items, 2) {
		chunks = append(chunks, chunk)
	}

	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"a", "b"}, chunks[0])
	assert.Equal(t, []string{"c", "d"}, chunks[1])
}

func TestChunkEmptyInput(t *testing.T) {
	count := 0
	for range Chunk([]int{}, 10) {
		count++
	}
	assert.Zero(t, count)
}

func TestChunkRestartable(t *testing.T) {
	seq := Chunk([]int{1, 2, 3}, 2)

	for i := 0; i < 2; i++ {
		var chunks [][]int
		for chunk := range seq {
			chunks = append(chunks, chunk)
		}
		require.Len(t, chunks, 2)
		assert.Equal(t, []int{1, 2}, chunks[0])
		assert.Equal(t, []int{3}, chunks[1])
	}
}

func TestChunkEarlyBreak(t *testing.T) {
	var first []int
	for chunk := range Chunk([]int{1, 2, 3, 4, 5}, 2) {
		first = chunk
		break
	}
	assert.Equal(t, []int{1, 2}, first)
}
