package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasKeyboardPattern(t *testing.T) {
	assert.True(t, hasKeyboardPattern("qwerty123"))
	assert.True(t, hasKeyboardPattern("myasdfgaccount"))
	assert.True(t, hasKeyboardPattern("ZXCVBn"))
	// Reversed rows flag too
	assert.True(t, hasKeyboardPattern("ytrewq"))

	assert.False(t, hasKeyboardPattern("maria.gonzalez"))
	assert.False(t, hasKeyboardPattern("qwe"))
	assert.False(t, hasKeyboardPattern(""))
}

func TestHasSequentialRun(t *testing.T) {
	assert.True(t, hasSequentialRun("abcd", 4))
	assert.True(t, hasSequentialRun("user6789", 4))
	assert.True(t, hasSequentialRun("dcba", 4), "descending runs flag")
	assert.True(t, hasSequentialRun("xx4321yy", 4))

	assert.False(t, hasSequentialRun("abc", 4), "run below threshold")
	assert.False(t, hasSequentialRun("a1b2c3d4", 4), "interleaved chars reset the run")
	assert.False(t, hasSequentialRun("", 4))
}

func TestHasHighRepetition(t *testing.T) {
	assert.True(t, hasHighRepetition("aaaa", 0.6))
	assert.True(t, hasHighRepetition("aaab", 0.6), "75% single char")
	assert.True(t, hasHighRepetition("abcabcabc", 0.6), "periodic tiling")
	assert.True(t, hasHighRepetition("xyxyxyxy", 0.6))

	assert.False(t, hasHighRepetition("janedoe", 0.6))
	assert.False(t, hasHighRepetition("abc", 0.6), "too short to judge")
	assert.False(t, hasHighRepetition("abcdabce", 0.6), "near-tiling does not flag")
}
