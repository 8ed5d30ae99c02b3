package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleAddsThenRemoves(t *testing.T) {
	s := Of(1, 2)

	added, present := Toggle(s, 3)
	assert.True(t, present)
	assert.Equal(t, 3, added.Count())
	assert.True(t, added.Contains(3))

	removed, present := Toggle(added, 3)
	assert.False(t, present)
	assert.ElementsMatch(t, s, removed)
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	s := Of(7)
	_, _ = Toggle(s, 7)
	assert.Equal(t, Set{7}, s)

	var empty Set
	next, present := Toggle(empty, 7)
	assert.True(t, present)
	assert.Nil(t, empty)
	assert.Equal(t, Set{7}, next)
}

func TestDoubleToggleRestoresState(t *testing.T) {
	for _, start := range []Set{nil, Of(1), Of(1, 2, 3), Of(4, 5)} {
		for _, user := range []uint{1, 4, 9} {
			once, _ := Toggle(start, user)
			twice, _ := Toggle(once, user)
			assert.ElementsMatch(t, []uint(start), []uint(twice))
			assert.Equal(t, start.Count(), twice.Count())
		}
	}
}

func TestOfDropsDuplicates(t *testing.T) {
	s := Of(1, 1, 2, 1, 2)
	assert.Equal(t, Set{1, 2}, s)
	assert.Equal(t, 2, s.Count())
}
