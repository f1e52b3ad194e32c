package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := slices.All([]string{"a", "b"})
	b := slices.All([]string{"c"})

	var keys []int
	var values []string
	for key, value := range IterSeq2Concat(a, b) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]int{0, 1, 0}, keys)
	assert.Equal([]string{"a", "b", "c"}, values)

	for range IterSeq2Concat(a, b) {
		break
	}
}

func TestIterSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	first := maps.All(map[string]int{"b": 2, "a": 1})
	second := maps.All(map[string]int{"c": 3, "a": 9})

	var keys []string
	var values []int
	for key, value := range IterSeq2Sorted(IterSeq2Concat(first, second)) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]string{"a", "b", "c"}, keys)
	assert.Equal([]int{9, 2, 3}, values)
}
