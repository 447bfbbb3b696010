package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffMembersReplace(t *testing.T) {
	add, remove := diffMembers([]int64{1, 2}, []int64{2, 3})
	assert.Equal(t, []int64{3}, add)
	assert.Equal(t, []int64{1}, remove)
}

func TestDiffMembersNoChange(t *testing.T) {
	add, remove := diffMembers([]int64{1, 2, 3}, []int64{3, 1, 2})
	assert.Empty(t, add)
	assert.Empty(t, remove)
}

func TestDiffMembersClear(t *testing.T) {
	add, remove := diffMembers([]int64{4, 5}, nil)
	assert.Empty(t, add)
	assert.Equal(t, []int64{4, 5}, remove)
}

func TestDiffMembersFromEmpty(t *testing.T) {
	add, remove := diffMembers(nil, []int64{9, 7, 8})
	assert.Equal(t, []int64{7, 8, 9}, add)
	assert.Empty(t, remove)
}

func TestDiffMembersDuplicatesCollapsed(t *testing.T) {
	add, remove := diffMembers([]int64{1}, []int64{2, 2, 1, 2})
	assert.Equal(t, []int64{2}, add)
	assert.Empty(t, remove)
}
