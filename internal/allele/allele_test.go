package allele

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	tests := []struct {
		list string
		want int
	}{
		{"", 0},
		{"A", 1},
		{"A,G", 2},
		{"A,G,T,C", 4},
		{"A,G,", 3},
		{"A,,G", 2},
		{",A", 1},
		{"ACGT,A", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Count(tt.list), "list %q", tt.list)
	}
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 0, Index("A", "A,G,T"))
	assert.Equal(t, 2, Index("T", "A,G,T"))
	assert.Equal(t, -1, Index("C", "A,G,T"))
	assert.Equal(t, -1, Index("A", "AG,T"))
	assert.Equal(t, 2, Index("G", "A,,G"))
	assert.Equal(t, -1, Index("A", ""))
}

func TestSplit(t *testing.T) {
	assert.Nil(t, Split(""))
	assert.Equal(t, []string{"A", "G"}, Split("A,G"))
	assert.Equal(t, []string{"A", "", "G", ""}, Split("A,,G,"))
}
