package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"1.0", "1.0", 0},
		{"1", "1.0", 0},
		{"1.0.0", "1", 0},
		{"1.1", "1.0", 1},
		{"1.0", "1.1", -1},
		{"1.10", "1.9", 1},
		{"2", "1.99", 1},
		{"0.1", "1.0", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compare(tt.v1, tt.v2), "%s vs %s", tt.v1, tt.v2)
	}
}

func TestHelpers(t *testing.T) {
	assert.True(t, LessThan("0.9", "1.0"))
	assert.False(t, LessThan("1.0", "1.0"))
	assert.True(t, LessThanOrEqualTo("1.0", "1.0"))
	assert.True(t, GreaterThan("1.1", "1.0"))
	assert.True(t, GreaterThanOrEqualTo("1.0", "1"))
	assert.True(t, Equal("1.0", "1.0.0"))
}
