package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3", "4.2"} {
		_, err := ParseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := FixedClock(at)
	assert.Equal(t, at, now())
	assert.Equal(t, at, now())
}
