package plan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimit_Scan(t *testing.T) {
	tests := []struct {
		name     string
		src      any
		expected Limit
	}{
		{"null is unlimited", nil, Unbounded()},
		{"negative sentinel is unlimited", int64(-1), Unbounded()},
		{"zero is a real bound", int64(0), LimitOf(0)},
		{"positive bound", int64(25), LimitOf(25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Limit
			require.NoError(t, l.Scan(tt.src))
			assert.Equal(t, tt.expected, l)
		})
	}
}

func TestLimit_Value(t *testing.T) {
	v, err := Unbounded().Value()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v)

	v, err = LimitOf(10).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
}

func TestLimit_JSON(t *testing.T) {
	data, err := json.Marshal(Unbounded())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = json.Marshal(LimitOf(3))
	require.NoError(t, err)
	assert.Equal(t, "3", string(data))

	var l Limit
	require.NoError(t, json.Unmarshal([]byte("null"), &l))
	assert.True(t, l.Unlimited)

	require.NoError(t, json.Unmarshal([]byte("-1"), &l))
	assert.True(t, l.Unlimited)

	require.NoError(t, json.Unmarshal([]byte("7"), &l))
	assert.Equal(t, LimitOf(7), l)
}

func TestLimit_Allows(t *testing.T) {
	assert.True(t, Unbounded().Allows(1_000_000))
	assert.True(t, LimitOf(5).Allows(5))
	assert.False(t, LimitOf(5).Allows(6))
	assert.True(t, LimitOf(0).Allows(0))
}
