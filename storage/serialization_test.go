package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorRoundTrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.14159, 0, 1e-7}

	data := MarshalVector(original)
	decoded, err := UnmarshalVector(data)
	require.NoError(t, err)

	assert.Equal(t, original, decoded)
}

func TestVectorRoundTrip_Empty(t *testing.T) {
	data := MarshalVector(nil)
	decoded, err := UnmarshalVector(data)
	require.NoError(t, err)

	assert.Empty(t, decoded)
}

func TestUnmarshalVector_Truncated(t *testing.T) {
	data := MarshalVector([]float32{1, 2, 3, 4})

	_, err := UnmarshalVector(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestUnmarshalVector_Garbage(t *testing.T) {
	_, err := UnmarshalVector([]byte{})
	assert.Error(t, err)
}
