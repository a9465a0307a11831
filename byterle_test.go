package byterle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBytes(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	values := make([]byte, 5000)
	for i := range values {
		values[i] = byte(rng.Intn(5))
	}

	encoded, err := EncodeBytes(values)
	require.NoError(t, err)
	require.Less(t, len(encoded), len(values))

	decoded, err := DecodeBytes(encoded, len(values))
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestEncodeDecodeBytes_Empty(t *testing.T) {
	encoded, err := EncodeBytes(nil)
	require.NoError(t, err)
	require.Empty(t, encoded)

	decoded, err := DecodeBytes(encoded, 0)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestEncodeDecodeBools(t *testing.T) {
	rng := rand.New(rand.NewSource(29))

	values := make([]bool, 1003)
	for i := range values {
		values[i] = rng.Intn(3) != 0
	}

	encoded, err := EncodeBools(values)
	require.NoError(t, err)

	decoded, err := DecodeBools(encoded, len(values))
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestDecodeBytes_Truncated(t *testing.T) {
	encoded, err := EncodeBytes([]byte{1, 2, 3, 4, 5})
	require.NoError(t, err)

	_, err = DecodeBytes(encoded[:len(encoded)-1], 5)
	require.Error(t, err)
}
