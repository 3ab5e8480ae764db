package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
		{"long string", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
		{"another string", "another test string", 0x212a22f593810bec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.id, ID(tt.data))
			require.Equal(t, tt.id, Bytes([]byte(tt.data)))
		})
	}
}

func TestBytes_Buffers(t *testing.T) {
	a := []byte{0x64, 0, 0, 0}
	b := []byte{0x64, 0, 0, 0}
	c := []byte{0x65, 0, 0, 0}

	require.Equal(t, Bytes(a), Bytes(b))
	require.NotEqual(t, Bytes(a), Bytes(c))
	require.Equal(t, Bytes(nil), Bytes([]byte{}))
}
