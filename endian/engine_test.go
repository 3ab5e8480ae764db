package endian

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	le := GetLittleEndianEngine()
	be := GetBigEndianEngine()

	require.Equal(t, []byte{0x64, 0x00, 0x00, 0x00}, le.AppendUint32(nil, 100))
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x64}, be.AppendUint32(nil, 100))

	buf := make([]byte, 2)
	le.PutUint16(buf, 0x0102)
	require.Equal(t, uint16(0x0102), le.Uint16(buf))
	require.Equal(t, uint16(0x0201), be.Uint16(buf))
}

func TestIsLittleEndian(t *testing.T) {
	require.True(t, IsLittleEndian(GetLittleEndianEngine()))
	require.False(t, IsLittleEndian(GetBigEndianEngine()))
}

func TestName(t *testing.T) {
	tests := []struct {
		name   string
		engine EndianEngine
		want   string
	}{
		{"little", GetLittleEndianEngine(), "little"},
		{"big", GetBigEndianEngine(), "big"},
		{"nil", nil, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Name(tt.engine))
		})
	}
}
