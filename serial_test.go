package serialtcp

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSerialPort(t *testing.T) {
	dev := filepath.Join(t.TempDir(), "ttyMissing")
	sp := SerialParameters{Device: dev, BaudRate: 19200,
		ReadTimeout: 500 * time.Millisecond}
	p := NewLocalSerialPort(sp)
	assert.Equal(t, sp, p.Parameters())
	assert.Equal(t, 500*time.Millisecond, p.ReadTimeout())

	t.Run("NotOpen", func(t *testing.T) {
		_, err := p.Write([]byte{0x01})
		assert.ErrorIs(t, err, ErrNotOpen)
		assert.ErrorIs(t, p.WriteByte(0x01), ErrNotOpen)
		_, err = p.Read(make([]byte, 1))
		assert.ErrorIs(t, err, ErrNotOpen)
		_, err = p.ReadByte()
		assert.ErrorIs(t, err, ErrNotOpen)
		assert.ErrorIs(t, p.PurgeRx(), ErrNotOpen)
		assert.ErrorIs(t, p.PurgeTx(), ErrNotOpen)
	})

	t.Run("OpenFailed", func(t *testing.T) {
		err := p.Open()
		require.Error(t, err)
		assert.True(t, IsOpenError(err))
		assert.Contains(t, err.Error(), dev)
		assert.False(t, p.IsOpened())
	})

	t.Run("Close", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			assert.NoError(t, p.Close())
			assert.False(t, p.IsOpened())
		}
	})

	p.SetReadTimeout(time.Second)
	assert.Equal(t, time.Second, p.ReadTimeout())
}
