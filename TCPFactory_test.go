package serialtcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPFactory(t *testing.T) {
	srv := startEchoServer(t)
	params := srv.params(true)
	f := NewTCPFactory(params, testConfig)
	assert.Same(t, params, f.TCPParameters())
	assert.Equal(t, testConfig, f.Config())

	sp := SerialParameters{Device: "gateway", BaudRate: 9600}
	p1, err := f.CreateSerial(sp)
	require.NoError(t, err)
	p2, err := f.CreateSerial(sp)
	require.NoError(t, err)

	// Creating a port never opens it, and every call yields a new port.
	assert.False(t, p1.IsOpened())
	assert.False(t, p2.IsOpened())
	assert.NotSame(t, p1, p2)
	assert.Equal(t, sp, p1.Parameters())
	assert.Same(t, params, p1.(*TCPSerialPort).TCPParameters())

	require.NoError(t, p1.Open())
	defer p1.Close()
	assert.True(t, p1.IsOpened())
	assert.False(t, p2.IsOpened())
}

func TestTCPFactoryDefaults(t *testing.T) {
	f := NewTCPFactory(nil, Config{})
	assert.Equal(t, DefaultConfig(), f.Config())

	p := f.NewPort(SerialParameters{})
	assert.NoError(t, p.Open())
	assert.False(t, p.IsOpened())
}

// Protocol code only sees the SerialPort capability set, so a TCP port and a
// serial device port are interchangeable behind a Factory.
func TestFactoriesInterchangeable(t *testing.T) {
	srv := startEchoServer(t)
	for name, f := range map[string]Factory{
		"tcp":    NewTCPFactory(srv.params(false), testConfig),
		"serial": SerialFactory{},
	} {
		t.Run(name, func(t *testing.T) {
			p, err := f.CreateSerial(SerialParameters{Device: "/dev/null/none"})
			require.NoError(t, err)
			assert.False(t, p.IsOpened())
			_, err = p.Write([]byte{0x01})
			assert.ErrorIs(t, err, ErrNotOpen)
			assert.NoError(t, p.Close())
		})
	}
}
