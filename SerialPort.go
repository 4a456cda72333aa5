package serialtcp

import (
	"io"
	"time"
)

// SerialPort is the capability set a line-oriented protocol engine (Modbus
// RTU/ASCII framing, for example) needs from its physical layer. It is
// implemented by LocalSerialPort for a real device and by TCPSerialPort for a
// serial line tunnelled over a TCP socket. The two are interchangeable from
// the protocol engine's point of view.
//
// Read and Write follow the io.Reader and io.Writer contracts. A read into a
// region of a larger buffer is expressed by slicing: Read(buf[off : off+n]).
//
// Implementations perform no internal locking. Callers must serialize calls on
// a given SerialPort, with the exception of Close, which may be called from
// another goroutine to abort a blocked Read or Write.
type SerialPort interface {
	io.Reader
	io.ByteReader
	io.Writer
	io.ByteWriter

	// Open establishes the connection. Any resources held from a previous
	// Open are released first.
	Open() error
	// Close releases all resources. It is idempotent.
	Close() error
	// IsOpened reports whether the port is currently usable.
	IsOpened() bool

	// SetReadTimeout bounds subsequent reads. Zero means no bound.
	SetReadTimeout(d time.Duration)
	ReadTimeout() time.Duration

	// PurgeRx and PurgeTx discard unread input and unsent output.
	PurgeRx() error
	PurgeTx() error

	Parameters() SerialParameters
}

// SerialParameters holds the settings a SerialPort is created with. Device and
// BaudRate only apply to real serial lines. ReadTimeout is the initial read
// timeout; zero selects the configured response timeout.
type SerialParameters struct {
	Device      string
	BaudRate    int
	ReadTimeout time.Duration
}

// Factory creates SerialPorts. Creating a port never opens it.
type Factory interface {
	CreateSerial(sp SerialParameters) (SerialPort, error)
}
