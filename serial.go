package serialtcp

import (
	"io"
	"time"

	"github.com/AdamSLevy/serial"
	"github.com/golang/glog"
)

var (
	_ SerialPort = (*LocalSerialPort)(nil)
	_ Factory    = SerialFactory{}
)

// LocalSerialPort implements SerialPort on a serial device, /dev/ttyUSB0 on
// Linux or COM3 on Windows for example.
type LocalSerialPort struct {
	sp    SerialParameters
	state State
	port  *serial.Port

	readTimeout time.Duration
}

// NewLocalSerialPort returns a closed LocalSerialPort for sp.Device.
func NewLocalSerialPort(sp SerialParameters) *LocalSerialPort {
	return &LocalSerialPort{sp: sp, state: StateClosed,
		readTimeout: sp.ReadTimeout}
}

// newSerialPort opens the device with the given read timeout.
func newSerialPort(sp SerialParameters, timeout time.Duration) (*serial.Port,
	error) {
	conf := &serial.Config{
		Name:        sp.Device,
		Baud:        sp.BaudRate,
		ReadTimeout: timeout,
	}
	return serial.OpenPort(conf)
}

// Open opens the device, closing it first if it is already open.
func (l *LocalSerialPort) Open() error {
	l.Close()
	p, err := newSerialPort(l.sp, l.readTimeout)
	if err != nil {
		return &OpenError{Address: l.sp.Device, Err: err}
	}
	l.port = p
	l.state = StateOpen
	return nil
}

// Close closes the device. Errors are logged and Close always returns nil.
func (l *LocalSerialPort) Close() error {
	if l.port != nil {
		if err := l.port.Close(); err != nil {
			glog.V(1).Infof("serialtcp: ignoring error closing %s: %v",
				l.sp.Device, err)
		}
	}
	l.port = nil
	l.state = StateClosed
	return nil
}

func (l *LocalSerialPort) IsOpened() bool {
	return l.state == StateOpen && l.port != nil
}

func (l *LocalSerialPort) Write(b []byte) (int, error) {
	if !l.IsOpened() {
		return 0, ErrNotOpen
	}
	return l.port.Write(b)
}

func (l *LocalSerialPort) WriteByte(c byte) error {
	_, err := l.Write([]byte{c})
	return err
}

// Read reads from the device. A read that times out without data returns
// 0, nil, as the underlying driver does.
func (l *LocalSerialPort) Read(b []byte) (int, error) {
	if !l.IsOpened() {
		return 0, ErrNotOpen
	}
	return l.port.Read(b)
}

func (l *LocalSerialPort) ReadByte() (byte, error) {
	var b [1]byte
	n, err := l.Read(b[:])
	if n == 1 {
		return b[0], nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	return 0, err
}

// SetReadTimeout stores the timeout. The driver fixes the timeout when the
// device is opened, so a change made while open takes effect on the next
// Open.
func (l *LocalSerialPort) SetReadTimeout(d time.Duration) {
	l.readTimeout = d
}

func (l *LocalSerialPort) ReadTimeout() time.Duration {
	return l.readTimeout
}

// PurgeRx discards data received but not yet read. The driver flushes both
// directions at once.
func (l *LocalSerialPort) PurgeRx() error {
	return l.flush()
}

// PurgeTx discards data written but not yet transmitted.
func (l *LocalSerialPort) PurgeTx() error {
	return l.flush()
}

func (l *LocalSerialPort) flush() error {
	if !l.IsOpened() {
		return ErrNotOpen
	}
	return l.port.Flush()
}

func (l *LocalSerialPort) Parameters() SerialParameters {
	return l.sp
}

// SerialFactory creates LocalSerialPorts.
type SerialFactory struct{}

// CreateSerial returns a new, closed LocalSerialPort.
func (SerialFactory) CreateSerial(sp SerialParameters) (SerialPort, error) {
	return NewLocalSerialPort(sp), nil
}
