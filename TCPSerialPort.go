package serialtcp

import (
	"io"
	"net"
	"time"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var _ SerialPort = (*TCPSerialPort)(nil)

// TCPSerialPort implements SerialPort over a TCP socket, e.g. for talking to
// a Modbus RTU device behind a serial-to-Ethernet converter. The socket and
// its input and output channels are held together while the port is open and
// released together when it closes. There is no partially open state.
//
// A TCPSerialPort is created closed, usually by a TCPFactory.
type TCPSerialPort struct {
	params *TCPParameters
	sp     SerialParameters
	config Config

	state State
	conn  *net.TCPConn
	in    *inputChannel
	out   *outputChannel

	readTimeout time.Duration
}

// NewTCPSerialPort returns a closed TCPSerialPort that will connect to params.
// Zero fields of cfg take their default values. A nil params is accepted, in
// which case Open does nothing.
func NewTCPSerialPort(params *TCPParameters, sp SerialParameters,
	cfg Config) *TCPSerialPort {
	cfg = cfg.withDefaults()
	readTimeout := sp.ReadTimeout
	if readTimeout == 0 {
		readTimeout = cfg.ResponseTimeout
	}
	return &TCPSerialPort{
		params:      params,
		sp:          sp,
		config:      cfg,
		state:       StateClosed,
		readTimeout: readTimeout,
	}
}

// Open connects to the configured endpoint. If the port already holds a
// connection it is closed first, so repeated calls never leak a socket.
// Connecting is bounded by Config.ConnectTimeout and the read timeout is
// capped at Config.ResponseTimeout. On failure the port is left closed and an
// *OpenError wrapping the cause is returned.
//
// Open on a port without TCPParameters is a no-op and returns nil.
func (p *TCPSerialPort) Open() error {
	if p.params == nil {
		glog.V(1).Info("serialtcp: Open without TCPParameters, nothing to do")
		return nil
	}
	p.Close()

	addr := p.params.Address()
	conn, err := p.dial(addr)
	if err != nil {
		return &OpenError{Address: addr, Err: err}
	}

	p.conn = conn
	p.in = &inputChannel{conn: conn}
	p.out = &outputChannel{conn: conn}
	p.readTimeout = p.config.boundReadTimeout(p.readTimeout)
	p.state = StateOpen
	glog.V(2).Infof("serialtcp: opened %s (keepalive=%v, read timeout %v)",
		addr, p.params.KeepAlive(), p.readTimeout)
	return nil
}

// dial connects and configures the socket. Any socket it creates is closed
// before an error is returned.
func (p *TCPSerialPort) dial(addr string) (*net.TCPConn, error) {
	// Keep-alive is applied explicitly below from TCPParameters.
	d := net.Dialer{Timeout: p.config.ConnectTimeout, KeepAlive: -1}
	c, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	conn, ok := c.(*net.TCPConn)
	if !ok {
		c.Close()
		return nil, errors.Errorf("unexpected connection type %T", c)
	}

	setup := func() error {
		if err := conn.SetKeepAlive(p.params.KeepAlive()); err != nil {
			return errors.Wrap(err, "keep-alive")
		}
		// Every write goes straight to the wire, there is no send-side
		// coalescing to flush.
		if err := conn.SetNoDelay(true); err != nil {
			return errors.Wrap(err, "no-delay")
		}
		return nil
	}
	if err := setup(); err != nil {
		if cerr := conn.Close(); cerr != nil {
			glog.V(1).Infof("serialtcp: ignoring close error for %s: %v",
				addr, cerr)
		}
		return nil, err
	}
	return conn, nil
}

// Close releases the output channel, the input channel and the socket, in
// that order. Every release is attempted even if an earlier one fails, and
// failures are logged rather than returned: Close always returns nil and
// always leaves the port closed. It is safe to call any number of times, and
// from another goroutine to abort a blocked Read or Write.
func (p *TCPSerialPort) Close() error {
	var errs *multierror.Error
	if p.out != nil {
		if err := p.out.close(); err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "output"))
		}
	}
	if p.in != nil {
		if err := p.in.close(); err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "input"))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "socket"))
		}
		glog.V(2).Infof("serialtcp: closed %s", p.address())
	}
	if err := errs.ErrorOrNil(); err != nil {
		// Release errors are routine once the peer has gone away.
		glog.V(1).Infof("serialtcp: ignoring errors closing %s: %v",
			p.address(), err)
	}

	p.conn = nil
	p.in = nil
	p.out = nil
	p.state = StateClosed
	return nil
}

// IsOpened reports whether the port holds a socket whose TCP connection the
// OS still reports as established. A connection severed by the peer is
// noticed here and IsOpened returns false. Its resources are released unless
// bytes the peer sent before leaving are still waiting to be read, in which
// case Read keeps delivering them until io.EOF.
func (p *TCPSerialPort) IsOpened() bool {
	if p.state != StateOpen || p.conn == nil {
		return false
	}
	st := p.status()
	if st.established {
		return true
	}
	if st.pending == 0 {
		glog.V(1).Infof("serialtcp: connection to %s lost", p.address())
		p.Close()
	}
	return false
}

// readable reports whether Read may proceed: the connection is established,
// or the peer has closed its side but its data has not all been consumed.
// Anything else releases the port.
func (p *TCPSerialPort) readable() bool {
	if p.state != StateOpen || p.conn == nil {
		return false
	}
	if p.status().readable() {
		return true
	}
	glog.V(1).Infof("serialtcp: connection to %s lost", p.address())
	p.Close()
	return false
}

func (p *TCPSerialPort) status() status {
	st, err := connStatus(p.conn)
	if err != nil {
		glog.V(1).Infof("serialtcp: querying %s state: %v", p.address(), err)
	}
	return st
}

// status is what the OS reports about an open socket.
type status struct {
	established bool
	// closeWait is set once the peer's FIN has arrived.
	closeWait bool
	// pending is the number of received bytes not yet read.
	pending int
}

func (s status) readable() bool {
	return s.established || s.closeWait || s.pending > 0
}

// State returns the port state without querying the OS. Use IsOpened to
// detect a connection severed by the peer.
func (p *TCPSerialPort) State() State {
	return p.state
}

// Write writes all of b to the socket. It returns ErrNotOpen without
// attempting any I/O if the port is not open. Socket errors are returned
// unchanged.
func (p *TCPSerialPort) Write(b []byte) (int, error) {
	if !p.IsOpened() {
		return 0, ErrNotOpen
	}
	return p.out.write(b)
}

// WriteByte writes a single byte. See Write.
func (p *TCPSerialPort) WriteByte(c byte) error {
	_, err := p.Write([]byte{c})
	return err
}

// Read reads up to len(b) bytes, blocking at most the current read timeout.
// It returns ErrNotOpen without attempting any I/O if the port is not open.
// Bytes that arrived before the peer closed the connection are still
// returned. End of stream is then reported as io.EOF, and the port is
// released. An expired timeout is a net.Error whose Timeout method returns
// true.
func (p *TCPSerialPort) Read(b []byte) (int, error) {
	if !p.readable() {
		return 0, ErrNotOpen
	}
	n, err := p.in.read(b, p.readTimeout)
	if err == io.EOF {
		glog.V(1).Infof("serialtcp: %s closed by peer", p.address())
		p.Close()
	}
	return n, err
}

// ReadByte reads a single byte. See Read.
func (p *TCPSerialPort) ReadByte() (byte, error) {
	var b [1]byte
	n, err := p.Read(b[:])
	if n == 1 {
		return b[0], nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	return 0, err
}

// SetReadTimeout sets the bound for subsequent reads. Zero removes the bound.
// If the port is open the new deadline is also applied to the live socket on
// a best-effort basis: a failure is logged and otherwise ignored.
func (p *TCPSerialPort) SetReadTimeout(d time.Duration) {
	p.readTimeout = d
	if p.state != StateOpen || p.conn == nil {
		return
	}
	if err := p.conn.SetReadDeadline(deadline(d)); err != nil {
		glog.V(1).Infof("serialtcp: ignoring error applying read timeout "+
			"%v to %s: %v", d, p.address(), err)
	}
}

// ReadTimeout returns the bound currently applied to reads.
func (p *TCPSerialPort) ReadTimeout() time.Duration {
	return p.readTimeout
}

// PurgeRx does nothing. A TCP stream has no receive FIFO to discard.
func (p *TCPSerialPort) PurgeRx() error { return nil }

// PurgeTx does nothing. Writes are never held back, so there is nothing
// pending to discard.
func (p *TCPSerialPort) PurgeTx() error { return nil }

// Parameters returns the SerialParameters the port was created with.
func (p *TCPSerialPort) Parameters() SerialParameters {
	return p.sp
}

// TCPParameters returns the endpoint the port connects to. It may be nil.
func (p *TCPSerialPort) TCPParameters() *TCPParameters {
	return p.params
}

func (p *TCPSerialPort) address() string {
	if p.params == nil {
		return "<unconfigured>"
	}
	return p.params.Address()
}

// inputChannel is the read half of an open socket.
type inputChannel struct {
	conn *net.TCPConn
}

func (in *inputChannel) read(b []byte, timeout time.Duration) (int, error) {
	if err := in.conn.SetReadDeadline(deadline(timeout)); err != nil {
		return 0, err
	}
	return in.conn.Read(b)
}

func (in *inputChannel) close() error {
	return in.conn.CloseRead()
}

// outputChannel is the write half of an open socket.
type outputChannel struct {
	conn *net.TCPConn
}

func (out *outputChannel) write(b []byte) (int, error) {
	return out.conn.Write(b)
}

func (out *outputChannel) close() error {
	return out.conn.CloseWrite()
}

// deadline converts a timeout into an absolute deadline. A non-positive
// timeout yields the zero time, i.e. no deadline.
func deadline(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}
	return time.Now().Add(d)
}
