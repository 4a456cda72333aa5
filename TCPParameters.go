package serialtcp

import (
	"net"
	"strconv"
)

// TCPParameters holds the remote endpoint of a TCPSerialPort and whether TCP
// keep-alive probes are enabled on it. It is immutable once created; all
// fields are read through getters.
type TCPParameters struct {
	host      string
	port      int
	keepAlive bool
}

// NewTCPParameters returns TCPParameters for the given endpoint. A port of 0
// selects DefaultPort.
func NewTCPParameters(host string, port int, keepAlive bool) *TCPParameters {
	if port == 0 {
		port = DefaultPort
	}
	return &TCPParameters{host: host, port: port, keepAlive: keepAlive}
}

// Host returns the remote host name or IP address.
func (p *TCPParameters) Host() string { return p.host }

// Port returns the remote TCP port.
func (p *TCPParameters) Port() int { return p.port }

// KeepAlive reports whether TCP keep-alive probes are enabled.
func (p *TCPParameters) KeepAlive() bool { return p.keepAlive }

// Address returns the "host:port" dial address.
func (p *TCPParameters) Address() string {
	return net.JoinHostPort(p.host, strconv.Itoa(p.port))
}

func (p *TCPParameters) String() string {
	return "tcp://" + p.Address()
}
