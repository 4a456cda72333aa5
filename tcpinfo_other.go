//go:build !linux

package serialtcp

import (
	"net"
)

// connStatus reports whether conn is still usable. Without TCP_INFO the
// socket can only be checked for having been closed locally. A connection
// dropped by the peer is then detected by the next Read (io.EOF) or Write.
func connStatus(conn *net.TCPConn) (status, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return status{}, err
	}
	if err := raw.Control(func(uintptr) {}); err != nil {
		return status{}, err
	}
	return status{established: true}, nil
}
