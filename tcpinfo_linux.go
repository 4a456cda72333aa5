//go:build linux

package serialtcp

import (
	"net"

	"golang.org/x/sys/unix"
)

// TCP states from include/net/tcp_states.h.
const (
	tcpEstablished = 1
	tcpCloseWait   = 8
)

// connStatus asks the kernel for the TCP state of conn and how many received
// bytes are still unread. Once the peer has sent FIN or RST the state moves
// away from ESTABLISHED, even though the local socket is still open and may
// still hold the peer's last bytes.
func connStatus(conn *net.TCPConn) (status, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return status{}, err
	}
	var st status
	var serr error
	err = raw.Control(func(fd uintptr) {
		var info *unix.TCPInfo
		info, serr = unix.GetsockoptTCPInfo(int(fd), unix.IPPROTO_TCP,
			unix.TCP_INFO)
		if serr != nil {
			return
		}
		st.established = info.State == tcpEstablished
		st.closeWait = info.State == tcpCloseWait
		st.pending, serr = unix.IoctlGetInt(int(fd), unix.SIOCINQ)
	})
	if err != nil {
		return status{}, err
	}
	if serr != nil {
		return status{}, serr
	}
	return st, nil
}
