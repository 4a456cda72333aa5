package serialtcp

import (
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testConfig keeps tests that hit timeouts fast.
var testConfig = Config{
	ConnectTimeout:  500 * time.Millisecond,
	ResponseTimeout: 500 * time.Millisecond,
}

// testServer is an in-process TCP peer. Each accepted connection is handed to
// handle on its own goroutine.
type testServer struct {
	ln    net.Listener
	conns chan net.Conn
	wg    sync.WaitGroup

	mu  sync.Mutex
	all []net.Conn
}

func startTestServer(t *testing.T, handle func(net.Conn)) *testServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &testServer{ln: ln, conns: make(chan net.Conn, 16)}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.all = append(s.all, c)
			s.mu.Unlock()
			select {
			case s.conns <- c:
			default:
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				handle(c)
			}()
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		// Unblock handlers still reading.
		s.mu.Lock()
		for _, c := range s.all {
			c.Close()
		}
		s.mu.Unlock()
		s.wg.Wait()
	})
	return s
}

// startEchoServer echoes everything it receives until the client hangs up.
func startEchoServer(t *testing.T) *testServer {
	return startTestServer(t, func(c net.Conn) {
		io.Copy(c, c)
	})
}

// startSilentServer accepts connections and never writes.
func startSilentServer(t *testing.T) *testServer {
	return startTestServer(t, func(c net.Conn) {
		io.Copy(io.Discard, c)
	})
}

func (s *testServer) params(keepAlive bool) *TCPParameters {
	addr := s.ln.Addr().(*net.TCPAddr)
	return NewTCPParameters(addr.IP.String(), addr.Port, keepAlive)
}

// accepted waits for the server side of the next connection.
func (s *testServer) accepted(t *testing.T) net.Conn {
	t.Helper()
	select {
	case c := <-s.conns:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("server did not accept a connection")
	}
	return nil
}

// closedPortParams returns parameters for a local port nothing listens on.
func closedPortParams(t *testing.T) *TCPParameters {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return NewTCPParameters("127.0.0.1", p, false)
}
