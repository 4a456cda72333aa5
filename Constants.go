package serialtcp

import (
	"time"
)

// DefaultPort is the default port number for Modbus TCP
const (
	DefaultPort = 502
)

// DefaultConnectTimeout and DefaultResponseTimeout are the upper bounds used
// when no Config overrides them. DefaultConnectTimeout bounds connection
// establishment in Open. DefaultResponseTimeout bounds every Read.
const (
	DefaultConnectTimeout  = 3 * time.Second
	DefaultResponseTimeout = 1 * time.Second
)

// State is the open/closed state of a SerialPort.
type State byte

// The possible SerialPort states.
const (
	StateClosed State = iota
	StateOpen
)

// StateNames maps state name strings by their State
var StateNames = map[State]string{
	StateClosed: "Closed",
	StateOpen:   "Open",
}

func (s State) String() string {
	if name, ok := StateNames[s]; ok {
		return name
	}
	return "Unknown"
}
