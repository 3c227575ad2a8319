// Copyright 2026 Converter Systems LLC. All rights reserved.

package session

// State is the connection state of a Session.
type State int

// States of a Session. A Session is only ever Connecting while Dial runs.
const (
	Disconnected State = iota
	Connecting
	Connected
	Disconnecting
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Disconnecting:
		return "Disconnecting"
	default:
		return "Unknown"
	}
}
