// Package playback drives one clip at a time from decoder to screen.
package playback

import "errors"

// State is the controller's lifecycle position.
type State int32

const (
	Idle State = iota
	Starting
	Playing
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Playing:
		return "playing"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// StopReason says why a session ended.
type StopReason int

const (
	UserCancel StopReason = iota
	EndOfStream
	Shutdown
)

func (r StopReason) String() string {
	switch r {
	case UserCancel:
		return "user-cancel"
	case EndOfStream:
		return "end-of-stream"
	case Shutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ErrBusy is returned by Play when a session is already in progress.
var ErrBusy = errors.New("playback already in progress")

// Result summarises a finished session.
type Result struct {
	Reason        StopReason
	Quit          bool // the window was closed during playback
	FramesShown   int
	FramesRead    uint64
	FramesDropped uint64
	JoinTimedOut  bool
}
