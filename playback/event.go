package playback

import (
	"github.com/quietstream/quietstream/player"
	"github.com/quietstream/quietstream/stream"
)

// EventKind identifies what happened in the background.
type EventKind int

const (
	// EventStarted carries a player that is now playing the selected record.
	EventStarted EventKind = iota
	// EventFailed reports that resolution or player start failed.
	EventFailed
	// EventEnd reports that the media reached its end.
	EventEnd
	// EventExited reports that the player process went away.
	EventExited
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventFailed:
		return "failed"
	case EventEnd:
		return "end"
	case EventExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Event is posted by background work and applied on the owning goroutine with Session.Apply.
type Event struct {
	Kind  EventKind
	Token uint64
	// Record is the record the originating selection was for.
	Record stream.Record
	// Player is set on EventStarted.
	Player player.Player
	// URL is the playable URL on EventStarted.
	URL string
	// Err is set on EventFailed.
	Err error
}
