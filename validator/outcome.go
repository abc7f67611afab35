package validator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"github.com/quietstream/quietstream/stream"
)

// Failure classifies why a link was considered broken.
type Failure string

const (
	FailureNone       Failure = ""
	FailureTimeout    Failure = "timeout"
	FailureConnection Failure = "connection"
	FailureStatus     Failure = "status"
	FailurePlaylist   Failure = "playlist"
	FailureOther      Failure = "other"
)

// Outcome is the result of probing a single link.
type Outcome struct {
	Healthy bool
	Failure Failure
	// Status is the HTTP status code, zero when no response arrived.
	Status int
	Err    error
}

// Summary is the short text shown to users. Every failure reads as unavailable.
func (o Outcome) Summary() string {
	if o.Healthy {
		return "available"
	}
	return "unavailable"
}

// Detail describes the failure for logs and headless output.
func (o Outcome) Detail() string {
	switch {
	case o.Healthy:
		return fmt.Sprintf("HTTP %d", o.Status)
	case o.Failure == FailureStatus:
		return fmt.Sprintf("%s: HTTP %d", o.Failure, o.Status)
	case o.Err != nil:
		return fmt.Sprintf("%s: %v", o.Failure, o.Err)
	default:
		return string(o.Failure)
	}
}

// Progress is emitted once per probed record.
type Progress struct {
	// Index is 1-based.
	Index   int
	Total   int
	Record  stream.Record
	Outcome Outcome
}

// Result partitions the probed records.
type Result struct {
	Healthy []stream.Record
	Broken  []stream.Record
	// Cancelled is set when the run stopped before probing every record.
	// Unprobed records appear in neither list.
	Cancelled bool
}

// BrokenIDs returns the ids of every broken record.
func (r Result) BrokenIDs() []int64 {
	ids := make([]int64, len(r.Broken))
	for i, rec := range r.Broken {
		ids[i] = rec.ID
	}
	return ids
}

func healthy(status int) Outcome {
	return Outcome{Healthy: true, Status: status}
}

func classify(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Failure: FailureTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Outcome{Failure: FailureTimeout, Err: err}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return Outcome{Failure: FailureConnection, Err: err}
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
		return Outcome{Failure: FailureConnection, Err: err}
	}

	return Outcome{Failure: FailureOther, Err: err}
}
