// Package validator checks catalog links for liveness.
//
// Each record gets one bounded HEAD probe. A run can be cancelled between
// records; a probe already in flight always finishes or times out on its own.
package validator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grafov/m3u8"
	"github.com/quietstream/quietstream/config"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/network"
	"github.com/quietstream/quietstream/stream"
	"github.com/spf13/viper"
)

// DefaultTimeout bounds a single probe when no other value is configured.
const DefaultTimeout = 5 * time.Second

const maxPlaylistBytes = 4 << 20

// Options configures a Validator.
type Options struct {
	Timeout time.Duration
	// InspectPlaylists downloads .m3u8 links after a healthy HEAD and requires them to parse.
	InspectPlaylists bool
	// Client overrides the HTTP client. The per-probe timeout still applies.
	Client *http.Client
}

// Validator probes links.
type Validator struct {
	client  *http.Client
	timeout time.Duration
	inspect bool
}

// New returns a validator with the given options.
func New(opts Options) *Validator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Client == nil {
		opts.Client = network.NewClient(0)
	}
	return &Validator{
		client:  opts.Client,
		timeout: opts.Timeout,
		inspect: opts.InspectPlaylists,
	}
}

// FromConfig builds a validator from the validator.* settings.
func FromConfig() *Validator {
	return New(Options{
		Timeout:          config.Seconds(key.ValidatorTimeout),
		InspectPlaylists: viper.GetBool(key.ValidatorInspectPlaylists),
	})
}

// Probe checks a single link. ctx cancellation is not observed mid-probe; only the timeout is.
func (v *Validator) Probe(ctx context.Context, link string) Outcome {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return Outcome{Failure: FailureOther, Err: err}
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return classify(err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return Outcome{Failure: FailureStatus, Status: resp.StatusCode}
	}

	if v.inspect && isPlaylist(link) {
		if err := v.inspectPlaylist(ctx, link); err != nil {
			if out := classify(err); out.Failure == FailureTimeout {
				return out
			}
			return Outcome{Failure: FailurePlaylist, Status: resp.StatusCode, Err: err}
		}
	}

	return healthy(resp.StatusCode)
}

func (v *Validator) inspectPlaylist(ctx context.Context, link string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("playlist request returned HTTP %d", resp.StatusCode)
	}

	playlist, listType, err := m3u8.DecodeFrom(io.LimitReader(resp.Body, maxPlaylistBytes), true)
	if err != nil {
		return fmt.Errorf("decode playlist: %w", err)
	}

	switch listType {
	case m3u8.MASTER:
		master := playlist.(*m3u8.MasterPlaylist)
		if len(master.Variants) == 0 {
			return fmt.Errorf("master playlist has no variants")
		}
	case m3u8.MEDIA:
		media := playlist.(*m3u8.MediaPlaylist)
		if media.Count() == 0 && media.Closed {
			return fmt.Errorf("media playlist has no segments")
		}
	}
	return nil
}

func isPlaylist(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".m3u8")
}

// Validate probes every record in order and returns the partition.
// onProgress, when non-nil, is called after each probe.
// Cancelling ctx stops the run before the next record.
func (v *Validator) Validate(ctx context.Context, records []stream.Record, onProgress func(Progress)) Result {
	result := Result{
		Healthy: make([]stream.Record, 0),
		Broken:  make([]stream.Record, 0),
	}

	total := len(records)
	for i, r := range records {
		if ctx.Err() != nil {
			result.Cancelled = true
			log.Infof("validation cancelled after %d of %d links", i, total)
			break
		}

		out := v.Probe(ctx, r.Link)
		if out.Healthy {
			result.Healthy = append(result.Healthy, r)
		} else {
			result.Broken = append(result.Broken, r)
			log.WithField("failure", string(out.Failure)).
				WithField("id", r.ID).
				Warnf("link check failed for %q: %s", r.Name, out.Detail())
		}

		if onProgress != nil {
			onProgress(Progress{Index: i + 1, Total: total, Record: r, Outcome: out})
		}
	}

	return result
}

// Run is a validation pass executing in the background.
type Run struct {
	progress chan Progress
	cancel   context.CancelFunc
	done     chan struct{}
	result   Result
}

// Start begins validating records in a new goroutine.
func (v *Validator) Start(ctx context.Context, records []stream.Record) *Run {
	ctx, cancel := context.WithCancel(ctx)
	run := &Run{
		// Sized so the worker never blocks on a consumer that stopped reading.
		progress: make(chan Progress, len(records)),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(run.done)
		defer close(run.progress)
		defer cancel()

		run.result = v.Validate(ctx, records, func(p Progress) {
			run.progress <- p
		})
	}()

	return run
}

// Progress yields one value per probed record and is closed when the run ends.
func (r *Run) Progress() <-chan Progress {
	return r.progress
}

// Cancel stops the run before its next record. It is safe to call more than once.
func (r *Run) Cancel() {
	r.cancel()
}

// Done is closed once the result is available.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run ends and returns its result.
func (r *Run) Wait() Result {
	<-r.done
	return r.result
}
