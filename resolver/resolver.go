// Package resolver turns video page links into directly playable media URLs using yt-dlp.
package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/quietstream/quietstream/config"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var (
	// ErrNotInstalled means the yt-dlp executable could not be found.
	ErrNotInstalled = errors.New("yt-dlp is not installed")
	// ErrTimeout means resolution did not finish in time.
	ErrTimeout = errors.New("resolution timed out")
	// ErrNetwork means yt-dlp could not reach the site.
	ErrNetwork = errors.New("network error while resolving")
	// ErrUnsupported means the page holds no media yt-dlp can extract.
	ErrUnsupported = errors.New("unsupported source")
	// ErrFailed covers every other yt-dlp failure.
	ErrFailed = errors.New("resolution failed")
)

// Resolver extracts a playable URL from a page URL.
type Resolver interface {
	Resolve(ctx context.Context, pageURL string) (string, error)
}

const (
	DefaultPath    = "yt-dlp"
	DefaultFormat  = "bestaudio/best"
	DefaultTimeout = time.Minute
)

var (
	networkMarkers = []string{
		"unable to download",
		"timed out",
		"temporary failure in name resolution",
		"name or service not known",
		"connection refused",
		"connection reset",
		"network is unreachable",
		"http error 5",
	}
	unsupportedMarkers = []string{
		"unsupported url",
		"is not a valid url",
		"no video formats found",
		"requested format is not available",
		"video unavailable",
		"private video",
	}
)

// YtDlp runs the yt-dlp executable once per resolution.
type YtDlp struct {
	Path    string
	Format  string
	Timeout time.Duration
}

// New returns a yt-dlp resolver, filling zero values with defaults.
func New(path, format string, timeout time.Duration) *YtDlp {
	return &YtDlp{
		Path:    lo.Ternary(path == "", DefaultPath, path),
		Format:  lo.Ternary(format == "", DefaultFormat, format),
		Timeout: lo.Ternary(timeout <= 0, DefaultTimeout, timeout),
	}
}

// FromConfig builds a resolver from the resolver.* settings.
func FromConfig() *YtDlp {
	return New(
		viper.GetString(key.ResolverPath),
		viper.GetString(key.ResolverFormat),
		config.Seconds(key.ResolverTimeout),
	)
}

// Available reports whether the executable can be found.
func (y *YtDlp) Available() bool {
	_, err := exec.LookPath(y.Path)
	return err == nil
}

func (y *YtDlp) args(pageURL string) []string {
	return []string{"-f", y.Format, "--no-playlist", "--no-warnings", "-g", pageURL}
}

// Resolve runs yt-dlp and returns the first URL it prints.
func (y *YtDlp) Resolve(ctx context.Context, pageURL string) (string, error) {
	path, err := exec.LookPath(y.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, y.Path)
	}

	ctx, cancel := context.WithTimeout(ctx, y.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, y.args(pageURL)...)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	runErr := cmd.Run()
	log.Debugf("yt-dlp finished in %s for %s", time.Since(started).Round(time.Millisecond), pageURL)

	if runErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, y.Timeout)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", classify(stderr.String(), runErr)
	}

	url, ok := firstLine(stdout.String())
	if !ok {
		return "", fmt.Errorf("%w: yt-dlp returned no url", ErrUnsupported)
	}
	return url, nil
}

func firstLine(out string) (string, bool) {
	return lo.Find(strings.Split(out, "\n"), func(line string) bool {
		return strings.TrimSpace(line) != ""
	})
}

func classify(stderr string, runErr error) error {
	msg := strings.TrimSpace(stderr)
	lower := strings.ToLower(msg)
	detail := lo.Ternary(msg == "", runErr.Error(), lastLine(msg))

	containsAny := func(markers []string) bool {
		return lo.SomeBy(markers, func(m string) bool {
			return strings.Contains(lower, m)
		})
	}

	switch {
	case containsAny(unsupportedMarkers):
		return fmt.Errorf("%w: %s", ErrUnsupported, detail)
	case containsAny(networkMarkers):
		return fmt.Errorf("%w: %s", ErrNetwork, detail)
	default:
		return fmt.Errorf("%w: %s", ErrFailed, detail)
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
