package stream

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Kind tells how a record's link becomes playable.
type Kind int

const (
	// KindStream links are handed to the player as is.
	KindStream Kind = iota
	// KindVideo links are page URLs resolved before playback.
	KindVideo
)

// ErrUnknownKind is returned for kind text that is neither Stream nor Video.
var ErrUnknownKind = errors.New("unknown stream kind")

// Kinds lists every kind in display order.
func Kinds() []Kind {
	return []Kind{KindStream, KindVideo}
}

// String returns the stored text form.
func (k Kind) String() string {
	if k == KindVideo {
		return "Video"
	}
	return "Stream"
}

// ParseKind reads kind text entered by a user or found in a document.
// Matching ignores case and any decorative emoji or spaces around the word.
func ParseKind(s string) (Kind, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)

	switch cleaned {
	case "stream":
		return KindStream, nil
	case "video":
		return KindVideo, nil
	default:
		return KindStream, fmt.Errorf("%w: %q", ErrUnknownKind, strings.TrimSpace(s))
	}
}

// DecodeKind is the lenient read-side counterpart of ParseKind.
// Anything unrecognised is treated as a stream.
func DecodeKind(s string) Kind {
	k, err := ParseKind(s)
	if err != nil {
		return KindStream
	}
	return k
}

// Toggle returns the other kind.
func (k Kind) Toggle() Kind {
	if k == KindVideo {
		return KindStream
	}
	return KindVideo
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
