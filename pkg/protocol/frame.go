package protocol

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the maximum number of bytes consumed by one read.
const DefaultChunkSize = 256

var (
	// ErrEndOfStream is returned when a read produced no bytes.
	ErrEndOfStream = errors.New("end of stream")

	// ErrInvalidUTF8 is returned by a strict Decoder for malformed input.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 in frame")
)

// DecodePolicy selects how malformed UTF-8 is handled.
type DecodePolicy int

const (
	// DecodeStrict rejects malformed frames with ErrInvalidUTF8.
	DecodeStrict DecodePolicy = iota
	// DecodeReplace substitutes U+FFFD for each invalid sequence.
	DecodeReplace
)

// String returns the configuration name of the policy.
func (p DecodePolicy) String() string {
	switch p {
	case DecodeStrict:
		return "strict"
	case DecodeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// ParseDecodePolicy maps a configuration name to a DecodePolicy.
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return DecodeStrict, nil
	case "replace":
		return DecodeReplace, nil
	default:
		return DecodeStrict, fmt.Errorf("unknown decode policy %q", s)
	}
}

// Decoder converts one read chunk into a frame.
type Decoder struct {
	Policy DecodePolicy
}

// Decode returns the chunk as text. An empty chunk is the end of the stream,
// never an empty frame.
func (d Decoder) Decode(chunk []byte) (string, error) {
	if len(chunk) == 0 {
		return "", ErrEndOfStream
	}
	if utf8.Valid(chunk) {
		return string(chunk), nil
	}
	if d.Policy == DecodeReplace {
		return strings.ToValidUTF8(string(chunk), string(utf8.RuneError)), nil
	}
	return "", fmt.Errorf("%w: % x", ErrInvalidUTF8, chunk)
}
