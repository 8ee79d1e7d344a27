package codec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// MinLevel is the shallowest markdown heading level
	MinLevel = 1
	// MaxLevel is the deepest markdown heading level
	MaxLevel = 6
	// MaxDepth bounds a path: a stack of strictly increasing levels holds at most six entries
	MaxDepth = MaxLevel
)

const (
	emptyPathCode    = "EMPTY_PATH"
	invalidLevelCode = "INVALID_LEVEL"
	pathTooDeepCode  = "PATH_TOO_DEEP"
	invalidHexCode   = "INVALID_HEX"
)

var (
	// ErrEmptyPath is returned when encoding or decoding a path with no levels
	ErrEmptyPath = errors.New("path is empty")
	// ErrInvalidLevel is returned for a level outside 1..6
	ErrInvalidLevel = errors.New("heading level out of range")
	// ErrPathTooDeep is returned for a path longer than MaxDepth
	ErrPathTooDeep = errors.New("path deeper than six levels")
)

// Path is the chain of heading levels from the document root to a heading, inclusive
type Path []int

// String renders the path as "[1 2 3]"
func (p Path) String() string {
	return fmt.Sprint([]int(p))
}

// Equal reports whether two paths hold the same levels in the same order
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Encode serializes a path into a fresh buffer, one byte per level.
func Encode(p Path) ([]byte, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	buf := make([]byte, len(p))
	for i, level := range p {
		buf[i] = byte(level)
	}
	return buf, nil
}

// AppendEncode appends the encoded path to dst and returns the extended slice.
func AppendEncode(dst []byte, p Path) ([]byte, error) {
	if err := Validate(p); err != nil {
		return dst, err
	}
	for _, level := range p {
		dst = append(dst, byte(level))
	}
	return dst, nil
}

// Decode reconstructs the path stored in buf.
func Decode(buf []byte) (Path, error) {
	if len(buf) == 0 {
		return nil, invalid(ErrEmptyPath, emptyPathCode, "decode path")
	}
	if len(buf) > MaxDepth {
		return nil, invalid(ErrPathTooDeep, pathTooDeepCode, fmt.Sprintf("decode path of %d bytes", len(buf)))
	}
	p := make(Path, len(buf))
	for i, b := range buf {
		if b < MinLevel || b > MaxLevel {
			return nil, invalid(ErrInvalidLevel, invalidLevelCode, fmt.Sprintf("decode byte %d: level %d", i, b))
		}
		p[i] = int(b)
	}
	return p, nil
}

// Validate checks that a path is encodable.
func Validate(p Path) error {
	if len(p) == 0 {
		return invalid(ErrEmptyPath, emptyPathCode, "encode path")
	}
	if len(p) > MaxDepth {
		return invalid(ErrPathTooDeep, pathTooDeepCode, fmt.Sprintf("encode path of %d levels", len(p)))
	}
	for i, level := range p {
		if level < MinLevel || level > MaxLevel {
			return invalid(ErrInvalidLevel, invalidLevelCode, fmt.Sprintf("encode index %d: level %d", i, level))
		}
	}
	return nil
}

// Hex renders an encoded buffer as lowercase hex ("0102")
func Hex(buf []byte) string {
	return hex.EncodeToString(buf)
}

// ParseHex decodes a hex rendering back into a path.
func ParseHex(s string) (Path, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("parse hex %q", s)).
			WithTextCode(invalidHexCode)
	}
	return Decode(raw)
}

func invalid(sentinel error, code, msg string) error {
	return goerrors.Wrap(sentinel, goerrors.CategoryValidation, msg).WithTextCode(code)
}
