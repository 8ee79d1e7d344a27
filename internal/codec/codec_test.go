package codec

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allPaths enumerates every sequence of length 1..6 over levels 1..6
func allPaths() []Path {
	var out []Path
	var walk func(prefix Path)
	walk = func(prefix Path) {
		if len(prefix) > 0 {
			p := make(Path, len(prefix))
			copy(p, prefix)
			out = append(out, p)
		}
		if len(prefix) == MaxDepth {
			return
		}
		for level := MinLevel; level <= MaxLevel; level++ {
			walk(append(prefix, level))
		}
	}
	walk(nil)
	return out
}

func TestRoundTripAllPaths(t *testing.T) {
	paths := allPaths()
	require.Len(t, paths, 6+36+216+1296+7776+46656)

	for _, p := range paths {
		buf, err := Encode(p)
		require.NoError(t, err)
		require.Len(t, buf, len(p))

		got, err := Decode(buf)
		require.NoError(t, err)
		if !got.Equal(p) {
			t.Fatalf("round trip %v: got %v", p, got)
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	buf, err := Encode(Path{1, 2, 4})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 4}, buf)
	assert.Equal(t, "010204", Hex(buf))
}

func TestAppendEncode(t *testing.T) {
	dst := []byte{9}
	dst, err := AppendEncode(dst, Path{3, 5})
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 3, 5}, dst)

	_, err = AppendEncode(dst, nil)
	assert.Error(t, err)
}

func TestEncodeRejectsInvalidPaths(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want error
	}{
		{name: "empty", path: Path{}, want: ErrEmptyPath},
		{name: "nil", path: nil, want: ErrEmptyPath},
		{name: "level zero", path: Path{1, 0}, want: ErrInvalidLevel},
		{name: "level seven", path: Path{7}, want: ErrInvalidLevel},
		{name: "too deep", path: Path{1, 2, 3, 4, 5, 6, 6}, want: ErrPathTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
		})
	}
}

func TestDecodeRejectsInvalidBuffers(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{name: "empty", buf: []byte{}, want: ErrEmptyPath},
		{name: "zero byte", buf: []byte{1, 0}, want: ErrInvalidLevel},
		{name: "out of range", buf: []byte{0xff}, want: ErrInvalidLevel},
		{name: "too long", buf: []byte{1, 2, 3, 4, 5, 6, 1}, want: ErrPathTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.buf)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseHex(t *testing.T) {
	p, err := ParseHex(" 0102 ")
	require.NoError(t, err)
	assert.Equal(t, Path{1, 2}, p)

	_, err = ParseHex("zz")
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))

	_, err = ParseHex("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "[1 3]", Path{1, 3}.String())
	assert.True(t, Path{1, 3}.Equal(Path{1, 3}))
	assert.False(t, Path{1, 3}.Equal(Path{1}))
	assert.False(t, Path{1, 3}.Equal(Path{1, 4}))
}
