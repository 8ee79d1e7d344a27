package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommonMarkHeadings(t *testing.T) {
	src := "# A\n```\n# not a heading\n```\nSetext\n===\n## B *bold*\n"

	got := CommonMarkHeadings([]byte(src))
	require.Len(t, got, 3)

	assert.Equal(t, Heading{Line: 1, Level: 1, Title: "A"}, got[0])
	assert.Equal(t, Heading{Line: 5, Level: 1, Title: "Setext"}, got[1])
	assert.Equal(t, 7, got[2].Line)
	assert.Equal(t, 2, got[2].Level)
	assert.Equal(t, "B bold", got[2].Title)
}

func TestCommonMarkHeadingsAgreesOnPlainDocuments(t *testing.T) {
	src := "# One\ntext\n## Two\n### Three\n"

	strict := CommonMarkHeadings([]byte(src))
	loose := Headings(src)
	assert.Equal(t, loose, strict)
}

func TestCommonMarkEmptyHeadings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Heading
	}{
		{
			name: "bare marker",
			src:  "intro\n\n#\n\n## B\n",
			want: []Heading{{Line: 3, Level: 1}, {Line: 5, Level: 2, Title: "B"}},
		},
		{
			name: "closing sequence only",
			src:  "# A\n### ###\n",
			want: []Heading{{Line: 1, Level: 1, Title: "A"}, {Line: 2, Level: 3}},
		},
		{
			name: "marker inside fence is skipped",
			src:  "```\n#\n```\n#\n",
			want: []Heading{{Line: 4, Level: 1}},
		},
		{
			name: "repeated markers",
			src:  "#\n#\ntext\n#\n",
			want: []Heading{{Line: 1, Level: 1}, {Line: 2, Level: 1}, {Line: 4, Level: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommonMarkHeadings([]byte(tt.src)))
		})
	}
}

func TestLineOf(t *testing.T) {
	starts := lineStarts([]byte("ab\ncd\n\nef"))
	assert.Equal(t, []int{0, 3, 6, 7}, starts)
	assert.Equal(t, 1, lineOf(starts, 0))
	assert.Equal(t, 1, lineOf(starts, 2))
	assert.Equal(t, 2, lineOf(starts, 3))
	assert.Equal(t, 4, lineOf(starts, 8))
}
