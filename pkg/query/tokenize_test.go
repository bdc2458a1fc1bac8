package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and strips punctuation",
			text: "What causes Intracranial Aneurysm rupture?",
			want: []string{"causes", "intracranial", "aneurysm", "rupture"},
		},
		{
			name: "removes stop words",
			text: "the role of inflammation in the arterial wall",
			want: []string{"role", "inflammation", "arterial", "wall"},
		},
		{
			name: "empty input",
			text: "   ",
			want: nil,
		},
		{
			name: "all stop words",
			text: "and or the",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestSpansBySizeOrdering(t *testing.T) {
	tokens := []string{"intracranial", "aneurysm", "rupture"}
	spans := spansBySize(tokens, 3)

	var texts []string
	for _, sp := range spans {
		texts = append(texts, sp.Text)
	}
	assert.Equal(t, []string{
		"intracranial aneurysm rupture",
		"intracranial aneurysm",
		"aneurysm rupture",
		"intracranial",
		"aneurysm",
		"rupture",
	}, texts)
}

func TestSpansBySizeCapsAtTokenCount(t *testing.T) {
	spans := spansBySize([]string{"inflammation"}, 3)
	assert.Len(t, spans, 1)
	assert.Equal(t, "inflammation", spans[0].Text)
}
