package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedCards int
		expectedFront string
		expectedBack  string
		expectedImgs  []string
		expectedAudio string
	}{
		{
			name:          "Simple Q&A",
			input:         "Q: What is the capital of France?\nA: Paris",
			expectedCards: 1,
			expectedFront: "What is the capital of France?",
			expectedBack:  "Paris",
		},
		{
			name:          "Images and audio",
			input:         "Q: el perro\nA: the dog\nI: img/dog.png, img/puppy.png\nS: audio/perro.mp3",
			expectedCards: 1,
			expectedFront: "el perro",
			expectedBack:  "the dog",
			expectedImgs:  []string{"img/dog.png", "img/puppy.png"},
			expectedAudio: "audio/perro.mp3",
		},
		{
			name: "Multiline Answer",
			input: `
Q: What are the primary colors?
A: Red
Blue
Yellow
`,
			expectedCards: 1,
			expectedFront: "What are the primary colors?",
			expectedBack:  "Red\nBlue\nYellow",
		},
		{
			name: "Two Cards",
			input: `
Q: First question
A: First answer

Q: Second question
A: Second answer
`,
			expectedCards: 2,
		},
		{
			name: "Separator ends a card",
			input: `
Q: First question
A: First answer
---
stray notes between cards
Q: Second question
A: Second answer
`,
			expectedCards: 2,
		},
		{
			name:          "No cards, just text",
			input:         "This is a file with no questions.",
			expectedCards: 0,
		},
		{
			name:          "Image line outside a card is ignored",
			input:         "I: img/orphan.png\nQ: Question\nA: Answer",
			expectedCards: 1,
			expectedFront: "Question",
			expectedBack:  "Answer",
		},
		{
			name:          "Answer continues after an image line",
			input:         "Q: capital of France\nA: Paris\nI: paris.png\nthe city of light\n---\n",
			expectedCards: 1,
			expectedFront: "capital of France",
			expectedBack:  "Paris\nthe city of light",
			expectedImgs:  []string{"paris.png"},
		},
		{
			name:          "Question continues after an audio line",
			input:         "Q: listen\nS: clip.mp3\nand translate\nA: escucha",
			expectedCards: 1,
			expectedFront: "listen\nand translate",
			expectedBack:  "escucha",
			expectedAudio: "clip.mp3",
		},
		{
			name:          "Prefixes with no space",
			input:         "Q:Question\nA:Answer",
			expectedCards: 1,
			expectedFront: "Question",
			expectedBack:  "Answer",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := Parse(strings.NewReader(tc.input))
			require.NoError(t, err)
			require.Len(t, cards, tc.expectedCards)

			if tc.expectedCards == 1 {
				card := cards[0]
				assert.Equal(t, tc.expectedFront, card.Front)
				assert.Equal(t, tc.expectedBack, card.Back)
				assert.Equal(t, tc.expectedImgs, card.ImageRefs)
				assert.Equal(t, tc.expectedAudio, card.AudioRef)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.md")
	require.NoError(t, os.WriteFile(path, []byte("Q: uno\nA: one\n---\nQ: dos\nA: two\n"), 0o644))

	cards, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "dos", cards[1].Front)
	assert.Equal(t, "two", cards[1].Back)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}
