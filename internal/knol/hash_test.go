package knol

import (
	"testing"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	card := domain.Card{
		Front:     "  What is HTMX? \r\n",
		Back:      "A library for AJAX.",
		ImageRefs: []string{" img/HTMX.png "},
		AudioRef:  "audio/htmx.mp3",
	}
	expected := "what is htmx?\na library for ajax.\nimg/HTMX.png\naudio/htmx.mp3"
	assert.Equal(t, expected, Normalize(card))
}

func TestHash(t *testing.T) {
	t.Run("hash is hex sha256", func(t *testing.T) {
		assert.Len(t, Hash(domain.Card{Front: "Q", Back: "A"}), 64)
	})

	t.Run("hash is deterministic", func(t *testing.T) {
		card1 := domain.Card{Front: "Test"}
		card2 := domain.Card{Front: "Test"}
		assert.Equal(t, Hash(card1), Hash(card2))
	})

	t.Run("normalization produces same hash", func(t *testing.T) {
		card1 := domain.Card{Front: "  what is go? ", Back: "A programming language."}
		card2 := domain.Card{Front: "What Is Go?", Back: "A programming language."}
		assert.Equal(t, Hash(card1), Hash(card2))
	})

	t.Run("schedule does not affect hash", func(t *testing.T) {
		card1 := domain.Card{ID: "a", Front: "uno"}
		card2 := domain.Card{ID: "b", Front: "uno", Schedule: domain.Schedule{Interval: 9}}
		assert.Equal(t, Hash(card1), Hash(card2))
	})

	t.Run("different cards have different hashes", func(t *testing.T) {
		assert.NotEqual(t, Hash(domain.Card{Front: "Card 1"}), Hash(domain.Card{Front: "Card 2"}))
		assert.NotEqual(t,
			Hash(domain.Card{Front: "perro", ImageRefs: []string{"a.png"}}),
			Hash(domain.Card{Front: "perro", ImageRefs: []string{"b.png"}}),
		)
		assert.NotEqual(t,
			Hash(domain.Card{Front: "ab", Back: "c"}),
			Hash(domain.Card{Front: "a", Back: "bc"}),
		)
	})
}
