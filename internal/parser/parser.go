// Package parser reads flash cards from markdown files.
//
// A card starts with a "Q:" line and may continue over several lines.
// "A:" starts the answer, "I:" lists comma separated image references
// and "S:" names an audio reference. Media lines do not close the text
// field they interrupt. A line holding only "---" ends the current card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/Nati35/NEMO/internal/domain"
)

const (
	frontPrefix = "Q:"
	backPrefix  = "A:"
	imagePrefix = "I:"
	audioPrefix = "S:"
	separator   = "---"
)

type state int

const (
	seeking state = iota
	readingFront
	readingBack
)

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. Only content is
// filled in; ids and schedules are left for the caller.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card
	var current domain.Card
	var block []string
	st := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(block, "\n"), "\n")
		switch st {
		case readingFront:
			current.Front = content
		case readingBack:
			current.Back = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Front != "" {
			cards = append(cards, current)
		}
		current = domain.Card{}
		st = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == separator:
			finishCard()

		case strings.HasPrefix(line, frontPrefix):
			// A new question always starts a new card.
			finishCard()
			st = readingFront
			block = append(block, field(line, frontPrefix))

		case strings.HasPrefix(line, backPrefix):
			flushBlock()
			st = readingBack
			block = append(block, field(line, backPrefix))

		case strings.HasPrefix(line, imagePrefix) && st != seeking:
			for _, ref := range strings.Split(field(line, imagePrefix), ",") {
				if ref = strings.TrimSpace(ref); ref != "" {
					current.ImageRefs = append(current.ImageRefs, ref)
				}
			}

		case strings.HasPrefix(line, audioPrefix) && st != seeking:
			current.AudioRef = strings.TrimSpace(field(line, audioPrefix))

		case st != seeking && len(block) > 0:
			block = append(block, line)
		}
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

func field(line, prefix string) string {
	return strings.TrimPrefix(line[len(prefix):], " ")
}
