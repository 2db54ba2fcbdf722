package codegen

import (
	"errors"
	"fmt"
	"iter"

	"github.com/jaevor/go-nanoid"
)

var ErrNanoIDLength = errors.New("nanoid codes must be at least two symbols long")

// NanoID draws codes symbol by symbol with go-nanoid. Each symbol is uniform
// over the alphabet, so codes are uniform over alphabet^length.
type NanoID struct {
	next   func() string
	length int
}

// NewNanoID creates a nanoid-backed source. go-nanoid requires length >= 2.
func NewNanoID(length int, alphabet string) (*NanoID, error) {
	if !validAlphabet(alphabet) {
		return nil, ErrAlphabetTooShort
	}

	if length < 2 {
		return nil, ErrNanoIDLength
	}

	next, err := nanoid.CustomASCII(alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("nanoid generator: %w", err)
	}

	return &NanoID{next: next, length: length}, nil
}

// Length returns the configured code length.
func (n *NanoID) Length() int {
	return n.length
}

// Next returns a fresh code.
func (n *NanoID) Next() string {
	return n.next()
}

// Candidates returns an infinite sequence of codes.
func (n *NanoID) Candidates() iter.Seq[string] {
	return func(yield func(string) bool) {
		for yield(n.next()) {
		}
	}
}
