// Package codegen produces fixed-length candidate short codes.
package codegen

import (
	"crypto/rand"
	"errors"
	"io"
	"iter"
	"math/big"
	"strings"
)

// Alphabet is digits and lowercase letters without vowels and without the
// easily confused 1, l and 0.
const Alphabet = "23456789bcdfghjkmnpqrstvwxyz"

// DefaultLength is the default length of generated codes.
const DefaultLength = 6

var (
	ErrAlphabetTooShort = errors.New("alphabet must have at least two distinct symbols")
	ErrInvalidLength    = errors.New("code length must not be negative")
)

// Encode renders n in positional notation over alphabet. Zero encodes to the
// alphabet's first symbol.
func Encode(n *big.Int, alphabet string) string {
	if n.Sign() == 0 {
		return alphabet[:1]
	}

	base := big.NewInt(int64(len(alphabet)))
	rest := new(big.Int).Set(n)
	digit := new(big.Int)

	var out []byte

	for rest.Sign() > 0 {
		rest.DivMod(rest, base, digit)
		out = append(out, alphabet[digit.Int64()])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return string(out)
}

// Generator draws codes uniformly from alphabet^length.
type Generator struct {
	alphabet string
	length   int
	random   io.Reader
	space    *big.Int
}

// Option configures a Generator.
type Option func(*Generator)

// WithAlphabet overrides the default Alphabet.
func WithAlphabet(alphabet string) Option {
	return func(g *Generator) {
		g.alphabet = alphabet
	}
}

// WithRandom overrides the random source. The default is crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		g.random = r
	}
}

// NewGenerator creates a generator of codes with the given length.
func NewGenerator(length int, opts ...Option) (*Generator, error) {
	g := &Generator{
		alphabet: Alphabet,
		length:   length,
		random:   rand.Reader,
	}

	for _, opt := range opts {
		opt(g)
	}

	if length < 0 {
		return nil, ErrInvalidLength
	}

	if !validAlphabet(g.alphabet) {
		return nil, ErrAlphabetTooShort
	}

	g.space = new(big.Int).Exp(big.NewInt(int64(len(g.alphabet))), big.NewInt(int64(length)), nil)

	return g, nil
}

// Length returns the configured code length.
func (g *Generator) Length() int {
	return g.length
}

// Next returns a fresh pseudo-random code. It panics if the random source
// fails, which crypto/rand never does.
func (g *Generator) Next() string {
	n, err := rand.Int(g.random, g.space)
	if err != nil {
		panic("codegen: random source failed: " + err.Error())
	}

	code := Encode(n, g.alphabet)
	if pad := g.length - len(code); pad > 0 {
		code = strings.Repeat(g.alphabet[:1], pad) + code
	}

	return code
}

// Candidates returns an infinite sequence of codes. Every range over the
// returned sequence starts a new run.
func (g *Generator) Candidates() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			if !yield(g.Next()) {
				return
			}
		}
	}
}

func validAlphabet(alphabet string) bool {
	if len(alphabet) < 2 {
		return false
	}

	seen := make(map[byte]struct{}, len(alphabet))

	for i := 0; i < len(alphabet); i++ {
		if _, dup := seen[alphabet[i]]; dup {
			return false
		}

		seen[alphabet[i]] = struct{}{}
	}

	return true
}
