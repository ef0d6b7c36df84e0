// Package deck models the card-oriented input format shared by NEC-family
// solvers. A deck is a sequence of cards, one per line, whose numeric
// formatting depends on the target dialect.
package deck

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Dialect selects the conventions of a target tool
type Dialect int

const (
	// NEC is the plain NEC-2 card deck
	NEC Dialect = iota
	// EZ is the EZNEC flavored deck
	EZ
)

func (d Dialect) String() string {
	switch d {
	case NEC:
		return "nec"
	case EZ:
		return "ez"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// Extension returns the conventional file extension, including the dot
func (d Dialect) Extension() string {
	return "." + d.String()
}

// SupportsCurrent reports whether the dialect has a current-print card
func (d Dialect) SupportsCurrent() bool {
	return d == NEC
}

// Coordinate formats a length in meters as fixed point
func (d Dialect) Coordinate(v float64) string {
	if d == EZ {
		return fmt.Sprintf("%.4f", v)
	}
	return fmt.Sprintf("%.6f", v)
}

// Conductivity formats σ in scientific notation with two fractional digits
func (d Dialect) Conductivity(v float64) string {
	if d == EZ {
		return fmt.Sprintf("%.2E", v)
	}
	return fmt.Sprintf("%.2e", v)
}

// Permittivity formats εr with one decimal
func (d Dialect) Permittivity(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Card is one line of a deck: a two-letter mnemonic followed by fields
type Card struct {
	Mnemonic string
	Fields   []string
}

// NewCard builds a card, formatting each field with %v
func NewCard(mnemonic string, fields ...any) Card {
	c := Card{Mnemonic: mnemonic, Fields: make([]string, len(fields))}
	for i, f := range fields {
		c.Fields[i] = fmt.Sprint(f)
	}
	return c
}

func (c Card) String() string {
	if len(c.Fields) == 0 {
		return c.Mnemonic
	}
	return c.Mnemonic + " " + strings.Join(c.Fields, " ")
}

// Deck is an ordered list of cards for one dialect
type Deck struct {
	Dialect Dialect
	Cards   []Card
}

// New creates an empty deck
func New(d Dialect) *Deck {
	return &Deck{Dialect: d}
}

// Add appends cards in order
func (d *Deck) Add(cards ...Card) {
	d.Cards = append(d.Cards, cards...)
}

// Count returns how many cards carry the mnemonic
func (d *Deck) Count(mnemonic string) int {
	n := 0
	for _, c := range d.Cards {
		if c.Mnemonic == mnemonic {
			n++
		}
	}
	return n
}

// WriteTo renders the deck, one card per line terminated by '\n'.
func (d *Deck) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, c := range d.Cards {
		written, err := bw.WriteString(c.String() + "\n")
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// String renders the deck as text
func (d *Deck) String() string {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.String()
}
