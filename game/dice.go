package game

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"
	"sync"

	"dicepot/models"
)

const (
	// DieFaces is the number of faces on each die
	DieFaces = 6
	// DiceCount is the number of dice thrown per roll
	DiceCount = 3
)

// DiceSource produces three independent, uniformly distributed die values in [1,6].
// Implementations must be safe for concurrent use.
type DiceSource interface {
	Roll() models.DiceTriple
}

// CryptoDice draws dice from the operating system's CSPRNG.
type CryptoDice struct{}

// NewCryptoDice creates the default production dice source
func NewCryptoDice() *CryptoDice {
	return &CryptoDice{}
}

// Roll throws three dice
func (CryptoDice) Roll() models.DiceTriple {
	var d models.DiceTriple
	bound := big.NewInt(DieFaces)
	for i := range d {
		n, err := rand.Int(rand.Reader, bound)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is unusable
			panic("crypto/rand unavailable: " + err.Error())
		}
		d[i] = int(n.Int64()) + 1
	}
	return d
}

// SeededDice is a deterministic dice source for simulations and reproducible runs.
type SeededDice struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeededDice creates a dice source seeded with the given value
func NewSeededDice(seed int64) *SeededDice {
	return &SeededDice{rng: mathrand.New(mathrand.NewSource(seed))}
}

// Roll throws three dice
func (s *SeededDice) Roll() models.DiceTriple {
	s.mu.Lock()
	defer s.mu.Unlock()

	var d models.DiceTriple
	for i := range d {
		d[i] = s.rng.Intn(DieFaces) + 1
	}
	return d
}

// FixedDice replays a fixed sequence of throws, cycling when exhausted.
type FixedDice struct {
	mu     sync.Mutex
	throws []models.DiceTriple
	next   int
}

// NewFixedDice creates a dice source that returns the given throws in order
func NewFixedDice(throws ...models.DiceTriple) *FixedDice {
	if len(throws) == 0 {
		panic("game: NewFixedDice needs at least one throw")
	}
	return &FixedDice{throws: throws}
}

// Roll returns the next throw in the sequence
func (f *FixedDice) Roll() models.DiceTriple {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := f.throws[f.next%len(f.throws)]
	f.next++
	return d
}
