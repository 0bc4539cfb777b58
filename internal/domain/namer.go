package domain

import (
	_ "embed"
	"math/rand"
	"strconv"
	"strings"
	"sync"
)

//go:embed words.txt
var wordsFile string

const (
	defaultNameWords = 3
	maxNameAttempts  = 1024
)

var vocabulary = sync.OnceValue(func() []string {
	return strings.Fields(wordsFile)
})

// Namer mints identifiers for extracted temporaries. A Namer holds the history
// of one lowering run and must not be shared between runs.
type Namer interface {
	// NextName returns a name for the temporary labelled seed.
	NextName(seed string) string
	// Reserve marks names as taken so random names never collide with them.
	Reserve(names ...string)
}

// NamerConfig selects the naming mode of a run.
type NamerConfig struct {
	Numbered bool
	Seed     int64
	Words    int
}

// NamerFactory creates a fresh Namer for every run.
type NamerFactory func() Namer

// NewNamerFactory returns a factory producing namers configured by cfg.
func NewNamerFactory(cfg NamerConfig) NamerFactory {
	return func() Namer {
		return NewNamer(cfg)
	}
}

type namer struct {
	numbered bool
	words    int
	rng      *rand.Rand
	used     map[string]struct{}
}

// NewNamer creates a Namer. In numbered mode the seed label is returned as is;
// otherwise names are built from capitalized vocabulary words drawn from a
// generator seeded with cfg.Seed.
func NewNamer(cfg NamerConfig) Namer {
	words := cfg.Words
	if words <= 0 {
		words = defaultNameWords
	}

	return &namer{
		numbered: cfg.Numbered,
		words:    words,
		// #nosec G404 - names must be reproducible, not secret
		rng:  rand.New(rand.NewSource(cfg.Seed)),
		used: make(map[string]struct{}),
	}
}

func (n *namer) NextName(seed string) string {
	if n.numbered {
		n.used[seed] = struct{}{}
		return seed
	}

	for attempt := 0; ; attempt++ {
		name := n.randomName()
		if attempt >= maxNameAttempts {
			name += strconv.Itoa(attempt)
		}

		if _, taken := n.used[name]; !taken {
			n.used[name] = struct{}{}
			return name
		}
	}
}

func (n *namer) Reserve(names ...string) {
	for _, name := range names {
		n.used[name] = struct{}{}
	}
}

func (n *namer) randomName() string {
	vocab := vocabulary()

	var b strings.Builder

	for i := 0; i < n.words; i++ {
		word := vocab[n.rng.Intn(len(vocab))]
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}

	return b.String()
}
