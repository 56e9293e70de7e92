package vocab

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

const (
	// DefaultCapacity is the number of words a tier holds unless Options says otherwise.
	DefaultCapacity = 1000
	// MaxWordLen is the longest stored word in bytes.
	MaxWordLen = 31
)

var (
	// ErrTierFull is returned by Add once a tier holds Cap words.
	ErrTierFull = errors.New("tier is full")
	// ErrEmptyWord is returned by Add for "".
	ErrEmptyWord = errors.New("empty word")
	// ErrWordTooLong is returned by Add for words over MaxWordLen bytes.
	ErrWordTooLong = errors.New("word exceeds max length")
	// ErrInvalidCapacity is returned when a tier cannot be allocated.
	ErrInvalidCapacity = errors.New("invalid tier capacity")
)

// TierID names one of the five vocabulary tiers.
type TierID int

const (
	FunctionWords TierID = iota
	CommonLemmas
	ChatSlang
	Fillers
	FormalDiscourse

	numTiers
)

// AllTiers lists every tier in load order.
var AllTiers = []TierID{FunctionWords, CommonLemmas, ChatSlang, Fillers, FormalDiscourse}

var tierNames = [numTiers]string{
	FunctionWords:   "function words",
	CommonLemmas:    "common lemmas",
	ChatSlang:       "chat/slang",
	Fillers:         "fillers",
	FormalDiscourse: "formal discourse",
}

func (id TierID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("tier(%d)", int(id))
	}
	return tierNames[id]
}

// Valid reports whether id is one of the five known tiers.
func (id TierID) Valid() bool {
	return id >= 0 && id < numTiers
}

// Tier is an append-only, capacity-bounded word list.
// Words keep their insertion order, which breaks ties between matches.
type Tier struct {
	id       TierID
	words    []string
	capacity int
	// index maps a lowercased word to the insertion positions that fold to it.
	index *patricia.Trie
}

// NewTier allocates an empty tier that accepts up to capacity words.
func NewTier(id TierID, capacity int) (*Tier, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("allocate %s tier (capacity %d): %w", id, capacity, ErrInvalidCapacity)
	}
	return &Tier{
		id:       id,
		words:    make([]string, 0, capacity),
		capacity: capacity,
		index:    patricia.NewTrie(),
	}, nil
}

// ID returns which tier this is.
func (t *Tier) ID() TierID { return t.id }

// Len returns the number of stored words.
func (t *Tier) Len() int { return len(t.words) }

// Cap returns the most words the tier accepts.
func (t *Tier) Cap() int { return t.capacity }

// At returns the word stored at insertion position i.
// It panics unless 0 <= i < Len().
func (t *Tier) At(i int) string { return t.words[i] }

// Words returns a copy of the stored words in insertion order.
func (t *Tier) Words() []string {
	out := make([]string, len(t.words))
	copy(out, t.words)
	return out
}

// Add appends word. A full tier rejects the word with ErrTierFull and stays unchanged.
func (t *Tier) Add(word string) error {
	switch {
	case word == "":
		return ErrEmptyWord
	case len(word) > MaxWordLen:
		return fmt.Errorf("%q: %w", word, ErrWordTooLong)
	case len(t.words) >= t.capacity:
		return fmt.Errorf("%s: %w", t.id, ErrTierFull)
	}

	// Tiers own their strings.
	owned := strings.Clone(word)
	pos := len(t.words)
	t.words = append(t.words, owned)

	key := patricia.Prefix(strings.ToLower(owned))
	if item := t.index.Get(key); item != nil {
		t.index.Set(key, append(item.([]int), pos))
	} else {
		t.index.Insert(key, []int{pos})
	}
	return nil
}

// Match calls emit for every word whose first len(prefix) bytes equal prefix
// ignoring case, in insertion order, until emit returns false or limit words
// were emitted. It returns the number of words emitted.
func (t *Tier) Match(prefix string, limit int, emit func(word string) bool) int {
	if t == nil || limit <= 0 || len(t.words) == 0 {
		return 0
	}

	var positions []int
	lower := patricia.Prefix(strings.ToLower(prefix))
	_ = t.index.VisitSubtree(lower, func(_ patricia.Prefix, item patricia.Item) error {
		positions = append(positions, item.([]int)...)
		return nil
	})
	if len(positions) == 0 {
		return 0
	}
	sort.Ints(positions)

	emitted := 0
	for _, pos := range positions {
		if emitted >= limit {
			break
		}
		emitted++
		if !emit(t.words[pos]) {
			break
		}
	}
	return emitted
}

// release drops every owned word and the index.
func (t *Tier) release() {
	t.words = nil
	t.index = nil
	t.capacity = 0
}
