package suggest

import (
	"github.com/bastiangx/typeaid/internal/logger"
	"github.com/bastiangx/typeaid/internal/utils"
	"github.com/bastiangx/typeaid/pkg/vocab"
	"github.com/charmbracelet/log"
)

// MaxSuggestions is the hard cap on a suggestion batch.
const MaxSuggestions = 3

// PriorityOrder is the order tiers are scanned in. Short grammatical and
// informal completions come before general and formal vocabulary.
var PriorityOrder = []vocab.TierID{
	vocab.FunctionWords,
	vocab.ChatSlang,
	vocab.Fillers,
	vocab.CommonLemmas,
	vocab.FormalDiscourse,
}

// Resolver answers completion queries against a Store. It holds no state of
// its own besides the borrowed Store.
type Resolver struct {
	store *vocab.Store
	log   *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger replaces the default "suggest" logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver returns a Resolver reading from store.
func NewResolver(store *vocab.Store, opts ...Option) *Resolver {
	r := &Resolver{store: store, log: logger.New("suggest")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Suggestions returns up to max words completing the partial word at the end
// of input. max is clamped to MaxSuggestions. Tiers are scanned in
// PriorityOrder and each tier yields matches in insertion order; the scan
// stops once the batch is full. An uninitialized Store yields nothing.
func (r *Resolver) Suggestions(input string, max int) []string {
	if max > MaxSuggestions {
		max = MaxSuggestions
	}
	if max <= 0 || input == "" || r.store == nil {
		return nil
	}

	prefix := CurrentWord(input)
	if prefix == "" {
		r.log.Debug("No word at end of input", "input", utils.VisualizeTrailing(input))
		return nil
	}

	out := make([]string, 0, max)
	ok := r.store.Read(func(snap vocab.Snapshot) {
		for _, id := range PriorityOrder {
			if len(out) >= max {
				break
			}
			n := snap.Tier(id).Match(prefix, max-len(out), func(word string) bool {
				out = append(out, utils.TruncateBytes(word, vocab.MaxWordLen))
				return true
			})
			if n > 0 {
				r.log.Debug("Tier matched", "tier", id, "prefix", prefix, "count", n)
			}
		}
	})
	if !ok {
		r.log.Debug("Vocabulary not initialized")
		return nil
	}

	r.log.Debug("Resolved suggestions", "prefix", prefix, "suggestions", out)
	if len(out) == 0 {
		return nil
	}
	return out
}
