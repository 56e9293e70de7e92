/*
Package vocab owns the tiered vocabulary behind typeaid's suggestions.

A Store holds five word tiers (function words, common lemmas, chat/slang,
fillers and formal discourse). Each tier is capped at a fixed number of
words and is loaded once from its own text resource:

	store := vocab.NewStore(vocab.NewFSSource(os.DirFS("data/"), nil), vocab.Options{})
	if err := store.Initialize(); err != nil {
		// tier allocation failed; nothing was loaded
	}
	defer store.Shutdown()

Loading never fails Initialize. Missing or unreadable sources are counted and
reported through Diagnostic. If the function-words tier ends up empty, a
small built-in word list is injected so suggestions keep working with no
data at all.

A Store is not a singleton. Lookups take a read lock and may run from many
goroutines once Initialize has returned.
*/
package vocab

import (
	"fmt"
	"sync"

	"github.com/bastiangx/typeaid/internal/logger"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Options tunes a Store. The zero value is usable.
type Options struct {
	// Capacity is the per-tier word limit. Zero means DefaultCapacity.
	// A negative value makes tier allocation fail.
	Capacity int
	Logger   *log.Logger
}

// Store is the aggregate of all vocabulary tiers.
type Store struct {
	mu          sync.RWMutex
	src         Source
	capacity    int
	log         *log.Logger
	tiers       [numTiers]*Tier
	status      Status
	initialized bool
}

// NewStore returns an uninitialized Store that will load from src.
func NewStore(src Source, opts Options) *Store {
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	l := opts.Logger
	if l == nil {
		l = logger.New("vocab")
	}
	return &Store{src: src, capacity: capacity, log: l}
}

// Initialize allocates every tier and loads it from the Source.
// Calling it on an initialized Store does nothing and returns nil.
// The only error is a failed tier allocation, which leaves the Store
// uninitialized.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		s.log.Warn("Already initialized")
		return nil
	}
	s.log.Debug("Initializing vocabulary", "capacity", s.capacity)

	tiers, err := s.allocate()
	if err != nil {
		s.log.Errorf("Failed to allocate tiers: %v", err)
		return err
	}

	failed := s.loadAll(&tiers)

	if tiers[FunctionWords].Len() == 0 {
		n := injectFallback(tiers[FunctionWords])
		s.log.Warnf("Function words tier empty, added %d built-in words", n)
	}

	s.tiers = tiers
	s.status = statusFor(failed, len(AllTiers))
	if s.status.Message != "" {
		s.log.Warn(s.status.Message)
	}
	s.log.Info("Loaded words",
		"function", tiers[FunctionWords].Len(),
		"lemmas", tiers[CommonLemmas].Len(),
		"chat", tiers[ChatSlang].Len(),
		"fillers", tiers[Fillers].Len(),
		"formal", tiers[FormalDiscourse].Len())

	s.initialized = true
	return nil
}

// allocate builds every tier or none of them.
func (s *Store) allocate() ([numTiers]*Tier, error) {
	var tiers [numTiers]*Tier
	for _, id := range AllTiers {
		t, err := NewTier(id, s.capacity)
		if err != nil {
			for _, prev := range tiers {
				if prev != nil {
					prev.release()
				}
			}
			return [numTiers]*Tier{}, err
		}
		tiers[id] = t
	}
	return tiers, nil
}

// loadAll fills each tier from its source and returns how many sources failed.
// Every goroutine owns exactly one tier.
func (s *Store) loadAll(tiers *[numTiers]*Tier) int {
	var (
		g      errgroup.Group
		failed [numTiers]bool
	)
	for _, id := range AllTiers {
		g.Go(func() error {
			if err := s.loadTier(tiers[id]); err != nil {
				s.log.Errorf("Failed to load %s tier: %v", id, err)
				failed[id] = true
				return err
			}
			return nil
		})
	}
	// Per-tier failures are counted below; the first error adds nothing.
	_ = g.Wait()

	count := 0
	for _, f := range failed {
		if f {
			count++
		}
	}
	return count
}

func (s *Store) loadTier(t *Tier) error {
	if s.src == nil {
		return fmt.Errorf("no source configured")
	}
	rc, err := s.src.Open(t.ID())
	if err != nil {
		return err
	}
	defer rc.Close()

	dropped := 0
	n, err := ParseWords(rc, MaxWordLen, func(word string) error {
		if addErr := t.Add(word); addErr != nil {
			dropped++
			return addErr
		}
		return nil
	})
	if dropped > 0 {
		s.log.Warnf("%s tier: dropped %d word(s) past capacity %d", t.ID(), dropped, t.Cap())
	}
	if err != nil {
		return fmt.Errorf("failed to read %s tier after %d words: %w", t.ID(), n, err)
	}
	s.log.Debugf("Loaded %d words into %s tier", n, t.ID())
	return nil
}

// Shutdown releases every tier. It does nothing on an uninitialized Store.
func (s *Store) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	s.log.Debug("Shutting down vocabulary")
	for i, t := range s.tiers {
		if t != nil {
			t.release()
		}
		s.tiers[i] = nil
	}
	s.status = Status{}
	s.initialized = false
}

// Initialized reports whether Initialize has succeeded and Shutdown has not run since.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Diagnostic returns ErrNotInitialized before Initialize, nil after a clean
// load, or a *LoadError when some sources failed.
func (s *Store) Diagnostic() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if s.status.Failed == 0 {
		return nil
	}
	return &LoadError{Failed: s.status.Failed, Total: s.status.Total}
}

// DiagnosticMessage renders Diagnostic for a status line. A clean load
// reads NoErrorMessage.
func (s *Store) DiagnosticMessage() string {
	if err := s.Diagnostic(); err != nil {
		return err.Error()
	}
	return NoErrorMessage
}

// Status returns the load report with current per-tier counts.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.status
	if !s.initialized {
		return Status{Level: LevelNotInitialized, Message: ErrNotInitialized.Error()}
	}
	for _, id := range AllTiers {
		st.Counts[id] = s.tiers[id].Len()
	}
	return st
}

// Snapshot is read access to the loaded tiers, valid only inside Read.
type Snapshot struct {
	tiers *[numTiers]*Tier
}

// Tier returns the tier for id, or nil for an unknown id.
func (sn Snapshot) Tier(id TierID) *Tier {
	if !id.Valid() {
		return nil
	}
	return sn.tiers[id]
}

// Read calls fn under the read lock. It returns false without calling fn
// when the Store is not initialized.
func (s *Store) Read(fn func(Snapshot)) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return false
	}
	fn(Snapshot{tiers: &s.tiers})
	return true
}
