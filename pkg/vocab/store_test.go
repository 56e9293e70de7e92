package vocab

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"testing/iotest"

	"github.com/bastiangx/typeaid/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceFunc func(id TierID) (io.ReadCloser, error)

func (f sourceFunc) Open(id TierID) (io.ReadCloser, error) { return f(id) }

func tierFS(words map[TierID][]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for id, ws := range words {
		fsys[DefaultFiles[id]] = &fstest.MapFile{Data: []byte(strings.Join(ws, "\n") + "\n")}
	}
	return fsys
}

func fullFS() fstest.MapFS {
	return tierFS(map[TierID][]string{
		FunctionWords:   {"the", "to", "this"},
		CommonLemmas:    {"time", "thing"},
		ChatSlang:       {"lol", "tbh"},
		Fillers:         {"um"},
		FormalDiscourse: {"therefore"},
	})
}

func newTestStore(fsys fstest.MapFS, capacity int) *Store {
	return NewStore(NewFSSource(fsys, nil), Options{Capacity: capacity, Logger: logger.Discard()})
}

func TestStoreCleanLoad(t *testing.T) {
	s := newTestStore(fullFS(), 0)
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	assert.True(t, s.Initialized())
	assert.NoError(t, s.Diagnostic())
	assert.Equal(t, NoErrorMessage, s.DiagnosticMessage())

	st := s.Status()
	assert.Equal(t, LevelOK, st.Level)
	assert.Equal(t, 0, st.Failed)
	assert.Equal(t, 5, st.Total)
	assert.Empty(t, st.Message)
	assert.Equal(t, [numTiers]int{3, 2, 2, 1, 1}, st.Counts)
}

func TestStorePartialLoad(t *testing.T) {
	fsys := fullFS()
	delete(fsys, DefaultFiles[Fillers])
	delete(fsys, DefaultFiles[FormalDiscourse])

	s := newTestStore(fsys, 0)
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	err := s.Diagnostic()
	assert.ErrorIs(t, err, ErrPartialLoad)
	assert.False(t, errors.Is(err, ErrNoData))
	assert.Equal(t, "WARNING: 2 data file(s) missing", s.DiagnosticMessage())

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Failed)

	st := s.Status()
	assert.Equal(t, LevelPartial, st.Level)
	assert.Equal(t, 3, st.Counts[FunctionWords])
	assert.Zero(t, st.Counts[Fillers])
}

func TestStoreNoDataUsesFallback(t *testing.T) {
	s := newTestStore(fstest.MapFS{}, 0)
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	assert.ErrorIs(t, s.Diagnostic(), ErrNoData)
	assert.Equal(t, "ERROR: No data files found!", s.DiagnosticMessage())
	assert.Equal(t, LevelNoData, s.Status().Level)

	var fn []string
	ok := s.Read(func(sn Snapshot) {
		fn = sn.Tier(FunctionWords).Words()
		for _, id := range AllTiers[1:] {
			assert.Zero(t, sn.Tier(id).Len(), id.String())
		}
	})
	require.True(t, ok)
	assert.Equal(t, FallbackWords(), fn)
	assert.Contains(t, fn, "the")
	assert.Contains(t, fn, "hello")
}

func TestStoreFallbackOnEmptyFunctionTier(t *testing.T) {
	fsys := fullFS()
	fsys[DefaultFiles[FunctionWords]] = &fstest.MapFile{Data: []byte("# nothing here\n\n")}

	s := newTestStore(fsys, 0)
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	// The file was read fine, so the load still counts as clean.
	assert.NoError(t, s.Diagnostic())
	assert.Equal(t, len(FallbackWords()), s.Status().Counts[FunctionWords])
}

func TestStoreNoFallbackWhenFunctionWordsLoaded(t *testing.T) {
	s := newTestStore(tierFS(map[TierID][]string{FunctionWords: {"of"}}), 0)
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	assert.ErrorIs(t, s.Diagnostic(), ErrPartialLoad)
	assert.Equal(t, 1, s.Status().Counts[FunctionWords])
}

func TestStoreAllocationFailure(t *testing.T) {
	s := newTestStore(fullFS(), -1)

	err := s.Initialize()
	assert.ErrorIs(t, err, ErrInvalidCapacity)
	assert.False(t, s.Initialized())
	assert.ErrorIs(t, s.Diagnostic(), ErrNotInitialized)
	assert.False(t, s.Read(func(Snapshot) { t.Fatal("read on uninitialized store") }))
}

func TestStoreInitializeIsIdempotent(t *testing.T) {
	fsys := fullFS()
	s := newTestStore(fsys, 0)
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	fsys[DefaultFiles[Fillers]] = &fstest.MapFile{Data: []byte("um\nuh\nhmm\n")}
	require.NoError(t, s.Initialize())
	assert.Equal(t, 1, s.Status().Counts[Fillers])
}

func TestStoreCapacityOverflowDuringLoad(t *testing.T) {
	words := make([]string, 1005)
	for i := range words {
		words[i] = fmt.Sprintf("word%04d", i)
	}
	fsys := fullFS()
	fsys[DefaultFiles[CommonLemmas]] = &fstest.MapFile{Data: []byte(strings.Join(words, "\n"))}

	s := newTestStore(fsys, 0)
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	assert.NoError(t, s.Diagnostic())
	s.Read(func(sn Snapshot) {
		lemmas := sn.Tier(CommonLemmas)
		assert.Equal(t, DefaultCapacity, lemmas.Len())
		assert.Equal(t, "word0000", lemmas.At(0))
		assert.Equal(t, "word0999", lemmas.At(DefaultCapacity-1))
	})
}

func TestStoreMidStreamReadFailure(t *testing.T) {
	fsys := fullFS()
	files := NewFSSource(fsys, nil)
	src := sourceFunc(func(id TierID) (io.ReadCloser, error) {
		if id == FunctionWords {
			return io.NopCloser(io.MultiReader(
				strings.NewReader("of\nand\nbu"),
				iotest.ErrReader(errors.New("device removed")),
			)), nil
		}
		return files.Open(id)
	})

	s := NewStore(src, Options{Logger: logger.Discard()})
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	assert.Equal(t, "WARNING: 1 data file(s) missing", s.DiagnosticMessage())
	s.Read(func(sn Snapshot) {
		assert.Equal(t, []string{"of", "and"}, sn.Tier(FunctionWords).Words())
	})
}

func TestStoreNilSource(t *testing.T) {
	s := NewStore(nil, Options{Logger: logger.Discard()})
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	assert.ErrorIs(t, s.Diagnostic(), ErrNoData)
	assert.Equal(t, len(FallbackWords()), s.Status().Counts[FunctionWords])
}

func TestStoreShutdown(t *testing.T) {
	s := newTestStore(fullFS(), 0)

	// Shutdown before Initialize is a no-op.
	s.Shutdown()
	assert.Equal(t, "not initialized", s.DiagnosticMessage())
	assert.Equal(t, LevelNotInitialized, s.Status().Level)

	require.NoError(t, s.Initialize())
	s.Shutdown()
	s.Shutdown()

	assert.False(t, s.Initialized())
	assert.ErrorIs(t, s.Diagnostic(), ErrNotInitialized)
	assert.False(t, s.Read(func(Snapshot) {}))

	require.NoError(t, s.Initialize())
	defer s.Shutdown()
	assert.Equal(t, 3, s.Status().Counts[FunctionWords])
}

func TestStoreConcurrentReads(t *testing.T) {
	s := newTestStore(fullFS(), 0)
	require.NoError(t, s.Initialize())
	defer s.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Read(func(sn Snapshot) {
					n := sn.Tier(FunctionWords).Match("t", 3, func(string) bool { return true })
					assert.Equal(t, 3, n)
				})
			}
		}()
	}
	wg.Wait()
}

func TestLoadErrorIs(t *testing.T) {
	partial := &LoadError{Failed: 1, Total: 5}
	all := &LoadError{Failed: 5, Total: 5}

	assert.ErrorIs(t, partial, ErrPartialLoad)
	assert.NotErrorIs(t, partial, ErrNoData)
	assert.ErrorIs(t, all, ErrNoData)
	assert.NotErrorIs(t, all, ErrPartialLoad)
	assert.Equal(t, "no_data", LevelNoData.String())
}
