package cache

import (
	"runtime"
	"testing"
	"weak"

	"github.com/stretchr/testify/require"
)

type value struct{ n int }

// TestOpenSharesLiveEntry covers the "at most one live value per key"
// invariant: two Opens for the same key while a reference is held
// return the identical pointer without calling open again.
func TestOpenSharesLiveEntry(t *testing.T) {
	w := NewWeak[value]()
	opens := 0
	open := func(string) (*value, error) {
		opens++
		return &value{n: opens}, nil
	}

	v1, release1, err := w.Open("k", open, nil)
	require.NoError(t, err)
	defer release1()

	v2, release2, err := w.Open("k", open, nil)
	require.NoError(t, err)
	defer release2()

	require.Same(t, v1, v2)
	require.Equal(t, 1, opens)
}

// TestOpenDiscardsLoserOfOpenRace covers the race-loser cleanup this method
// exists for: if another Open call populates key's entry while this call's
// opener is still running unlocked, the value that opener just built loses
// and is handed to discard instead of being returned or leaked. The race
// window is simulated directly (its opener inserts the "other" entry
// itself, standing in for a concurrent Open that won first) since the
// outcome otherwise depends on goroutine scheduling.
func TestOpenDiscardsLoserOfOpenRace(t *testing.T) {
	w := NewWeak[value]()
	winner := &value{n: 1}

	var discarded *value
	got, release, err := w.Open("k", func(string) (*value, error) {
		w.mu.Lock()
		w.entries["k"] = weak.Make(winner)
		w.mu.Unlock()
		return &value{n: 2}, nil
	}, func(lost *value) {
		discarded = lost
	})
	require.NoError(t, err)
	defer release()

	require.Same(t, winner, got)
	require.NotNil(t, discarded)
	require.Equal(t, 2, discarded.n)
}

// TestReleaseRemovesEntry covers the cyclic-reference resolution: once
// every strong reference's release func has run, a later Open with a
// distinguishable constructor proves the old entry is gone, not reused.
func TestReleaseRemovesEntry(t *testing.T) {
	w := NewWeak[value]()

	v1, release1, err := w.Open("k", func(string) (*value, error) {
		return &value{n: 1}, nil
	}, nil)
	require.NoError(t, err)
	release1()
	runtime.KeepAlive(v1)

	require.Equal(t, 0, w.Len())

	v2, release2, err := w.Open("k", func(string) (*value, error) {
		return &value{n: 2}, nil
	}, nil)
	require.NoError(t, err)
	defer release2()

	require.Equal(t, 2, v2.n)
}

// TestSweepKeepsLiveEntry covers one half of the backstop Sweep provides:
// an entry whose value is still held survives a sweep, and Sweep reports
// that it removed nothing.
func TestSweepKeepsLiveEntry(t *testing.T) {
	w := NewWeak[value]()

	live, release, err := w.Open("live", func(string) (*value, error) {
		return &value{n: 1}, nil
	}, nil)
	require.NoError(t, err)
	defer release()
	require.NotNil(t, live)

	require.Equal(t, 1, w.Len())
	require.Equal(t, 0, w.Sweep())
	require.Equal(t, 1, w.Len())
}
