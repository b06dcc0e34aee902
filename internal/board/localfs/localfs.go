// Package localfs is the reference board.Board implementation: an
// in-process, mutex-guarded map standing in for "the remote" plus a
// bounded-retry Add path, used by the driver, actions, and end-to-end
// tests. It is not the production git-backed transport (an external
// collaborator, out of scope for this module).
package localfs

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/names"
)

// Remote simulates the shared, authenticated transport multiple
// trustee processes push to and pull from. Several Board values can
// share one Remote to exercise cross-trustee interaction in tests.
type Remote struct {
	mu   sync.RWMutex
	data map[names.Key][]byte
}

// NewRemote returns an empty shared remote.
func NewRemote() *Remote {
	return &Remote{data: make(map[names.Key][]byte)}
}

func (r *Remote) snapshot() map[names.Key][]byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[names.Key][]byte, len(r.data))
	for k, v := range r.data {
		out[k] = v
	}
	return out
}

// tryCommit writes every (key, value) pair iff none of the keys are
// already present with different content. It reports whether the
// write was applied (false means a concurrent writer already holds
// different content at one of these keys, i.e. a lost race).
func (r *Remote) tryCommit(kv map[names.Key][]byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range kv {
		if existing, ok := r.data[k]; ok && !bytes.Equal(existing, v) {
			return false
		}
	}
	for k, v := range kv {
		r.data[k] = v
	}
	return true
}

const defaultMaxAttempts = 5

// Board is a board.Board backed by a Remote plus a process-local
// mirror and the memory-only, never-replicated PreShuffleData map.
type Board struct {
	remote      *Remote
	maxAttempts int
	limiter     *rate.Limiter

	mu    sync.RWMutex
	local map[names.Key][]byte

	preMu sync.Mutex
	pre   map[names.Key]model.PreShuffleData
}

// New returns a Board backed by remote. New does not check remote for
// nil; a nil remote makes the first Sync panic. Tests that want an
// unconnected board should pass NewRemote().
func New(remote *Remote) *Board {
	return &Board{
		remote:      remote,
		maxAttempts: defaultMaxAttempts,
		limiter:     rate.NewLimiter(rate.Every(10*time.Millisecond), 1),
		local:       make(map[names.Key][]byte),
		pre:         make(map[names.Key]model.PreShuffleData),
	}
}

// Sync atomically refreshes the local view from remote, discarding any
// state not yet committed to remote (the core is idempotent, so there
// is nothing local worth preserving across a crash/restart).
func (b *Board) Sync(ctx context.Context) error {
	snap := b.remote.snapshot()
	b.mu.Lock()
	b.local = snap
	b.mu.Unlock()
	return nil
}

// FileSet returns every key currently known locally, including this
// trustee's local-only PreShuffleData keys.
func (b *Board) FileSet(ctx context.Context) (map[names.Key]struct{}, error) {
	b.mu.RLock()
	out := make(map[names.Key]struct{}, len(b.local))
	for k := range b.local {
		out[k] = struct{}{}
	}
	b.mu.RUnlock()

	b.preMu.Lock()
	for k := range b.pre {
		out[k] = struct{}{}
	}
	b.preMu.Unlock()
	return out, nil
}

func (b *Board) get(key names.Key) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.local[key]
	return v, ok
}

func (b *Board) getJSON(key names.Key, dst interface{}) (bool, error) {
	raw, ok := b.get(key)
	if !ok {
		return false, nil
	}
	if err := unmarshalJSON(raw, dst); err != nil {
		return true, fmt.Errorf("localfs: decode %s: %w", key, err)
	}
	return true, nil
}

// commit publishes a set of key/value pairs as one atomic triple,
// syncing first and retrying up to maxAttempts on a lost race.
func (b *Board) commit(ctx context.Context, kv map[names.Key][]byte) error {
	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		if err := b.Sync(ctx); err != nil {
			return fmt.Errorf("localfs: commit sync: %w", err)
		}
		if b.remote.tryCommit(kv) {
			return b.Sync(ctx)
		}
		if err := b.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("localfs: commit backoff: %w", err)
		}
	}
	return fmt.Errorf("localfs: commit failed after %d attempts (lost race)", b.maxAttempts)
}

// AddError publishes this trustee's sticky error sentinel.
func (b *Board) AddError(ctx context.Context, auth int, message string) error {
	return b.commit(ctx, map[names.Key][]byte{
		names.ErrorAuth(auth): []byte(message),
	})
}

// AddPreShuffleDataLocal stores data for (item, auth) in the
// memory-only, never-replicated local map.
func (b *Board) AddPreShuffleDataLocal(ctx context.Context, item, auth int, data model.PreShuffleData) error {
	b.preMu.Lock()
	defer b.preMu.Unlock()
	b.pre[names.PermData(item, auth)] = data
	return nil
}

// GetPreShuffleDataLocal reads back local pre-shuffle data, if any.
func (b *Board) GetPreShuffleDataLocal(ctx context.Context, item, auth int) (model.PreShuffleData, bool, error) {
	b.preMu.Lock()
	defer b.preMu.Unlock()
	d, ok := b.pre[names.PermData(item, auth)]
	return d, ok, nil
}

// RmPreShuffleDataLocal erases local pre-shuffle data for (item, auth),
// e.g. once its Mix has been published.
func (b *Board) RmPreShuffleDataLocal(ctx context.Context, item, auth int) error {
	b.preMu.Lock()
	defer b.preMu.Unlock()
	delete(b.pre, names.PermData(item, auth))
	return nil
}
