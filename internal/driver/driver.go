// Package driver runs the per-trustee protocol loop: sync the board,
// snapshot its key-set, evaluate the global and per-item rule tables,
// dispatch the selected actions, and fold any resulting errors into a
// single ERROR(self) write, once per cycle.
package driver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voteosis/trustee/internal/actions"
	"github.com/voteosis/trustee/internal/names"
	"github.com/voteosis/trustee/internal/rules"
	"github.com/voteosis/trustee/internal/workpool"
)

// DefaultSleep is the inter-cycle pause used absent an explicit
// configuration override.
const DefaultSleep = 5 * time.Second

// Driver runs cycles against one trustee's context.
type Driver struct {
	TC    *actions.TrusteeContext
	Sleep time.Duration
	Log   *logrus.Logger
}

// New builds a Driver with the default inter-cycle sleep.
func New(tc *actions.TrusteeContext, log *logrus.Logger) *Driver {
	return &Driver{TC: tc, Sleep: DefaultSleep, Log: log}
}

// Run executes cycles until ctx is cancelled, sleeping Sleep between
// each. SIGTERM handling is the caller's responsibility (cancel ctx);
// Run itself only ever returns once ctx is done, matching the
// "cleanly at the next cycle boundary" shutdown semantics.
func (d *Driver) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			d.Log.Info("trustee loop: shutting down")
			return
		}
		if err := d.Cycle(ctx); err != nil {
			d.Log.WithError(err).Error("trustee loop: cycle failed")
		}
		select {
		case <-ctx.Done():
			d.Log.Info("trustee loop: shutting down")
			return
		case <-time.After(d.Sleep):
		}
	}
}

// Cycle runs exactly one protocol cycle.
func (d *Driver) Cycle(ctx context.Context) error {
	tc := d.TC
	if err := tc.Board.Sync(ctx); err != nil {
		return fmt.Errorf("driver: sync: %w", err)
	}
	fileSet, err := tc.Board.FileSet(ctx)
	if err != nil {
		return fmt.Errorf("driver: file set: %w", err)
	}

	snap := d.snapshot(ctx, fileSet)

	if act, ok := rules.Global(snap); ok {
		res := d.runSafe(ctx, act)
		d.logResult(act, res)
		if msg, local, isErr := errDetail(res); isErr && !local && snap.Auth > 0 {
			if err := tc.Board.AddError(ctx, snap.Auth, fmt.Sprintf("%s: %s", act.Kind, msg)); err != nil {
				return fmt.Errorf("driver: post error: %w", err)
			}
		}
		return nil
	}

	if snap.Auth == 0 {
		// Config missing, unparseable, or this trustee not listed:
		// reported locally only, nothing to bind an ERROR artifact to.
		d.Log.Warn("trustee loop: no resolvable config this cycle")
		return nil
	}

	var planned []actions.Action
	for item := 1; item <= snap.Config.ItemCount; item++ {
		if act, ok := rules.PerItem(snap, item); ok {
			planned = append(planned, act)
		}
	}
	if len(planned) == 0 {
		return nil
	}
	sort.SliceStable(planned, func(i, j int) bool { return planned[i].Kind < planned[j].Kind })

	results := d.dispatch(ctx, planned)

	var boardErrs []string
	for i, res := range results {
		if msg, local, isErr := errDetail(res); isErr {
			d.logResult(planned[i], res)
			if !local {
				boardErrs = append(boardErrs, fmt.Sprintf("%s(%d): %s", planned[i].Kind, planned[i].Item, msg))
			}
		}
	}

	if len(boardErrs) > 0 {
		if err := tc.Board.AddError(ctx, snap.Auth, strings.Join(boardErrs, "; ")); err != nil {
			return fmt.Errorf("driver: post error: %w", err)
		}
	}
	return nil
}

// runSafe runs one action, converting a panic into an Error result:
// the "Unexpected" class, posted to the board like any other
// verification failure rather than taking the whole loop down.
func (d *Driver) runSafe(ctx context.Context, act actions.Action) (res actions.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = actions.Errorf("unexpected: %v", r)
		}
	}()
	return act.Run(ctx, d.TC)
}

// dispatch runs planned in parallel, capped at tc.PoolSize, when every
// selected action this cycle is AddPreShuffleData (the only
// sanctioned intra-cycle parallelism); otherwise it runs sequentially,
// since later actions' gates may depend on earlier ones' board writes
// within the same cycle.
func (d *Driver) dispatch(ctx context.Context, planned []actions.Action) []actions.Result {
	results := make([]actions.Result, len(planned))

	allPreShuffle := true
	for _, act := range planned {
		if act.Kind != actions.KindAddPreShuffleData {
			allPreShuffle = false
			break
		}
	}

	if !allPreShuffle {
		for i, act := range planned {
			results[i] = d.runSafe(ctx, act)
		}
		return results
	}

	jobs := make([]func() error, len(planned))
	for i, act := range planned {
		i, act := i, act
		jobs[i] = func() error {
			results[i] = d.runSafe(ctx, act)
			return nil
		}
	}
	workpool.Run(ctx, d.TC.PoolSize, jobs)
	return results
}

func (d *Driver) snapshot(ctx context.Context, fileSet map[names.Key]struct{}) rules.Snapshot {
	tc := d.TC
	cfg, ok, err := tc.Board.GetConfig(ctx)
	if err != nil || !ok {
		return rules.Snapshot{FileSet: fileSet}
	}
	n := cfg.TrusteeCount()
	auth, err := actions.ResolveAuth(cfg, tc.PublicKeyPEM)
	if err != nil {
		return rules.Snapshot{FileSet: fileSet, Config: cfg, N: n}
	}
	return rules.Snapshot{
		FileSet:      fileSet,
		Config:       cfg,
		Auth:         auth,
		N:            n,
		OfflineSplit: tc.OfflineSplit,
	}
}

// errDetail extracts a message from res, reporting whether res is an
// Error at all (isErr) and whether it is Local (process-only, e.g. a
// misconfiguration that has nothing on the board to bind to).
func errDetail(res actions.Result) (msg string, local bool, isErr bool) {
	e, ok := res.(actions.Error)
	if !ok {
		return "", false, false
	}
	return e.Msg, e.Local, true
}

// logResult writes one line per dispatched action at a level matching
// its outcome.
func (d *Driver) logResult(act actions.Action, res actions.Result) {
	switch r := res.(type) {
	case actions.Ok:
		d.Log.WithField("action", act.Kind.String()).Debug("ok")
	case actions.Stop:
		d.Log.WithField("action", act.Kind.String()).Info(r.Msg)
	case actions.Error:
		d.Log.WithFields(logrus.Fields{"action": act.Kind.String(), "item": act.Item, "local": r.Local}).Error(r.Msg)
	}
}
