// Package rules implements the global and per-item rule tables:
// pure functions from one cycle's observed board key-set (plus
// the resolved Config context) to the single Action the driver should
// run next, first match wins. Kept free of any board or crypto calls
// so the dispatch logic is testable as plain data-in, data-out code.
package rules

import (
	"fmt"

	"github.com/voteosis/trustee/internal/actions"
	"github.com/voteosis/trustee/internal/condition"
	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/names"
	"github.com/voteosis/trustee/internal/permute"
)

// Snapshot bundles one cycle's inputs to the rule tables: the observed
// key-set, the Config (if one was published), and this trustee's own
// resolved position within it. Auth is 0 whenever Config is missing,
// unparseable, or does not list this trustee as a peer; in that case
// only the PAUSE/ERROR/ValidateConfig global rules can fire, and
// ValidateConfig itself (not the rule engine) is responsible for
// surfacing exactly why resolution failed.
type Snapshot struct {
	FileSet      map[names.Key]struct{}
	Config       model.Config
	Auth         int
	N            int
	OfflineSplit bool
}

// Global evaluates the three global rules, first match wins.
func Global(s Snapshot) (actions.Action, bool) {
	if condition.Present(names.Pause()).Eval(s.FileSet) {
		return actions.Action{Kind: actions.KindStop, Msg: "PAUSE is set"}, true
	}
	if condition.Present(names.Error()).Eval(s.FileSet) {
		return actions.Action{Kind: actions.KindStop, Msg: "ERROR is set"}, true
	}
	for a := 1; a <= s.N; a++ {
		if condition.Present(names.ErrorAuth(a)).Eval(s.FileSet) {
			return actions.Action{Kind: actions.KindStop, Msg: fmt.Sprintf("ERROR(%d) is set", a)}, true
		}
	}
	if condition.Present(names.Config()).Eval(s.FileSet) &&
		condition.Present(names.ConfigStmt()).Eval(s.FileSet) &&
		(s.Auth == 0 || condition.Absent(names.ConfigSig(s.Auth)).Eval(s.FileSet)) {
		return actions.Action{Kind: actions.KindValidateConfig}, true
	}
	return actions.Action{}, false
}

// PerItem evaluates the nine per-item rules for item, first
// match wins. Requires a resolved Config (Auth, N); callers should not
// call this until the global ValidateConfig rule has stopped firing.
func PerItem(s Snapshot, item int) (actions.Action, bool) {
	if s.Auth == 0 || s.N == 0 {
		return actions.Action{}, false
	}
	fs := s.FileSet

	allConfigSigs := true
	for a := 1; a <= s.N; a++ {
		if !condition.Present(names.ConfigSig(a)).Eval(fs) {
			allConfigSigs = false
			break
		}
	}
	if allConfigSigs && condition.Absent(names.Share(item, s.Auth)).Eval(fs) {
		return actions.Action{Kind: actions.KindAddShare, Item: item}, true
	}

	allShares := true
	for a := 1; a <= s.N; a++ {
		if !condition.Present(names.Share(item, a)).Eval(fs) {
			allShares = false
			break
		}
	}
	noPublicKey := condition.Absent(names.PublicKey(item)).Eval(fs)
	if allShares && s.Auth == 1 && noPublicKey {
		return actions.Action{Kind: actions.KindAddOrSignPublicKey, Item: item}, true
	}
	if allShares && !noPublicKey && condition.Absent(names.PublicKeySig(item, s.Auth)).Eval(fs) {
		return actions.Action{Kind: actions.KindAddOrSignPublicKey, Item: item}, true
	}

	ballotsPresent := condition.Present(names.Ballots(item)).Eval(fs)
	noSelfMix := condition.Absent(names.Mix(item, s.Auth)).Eval(fs)
	if ballotsPresent && s.OfflineSplit &&
		condition.Absent(names.PermData(item, s.Auth)).Eval(fs) && noSelfMix {
		return actions.Action{Kind: actions.KindAddPreShuffleData, Item: item}, true
	}

	myPos := permute.Position(s.Auth, item, s.N)
	earlierPositionsReady := true
	for pos := 1; pos < myPos; pos++ {
		mixer := permute.Inverse(pos, item, s.N)
		if !condition.Present(names.Mix(item, mixer)).Eval(fs) ||
			!condition.Present(names.MixSig(item, mixer, mixer)).Eval(fs) {
			earlierPositionsReady = false
			break
		}
	}
	if ballotsPresent && earlierPositionsReady && noSelfMix {
		return actions.Action{Kind: actions.KindAddMix, Item: item}, true
	}

	for a := 1; a <= s.N; a++ {
		if a == s.Auth {
			continue
		}
		if condition.Present(names.Mix(item, a)).Eval(fs) &&
			condition.Absent(names.MixSig(item, a, s.Auth)).Eval(fs) {
			return actions.Action{Kind: actions.KindVerifyMix, Item: item, Mixer: a}, true
		}
	}

	allSelfCoSigned := true
	for pos := 1; pos <= s.N; pos++ {
		mixer := permute.Inverse(pos, item, s.N)
		if !condition.Present(names.MixSig(item, mixer, s.Auth)).Eval(fs) {
			allSelfCoSigned = false
			break
		}
	}
	if allSelfCoSigned && condition.Absent(names.Decryption(item, s.Auth)).Eval(fs) {
		return actions.Action{Kind: actions.KindAddDecryption, Item: item}, true
	}

	allDecryptions := true
	for a := 1; a <= s.N; a++ {
		if !condition.Present(names.Decryption(item, a)).Eval(fs) {
			allDecryptions = false
			break
		}
	}
	decryptor := permute.Decryptor(item, s.N)
	noPlaintexts := condition.Absent(names.Plaintexts(item)).Eval(fs)
	if allDecryptions && s.Auth == decryptor && noPlaintexts {
		return actions.Action{Kind: actions.KindAddOrSignPlaintexts, Item: item}, true
	}

	if !noPlaintexts && condition.Absent(names.PlaintextsSig(item, s.Auth)).Eval(fs) {
		return actions.Action{Kind: actions.KindAddOrSignPlaintexts, Item: item}, true
	}

	return actions.Action{}, false
}
