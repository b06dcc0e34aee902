// Package board defines the abstract append-only bulletin board the
// protocol core consumes. The concrete, authenticated, git-backed
// transport is an external collaborator out of scope for this module;
// board/localfs provides the in-repo reference implementation the
// driver, actions, and end-to-end tests run against.
package board

import (
	"context"

	"github.com/voteosis/trustee/internal/model"
	"github.com/voteosis/trustee/internal/names"
)

// Board is the abstract bulletin board the protocol core depends on.
// Every operation that can suspend on I/O takes a context.Context
// first.
type Board interface {
	// Sync atomically refreshes the local view from the remote,
	// discarding any unpushed local changes: the core is idempotent,
	// so on crash/restart there is nothing worth keeping.
	Sync(ctx context.Context) error

	// FileSet returns every key present, including local-only
	// PreShuffleData keys, as the observed set the condition engine
	// evaluates against.
	FileSet(ctx context.Context) (map[names.Key]struct{}, error)

	GetConfig(ctx context.Context) (model.Config, bool, error)
	GetConfigStatement(ctx context.Context) (model.ConfigStatement, bool, error)
	GetConfigSignature(ctx context.Context, auth int) ([]byte, bool, error)

	GetShare(ctx context.Context, item, auth int) (model.Share, bool, error)
	GetShareStatement(ctx context.Context, item, auth int) (model.ShareStatement, bool, error)
	GetShareSignature(ctx context.Context, item, auth int) ([]byte, bool, error)

	GetPublicKey(ctx context.Context, item int) (model.PublicKey, bool, error)
	GetPublicKeyStatement(ctx context.Context, item int) (model.PublicKeyStatement, bool, error)
	GetPublicKeySignature(ctx context.Context, item, auth int) ([]byte, bool, error)

	GetBallots(ctx context.Context, item int) (model.Ballots, bool, error)
	GetBallotsStatement(ctx context.Context, item int) (model.BallotsStatement, bool, error)
	GetBallotsSignature(ctx context.Context, item int) ([]byte, bool, error)

	GetMix(ctx context.Context, item, auth int) (model.Mix, bool, error)
	GetMixStatement(ctx context.Context, item, auth int) (model.MixStatement, bool, error)
	GetMixSignature(ctx context.Context, item, mixer, signer int) ([]byte, bool, error)

	GetDecryption(ctx context.Context, item, auth int) (model.PartialDecryption, bool, error)
	GetDecryptionStatement(ctx context.Context, item, auth int) (model.DecryptionStatement, bool, error)
	GetDecryptionSignature(ctx context.Context, item, auth int) ([]byte, bool, error)

	GetPlaintexts(ctx context.Context, item int) (model.Plaintexts, bool, error)
	GetPlaintextsStatement(ctx context.Context, item int) (model.PlaintextsStatement, bool, error)
	GetPlaintextsSignature(ctx context.Context, item, auth int) ([]byte, bool, error)

	// AddConfigSignature et al. publish one artifact/statement/
	// signature triple atomically; implementations must Sync before
	// pushing and retry on lost races up to a small bounded number of
	// attempts.
	AddConfigSignature(ctx context.Context, auth int, sig []byte) error
	AddShare(ctx context.Context, item, auth int, share model.Share, stmt model.ShareStatement, sig []byte) error
	AddPublicKey(ctx context.Context, item int, pk model.PublicKey, stmt model.PublicKeyStatement, sig []byte, auth int) error
	AddMix(ctx context.Context, item, auth int, mix model.Mix, stmt model.MixStatement, sig []byte) error
	AddMixSignature(ctx context.Context, item, mixer, signer int, sig []byte) error
	AddDecryption(ctx context.Context, item, auth int, dec model.PartialDecryption, stmt model.DecryptionStatement, sig []byte) error
	AddPlaintexts(ctx context.Context, item int, pt model.Plaintexts, stmt model.PlaintextsStatement, sig []byte, auth int) error

	AddError(ctx context.Context, auth int, message string) error

	// PreShuffleData is memory-only and never replicated.
	AddPreShuffleDataLocal(ctx context.Context, item, auth int, data model.PreShuffleData) error
	GetPreShuffleDataLocal(ctx context.Context, item, auth int) (model.PreShuffleData, bool, error)
	RmPreShuffleDataLocal(ctx context.Context, item, auth int) error
}
