// Package actions implements the nine protocol operators that drive
// the board forward: ValidateConfig, AddShare, AddOrSignPublicKey,
// AddPreShuffleData, AddMix, VerifyMix, AddDecryption,
// AddOrSignPlaintexts, and StopAction. Every action is a verified step
// that reconstructs its preconditions from the board on each
// invocation (nothing local is trusted) and returns one of Ok, Stop,
// or Error.
package actions

import "fmt"

// Result is the closed sum type an Action produces. It is modeled as
// a small interface with unexported marker methods rather than a
// class hierarchy, the idiomatic Go stand-in for the original source's
// sealed trait family.
type Result interface {
	isResult()
}

// Ok means the action ran and made progress (or found nothing to do
// and made none, which is equally a successful no-op).
type Ok struct{}

func (Ok) isResult() {}

// Stop means the driver should halt this trustee for the rest of the
// cycle (PAUSE seen, or an ERROR artifact is present).
type Stop struct {
	Msg string
}

func (Stop) isResult() {}

// Error means verification failed or an unexpected fault occurred;
// the driver collects these into ERROR(self) for the cycle. Local
// marks the configuration-error class (missing Config, unparseable
// Config, self not listed as trustee): those have nothing to bind a
// board signature to, so the driver must report them locally and must
// NOT write ERROR(self).
type Error struct {
	Msg   string
	Local bool
}

func (Error) isResult() {}

// Errorf builds a postable Error result from a formatted message.
func Errorf(format string, args ...interface{}) Error {
	return Error{Msg: fmt.Sprintf(format, args...)}
}

// LocalErrorf builds a Local Error result: reported but never written
// to the board, because the action failed before it had a Config to
// bind a signature to.
func LocalErrorf(format string, args ...interface{}) Error {
	return Error{Msg: fmt.Sprintf(format, args...), Local: true}
}
