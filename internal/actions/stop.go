package actions

import "context"

// runStopAction implements the StopAction protocol step: the rule engine
// selected it because PAUSE or an ERROR marker is present on the
// board, so this item's cycle does nothing but report why.
func runStopAction(_ context.Context, _ *TrusteeContext, msg string) Result {
	return Stop{Msg: msg}
}
