package actions

import "context"

// Kind identifies one of the nine protocol actions.
// Its ordinal doubles as dispatch priority: lower values are more
// urgent within a cycle, matching the per-item rule order.
type Kind int

const (
	KindStop Kind = iota
	KindValidateConfig
	KindAddShare
	KindAddOrSignPublicKey
	KindAddPreShuffleData
	KindAddMix
	KindVerifyMix
	KindAddDecryption
	KindAddOrSignPlaintexts
)

func (k Kind) String() string {
	switch k {
	case KindStop:
		return "StopAction"
	case KindValidateConfig:
		return "ValidateConfig"
	case KindAddShare:
		return "AddShare"
	case KindAddOrSignPublicKey:
		return "AddOrSignPublicKey"
	case KindAddPreShuffleData:
		return "AddPreShuffleData"
	case KindAddMix:
		return "AddMix"
	case KindVerifyMix:
		return "VerifyMix"
	case KindAddDecryption:
		return "AddDecryption"
	case KindAddOrSignPlaintexts:
		return "AddOrSignPlaintexts"
	default:
		return "Unknown"
	}
}

// Action is one selected unit of work for one cycle: a Kind plus the
// item it applies to (0 for the config-level ValidateConfig and for
// StopAction) and, for VerifyMix only, the mixer trustee it targets.
// Msg carries StopAction's reason.
type Action struct {
	Kind  Kind
	Item  int
	Mixer int
	Msg   string
}

// Run dispatches to the concrete run* function for a's Kind.
func (a Action) Run(ctx context.Context, tc *TrusteeContext) Result {
	switch a.Kind {
	case KindStop:
		return runStopAction(ctx, tc, a.Msg)
	case KindValidateConfig:
		return runValidateConfig(ctx, tc)
	case KindAddShare:
		return runAddShare(ctx, tc, a.Item)
	case KindAddOrSignPublicKey:
		return runAddOrSignPublicKey(ctx, tc, a.Item)
	case KindAddPreShuffleData:
		return runAddPreShuffleData(ctx, tc, a.Item)
	case KindAddMix:
		return runAddMix(ctx, tc, a.Item)
	case KindVerifyMix:
		return runVerifyMix(ctx, tc, a.Item, a.Mixer)
	case KindAddDecryption:
		return runAddDecryption(ctx, tc, a.Item)
	case KindAddOrSignPlaintexts:
		return runAddOrSignPlaintexts(ctx, tc, a.Item)
	default:
		return Errorf("unknown action kind %v", a.Kind)
	}
}
