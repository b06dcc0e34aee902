package actions

import (
	"context"
)

// runValidateConfig implements the ValidateConfig protocol step: runs
// once per trustee at startup (and harmlessly again on every cycle
// until self's signature lands, since the whole action is idempotent).
// Unlike every other action except StopAction it does NOT call
// checkBase, because its entire job is to produce the self-signature
// checkBase requires of everyone else.
func runValidateConfig(ctx context.Context, tc *TrusteeContext) Result {
	cfg, stmt, res := configCheck(ctx, tc)
	if res != nil {
		return res
	}

	if len(cfg.Trustees) < 2 {
		return LocalErrorf("config lists fewer than 2 trustees")
	}
	seen := make(map[string]struct{}, len(cfg.Trustees))
	for _, pem := range cfg.Trustees {
		key := normalizePEM(pem)
		if _, dup := seen[key]; dup {
			return LocalErrorf("config lists a duplicate trustee public key")
		}
		seen[key] = struct{}{}
	}

	auth, err := resolveAuth(cfg, tc.PublicKeyPEM)
	if err != nil {
		return LocalErrorf("%v", err)
	}
	if auth == 0 {
		return LocalErrorf("resolved trustee position 0 (not a trustee)")
	}

	// An untrusted key is postable (the Config itself parsed and this
	// trustee is listed, so ERROR(self) has something to bind to),
	// unlike the resolution failures above.
	for i, pem := range cfg.Trustees {
		if _, trusted := tc.Peers[normalizePEM(pem)]; !trusted {
			return Errorf("configured trustee %d public key is not in the local peers set", i+1)
		}
	}
	if _, trusted := tc.Peers[normalizePEM(cfg.BallotboxPublicKey)]; !trusted {
		return Errorf("configured ballotbox public key is not in the local peers set")
	}

	// Parse every trustee key as a sanity check: a malformed Config
	// entry should fail here, not silently during a later action.
	for i := range cfg.Trustees {
		if _, err := trusteePublicKey(cfg, i+1); err != nil {
			return LocalErrorf("parse trustee %d public key: %v", i+1, err)
		}
	}
	if _, err := cfg.Group(); err != nil {
		return LocalErrorf("build group from config: %v", err)
	}

	sig, err := signStatement(tc, stmt)
	if err != nil {
		return Errorf("sign config statement: %v", err)
	}
	if err := tc.Board.AddConfigSignature(ctx, auth, sig); err != nil {
		return Errorf("publish config signature: %v", err)
	}
	return Ok{}
}
