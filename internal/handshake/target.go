package handshake

import (
	"errors"
	"fmt"
)

// Target is the outcome tag the HealthVault shell attaches to a callback.
type Target string

// Targets with a handling branch.
const (
	TargetAppAuthSuccess        Target = "AppAuthSuccess"
	TargetSelectedRecordChanged Target = "SelectedRecordChanged"
	TargetAppAuthReject         Target = "AppAuthReject"
	TargetSignOut               Target = "SignOut"
)

// knownTargets is every target the shell may send, handled or not.
var knownTargets = map[Target]struct{}{
	TargetAppAuthSuccess:        {},
	TargetSelectedRecordChanged: {},
	TargetAppAuthReject:         {},
	TargetSignOut:               {},
	"AppAuthInvalidRecord":      {},
	"CreateApplicationSuccess":  {},
	"CreateApplicationFailed":   {},
	"Help":                      {},
	"Home":                      {},
	"Privacy":                   {},
	"ReconcileCanceled":         {},
	"ReconcileComplete":         {},
	"ReconcileFailure":          {},
	"ServiceAgreement":          {},
	"ShareRecordFailed":         {},
	"ShareRecordSuccess":        {},
}

var (
	// ErrUnknownTarget means the callback carried a value the shell never
	// sends: a malformed or forged request.
	ErrUnknownTarget = errors.New("unknown healthvault target")

	// ErrUnhandledTarget means the shell sent a legitimate target this
	// service has no branch for.
	ErrUnhandledTarget = errors.New("unhandled healthvault target")
)

// ParseTarget maps a raw callback value onto a known Target.
func ParseTarget(raw string) (Target, error) {
	t := Target(raw)
	if _, ok := knownTargets[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, raw)
	}
	return t, nil
}

// Handled reports whether Complete has a branch for t.
func (t Target) Handled() bool {
	switch t {
	case TargetAppAuthSuccess, TargetSelectedRecordChanged, TargetAppAuthReject, TargetSignOut:
		return true
	default:
		return false
	}
}
