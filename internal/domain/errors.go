package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrArtifactNotFound is returned when no compiled artifact matches a contract name
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrNetworkNotFound is returned when a network is not configured in flash.toml
	ErrNetworkNotFound = errors.New("network not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidChainID is returned when the RPC chain ID does not match the configured one
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrNoSender is returned when a network has no signing key configured
	ErrNoSender = errors.New("no sender configured")

	// ErrTransactionFailed is returned when a mined transaction has a failed status
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrAddressMismatch is returned when a contract lands on an address other than the predicted one
	ErrAddressMismatch = errors.New("deployed address does not match prediction")

	// ErrEventNotFound is returned when a receipt does not contain an expected event
	ErrEventNotFound = errors.New("event not found in receipt")

	// ErrPoolNotFound is returned when a token has no pool
	ErrPoolNotFound = errors.New("pool not found")

	// ErrStakeNotFound is returned when a stake ID resolves to an empty record
	ErrStakeNotFound = errors.New("stake not found")

	// ErrScenarioFailed is returned when a scenario step does not meet its expectation
	ErrScenarioFailed = errors.New("scenario failed")

	// ErrAborted is returned when the operator declines a confirmation prompt
	ErrAborted = errors.New("aborted by operator")
)

// RevertError is an on-chain revert carrying the decoded reason string.
type RevertError struct {
	Reason string
	Data   []byte
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}

// IsRevert reports whether err is a revert, optionally with the given reason.
// An empty reason matches any revert.
func IsRevert(err error, reason string) bool {
	var revert *RevertError
	if !errors.As(err, &revert) {
		return false
	}
	return reason == "" || revert.Reason == reason
}

type AmbiguousArtifactErr struct {
	Name    string
	Matches []*Artifact
}

func (e AmbiguousArtifactErr) Error() string {
	var suggestions []string
	for _, artifact := range e.Matches {
		suggestions = append(suggestions, fmt.Sprintf("  - %s (%s)", artifact.Name, artifact.SourcePath))
	}

	return fmt.Sprintf("multiple artifacts found matching %q - use path:Name to disambiguate:\n%s",
		e.Name, strings.Join(suggestions, "\n"))
}
