package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIdentifier marks a language, speaker, or researcher code that
	// does not satisfy the 3-letter pattern.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrTokenNotFound marks a token reference that does not resolve to an
	// existing acquisition file.
	ErrTokenNotFound = errors.New("token not found")
	// ErrBaselineNotFound marks a missing _zero_ entry in the session document.
	ErrBaselineNotFound = errors.New("baseline not found")
	// ErrChannelMismatch marks a stored baseline whose channel count disagrees
	// with the recording being adjusted.
	ErrChannelMismatch = errors.New("channel count mismatch")
	// ErrInvalidEntry marks malformed data handed to the session store.
	ErrInvalidEntry = errors.New("invalid session entry")

	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether the error leaves the current operation able to
// continue with unadjusted data. A missing baseline or a channel-count
// mismatch is a warning: the recording is still processed, just without mean
// subtraction.
func Recoverable(err error) bool {
	return errors.Is(err, ErrBaselineNotFound) || errors.Is(err, ErrChannelMismatch)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
