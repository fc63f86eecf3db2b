package scenario

import (
	"errors"
	"fmt"
	"strings"
)

var ErrAssertion = errors.New("assertion failed")

// AssertionError is an expected page state that was not observed.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return "assertion failed: " + e.Message
}

func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

func Failf(format string, args ...any) error {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

func expectContains(what, got, want string) error {
	if !strings.Contains(got, want) {
		return Failf("expected %s to contain %q, got %q", what, want, got)
	}
	return nil
}

func expectEqual(what, got, want string) error {
	if got != want {
		return Failf("expected %s to be %q, got %q", what, want, got)
	}
	return nil
}

func expectVisible(what string, visible bool, want bool) error {
	if visible != want {
		if want {
			return Failf("expected %s to be visible", what)
		}
		return Failf("expected %s not to be visible", what)
	}
	return nil
}
