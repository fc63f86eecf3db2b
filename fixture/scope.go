package fixture

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/hrmcheck/pages"
)

// Scope is one acquired browser context and its page.
type Scope struct {
	session *Session
	context BrowserContext
	page    pages.Page

	closeOnce sync.Once
	closeErr  error
}

// Page returns the page, navigated to the start URL on acquisition.
func (s *Scope) Page() pages.Page {
	return s.page
}

// Close closes the browser context and returns the session to ready.
// Closing twice returns the result of the first call.
func (s *Scope) Close() error {
	s.closeOnce.Do(func() {
		s.session.release(s)
		if err := s.context.Close(); err != nil {
			s.closeErr = fmt.Errorf("closing browser context: %w", err)
		}
	})
	return s.closeErr
}

// Page acquires a fresh page for a test and closes its context when the test ends.
func (s *Session) Page(t testing.TB) pages.Page {
	t.Helper()

	scope, err := s.Acquire(context.Background())
	require.NoError(t, err, "failed to acquire browser context")
	t.Cleanup(func() {
		assert.NoError(t, scope.Close())
	})

	return scope.Page()
}
