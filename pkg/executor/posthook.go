package executor

import (
	"context"
	"fmt"
	"sync"
)

// PostHook replaces task-level processing for a wave that delegates to
// an external pipeline, such as publishing deliverables.
type PostHook func(ctx context.Context, e *Executor, waveNumber int) error

var (
	hooksMu   sync.RWMutex
	postHooks = make(map[string]PostHook)
)

// RegisterPostHook binds a hook name used in wave definitions to its
// implementation. Registering the same name twice panics, matching the
// expectation that hooks are wired once at startup.
func RegisterPostHook(name string, hook PostHook) {
	hooksMu.Lock()
	defer hooksMu.Unlock()

	if _, exists := postHooks[name]; exists {
		panic(fmt.Sprintf("post hook %q registered twice", name))
	}

	postHooks[name] = hook
}

func lookupPostHook(name string) (PostHook, bool) {
	hooksMu.RLock()
	defer hooksMu.RUnlock()

	hook, ok := postHooks[name]

	return hook, ok
}
