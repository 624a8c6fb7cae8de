package extensions

import (
	"context"
	"fmt"
	"sync"
)

// HookPoint represents a point in the application where hooks can be registered
type HookPoint string

const (
	// Session lifecycle hooks
	HookSessionOpened HookPoint = "session_opened"
	HookSessionClosed HookPoint = "session_closed"

	// HookDocumentChanged fires after every committed document mutation
	HookDocumentChanged HookPoint = "document_changed"

	// HookCommandFailed fires when a session command returns an error
	HookCommandFailed HookPoint = "command_failed"
)

// Hook represents a function that can be executed at a hook point
type Hook func(ctx context.Context, data interface{}) error

// HookManager manages hooks for extension points
type HookManager struct {
	hooks map[HookPoint][]namedHook
	mu    sync.RWMutex
}

type namedHook struct {
	name string
	fn   Hook
}

// NewHookManager creates a new hook manager
func NewHookManager() *HookManager {
	return &HookManager{
		hooks: make(map[HookPoint][]namedHook),
	}
}

// Register registers a hook for a specific hook point. Hooks run in
// registration order.
func (m *HookManager) Register(point HookPoint, name string, hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks[point] = append(m.hooks[point], namedHook{name: name, fn: hook})
}

// Execute runs every hook for a point and stops at the first failure
func (m *HookManager) Execute(ctx context.Context, point HookPoint, data interface{}) error {
	for _, h := range m.snapshot(point) {
		if err := h.fn(ctx, data); err != nil {
			return fmt.Errorf("hook %s at %s failed: %w", h.name, point, err)
		}
	}
	return nil
}

// ExecuteAll runs every hook for a point regardless of failures and returns
// the errors keyed by hook name
func (m *HookManager) ExecuteAll(ctx context.Context, point HookPoint, data interface{}) map[string]error {
	var failed map[string]error
	for _, h := range m.snapshot(point) {
		if err := h.fn(ctx, data); err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[h.name] = err
		}
	}
	return failed
}

func (m *HookManager) snapshot(point HookPoint) []namedHook {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]namedHook(nil), m.hooks[point]...)
}

// Count reports how many hooks are registered at a point
func (m *HookManager) Count(point HookPoint) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks[point])
}

// Clear removes all hooks for a specific hook point
func (m *HookManager) Clear(point HookPoint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.hooks, point)
}
