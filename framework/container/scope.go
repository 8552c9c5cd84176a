package container

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Scope is one frame of a ScopeStack: a cache of Scoped instances that
// lives until the frame is popped. Frames never see each other's entries.
type Scope struct {
	id        string
	depth     int
	mu        sync.RWMutex
	instances map[string]any
}

func newScope(depth int) *Scope {
	return &Scope{
		id:        uuid.NewString(),
		depth:     depth,
		instances: make(map[string]any),
	}
}

// ID is a unique identifier for the frame, handy for log correlation.
func (s *Scope) ID() string { return s.id }

// Depth is 1 for the outermost frame.
func (s *Scope) Depth() int { return s.depth }

func (s *Scope) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.instances[key]
	return ok
}

func (s *Scope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

func (s *Scope) get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.instances[key]
	return v, ok
}

func (s *Scope) put(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[key] = v
}

// ── ScopeStack ───────────────────────────────────────────────────────────────

// ScopeStack holds the active scope frames of one resolution context.
// The innermost frame is authoritative for Scoped lookups.
type ScopeStack struct {
	mu     sync.Mutex
	frames []*Scope
}

// NewScopeStack creates an empty stack.
func NewScopeStack() *ScopeStack {
	return &ScopeStack{}
}

// Enter pushes a new empty frame and returns it.
func (s *ScopeStack) Enter() *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame := newScope(len(s.frames) + 1)
	s.frames = append(s.frames, frame)
	return frame
}

// Exit pops the innermost frame. Popping an empty stack is ErrNoActiveScope.
func (s *ScopeStack) Exit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return ErrNoActiveScope
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// unwindTo pops every frame above frame and frame itself, innermost first.
// Nothing is popped if frame is not on the stack.
func (s *ScopeStack) unwindTo(frame *Scope) []*Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.frames, frame)
	if i < 0 {
		return nil
	}
	popped := slices.Clone(s.frames[i:])
	slices.Reverse(popped)
	clear(s.frames[i:])
	s.frames = s.frames[:i]
	return popped
}

// Current returns the innermost frame or ErrNoActiveScope.
func (s *ScopeStack) Current() (*Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, ErrNoActiveScope
	}
	return s.frames[len(s.frames)-1], nil
}

func (s *ScopeStack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}
