package board

import (
	"fmt"
	"sync"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/workflow"
)

// DropEffect is the advisory transfer hint reported while a drag is in
// flight.
const DropEffect = "move"

type DropOutcome string

const (
	OutcomeMoved  DropOutcome = "moved"
	OutcomeNoop   DropOutcome = "noop"
	OutcomeFailed DropOutcome = "failed"
)

// DropResult is what the view layer shows after a drop: the outcome plus a
// user-facing message.
type DropResult struct {
	Outcome    DropOutcome                `json:"outcome"`
	Message    string                     `json:"message,omitempty"`
	Transition *workflow.TransitionResult `json:"-"`
}

// DragSession holds the single dragged-item slot of one board view. Exactly
// one drag may be in flight per session; the slot is set at drag-start and
// cleared unconditionally at the end of every drop.
type DragSession struct {
	mu      sync.Mutex
	dragged *workflow.WorkItemRef
	machine *workflow.StateMachine
}

func NewDragSession(machine *workflow.StateMachine) *DragSession {
	return &DragSession{machine: machine}
}

// DragStart records the dragged item, replacing any stale slot from an
// interrupted gesture.
func (s *DragSession) DragStart(ref workflow.WorkItemRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragged = &ref
}

// DragOver is advisory only: it confirms the board accepts the drop and
// names the transfer effect. No state is touched.
func (s *DragSession) DragOver() string {
	return DropEffect
}

// Dragged returns the current dragged item, or nil.
func (s *DragSession) Dragged() *workflow.WorkItemRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragged
}

// Drop finishes the gesture against the target column. The dragged slot is
// cleared on every path, including no-ops and failures.
func (s *DragSession) Drop(actorID *uint64, target models.TaskStatus) DropResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		s.dragged = nil
	}()

	if s.dragged == nil {
		return DropResult{Outcome: OutcomeNoop}
	}
	item := *s.dragged

	if item.Status == target {
		return DropResult{Outcome: OutcomeNoop}
	}

	result, err := s.machine.Transition(item, actorID, target)
	if err != nil {
		return DropResult{
			Outcome: OutcomeFailed,
			Message: fmt.Sprintf("Não foi possível mover a tarefa %q", item.Title),
		}
	}

	return DropResult{
		Outcome:    OutcomeMoved,
		Message:    fmt.Sprintf("Tarefa %q movida para %s", item.Title, target.Label()),
		Transition: result,
	}
}

// SessionManager hands out one DragSession per board view. Sessions are
// keyed by the caller's session ID and live until released.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*DragSession
	machine  *workflow.StateMachine
}

func NewSessionManager(machine *workflow.StateMachine) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*DragSession),
		machine:  machine,
	}
}

// Session returns the drag session for key, creating it on first use.
func (m *SessionManager) Session(key string) *DragSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[key]; ok {
		return s
	}
	s := NewDragSession(m.machine)
	m.sessions[key] = s
	return s
}

// Release drops the session for key (view teardown).
func (m *SessionManager) Release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}
