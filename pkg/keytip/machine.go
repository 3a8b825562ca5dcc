package keytip

import (
	"fmt"

	"github.com/go-logr/logr"
)

// Surface is the host a binding drives. EndEdit finishes any in-progress
// edit; OnEditStarting registers a hook that may cancel an edit before it
// begins and returns a function removing the hook.
type Surface interface {
	EndEdit()
	OnEditStarting(fn func(*EditStartingEvent)) (unsubscribe func())
}

// EditStartingEvent is raised by a surface before it enters edit mode.
type EditStartingEvent struct {
	Row, Col int
	Cancel   bool
}

// Transition reports what a machine call did.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionActivated
	TransitionAdvanced
	TransitionBacktracked
	TransitionCommitted
	TransitionCancelled
)

var transitionNames = [...]string{"none", "activated", "advanced", "backtracked", "committed", "cancelled"}

func (t Transition) String() string {
	if int(t) < len(transitionNames) {
		return transitionNames[t]
	}
	return fmt.Sprintf("transition(%d)", int(t))
}

// Machine walks the sequence tree one key at a time. It is not safe for
// concurrent use.
type Machine struct {
	root  *Node
	state State
	host  Surface
	log   logr.Logger
}

// NewMachine returns an inactive machine over root.
func NewMachine(root *Node, log logr.Logger) *Machine {
	if root == nil {
		root = Build(nil)
	}
	return &Machine{root: root, log: log}
}

// Root returns the tree the machine walks.
func (m *Machine) Root() *Node { return m.root }

// State returns the current state. The slices must not be modified.
func (m *Machine) State() State { return m.state }

// Active reports whether the mode is armed.
func (m *Machine) Active() bool { return m.state.Active }

// SetHost sets the surface effects are applied to; nil detaches.
func (m *Machine) SetHost(host Surface) { m.host = host }

// Reset swaps the tree and returns to inactive.
func (m *Machine) Reset(root *Node) {
	if root == nil {
		root = Build(nil)
	}
	m.root = root
	m.state = inactive()
}

// Activate ends any in-progress host edit and arms the mode at the root.
func (m *Machine) Activate() Transition {
	if m.state.Active {
		return TransitionNone
	}
	if m.host != nil {
		m.host.EndEdit()
	}
	m.state = activeAt([]string{}, m.root)
	m.log.V(1).Info("keytips activated", "options", len(m.state.Available))
	return TransitionActivated
}

// Key steps one level down. A miss cancels, a terminal node commits and
// anything with children advances.
func (m *Machine) Key(k string) Transition {
	if !m.state.Active {
		return TransitionNone
	}
	key := NormalizeKey(k)
	next, ok := m.state.Current.Child(key)
	if !ok {
		m.log.V(1).Info("keytips key has no match", "key", key, "path", m.state.Path)
		return m.Cancel()
	}
	switch {
	case len(next.children) > 0:
		path := append(append(make([]string, 0, len(m.state.Path)+1), m.state.Path...), key)
		m.state = activeAt(path, next)
		m.log.V(1).Info("keytips advanced", "path", path)
		return TransitionAdvanced
	case next.effect != nil:
		path := append(append([]string(nil), m.state.Path...), key)
		m.state = inactive()
		m.apply(next, path)
		return TransitionCommitted
	default:
		return m.Cancel()
	}
}

// Backspace drops the last key. An empty path cancels.
func (m *Machine) Backspace() Transition {
	if !m.state.Active {
		return TransitionNone
	}
	if len(m.state.Path) == 0 {
		return m.Cancel()
	}
	path := append([]string{}, m.state.Path[:len(m.state.Path)-1]...)
	n, ok := Traverse(m.root, path)
	if !ok {
		return m.Cancel()
	}
	m.state = activeAt(path, n)
	m.log.V(1).Info("keytips backtracked", "path", path)
	return TransitionBacktracked
}

// Escape leaves the mode.
func (m *Machine) Escape() Transition { return m.Cancel() }

// Cancel returns to inactive.
func (m *Machine) Cancel() Transition {
	if !m.state.Active {
		return TransitionNone
	}
	m.state = inactive()
	m.log.V(1).Info("keytips cancelled")
	return TransitionCancelled
}

func (m *Machine) apply(n *Node, path []string) {
	if m.host == nil {
		m.log.Info("keytips command skipped, no host bound", "path", path)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.Error(fmt.Errorf("panic: %v", r), "keytips command failed", "path", path)
		}
	}()
	m.log.V(1).Info("keytips command", "path", path, "description", n.description)
	n.effect.Apply(m.host)
}
