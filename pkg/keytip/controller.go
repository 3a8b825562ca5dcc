package keytip

import (
	"github.com/go-logr/logr"
)

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger. The default discards.
func WithLogger(log logr.Logger) ControllerOption {
	return func(c *Controller) { c.log = log }
}

// WithPlatform overrides the detected platform.
func WithPlatform(p Platform) ControllerOption {
	return func(c *Controller) { c.platform = p }
}

// WithObserver registers fn to receive a snapshot after every transition.
func WithObserver(fn func(Transition, Snapshot)) ControllerOption {
	return func(c *Controller) { c.observers = append(c.observers, fn) }
}

// Controller binds a Machine to a host surface and owns input capture:
// tap-alone activation, suppression of host keys while active and
// cancellation of host edits. It is not safe for concurrent use.
type Controller struct {
	machine   *Machine
	platform  Platform
	log       logr.Logger
	observers []func(Transition, Snapshot)

	host        Surface
	unsubscribe func()
	armed       bool
}

// NewController compiles cmds and returns an unbound controller.
func NewController(cmds []Command, opts ...ControllerOption) (*Controller, error) {
	root, err := Compile(cmds)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		platform: DetectPlatform(),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.machine = NewMachine(root, c.log)
	return c, nil
}

// Platform returns the activation platform in use.
func (c *Controller) Platform() Platform { return c.platform }

// Machine exposes the underlying state machine.
func (c *Controller) Machine() *Machine { return c.machine }

// Root returns the compiled tree.
func (c *Controller) Root() *Node { return c.machine.Root() }

// Bind attaches the controller to host, replacing any previous binding.
func (c *Controller) Bind(host Surface) {
	c.Unbind()
	if host == nil {
		return
	}
	c.host = host
	c.machine.SetHost(host)
	c.unsubscribe = host.OnEditStarting(c.handleEditStarting)
	c.log.V(1).Info("keytips bound")
}

// Unbind detaches from the host and removes every subscription.
func (c *Controller) Unbind() {
	if c.host == nil {
		return
	}
	c.dispatch(c.machine.Cancel())
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.unsubscribe = nil
	c.host = nil
	c.machine.SetHost(nil)
	c.armed = false
	c.log.V(1).Info("keytips unbound")
}

// Bound reports whether a host is attached.
func (c *Controller) Bound() bool { return c.host != nil }

// Active reports whether the mode is armed.
func (c *Controller) Active() bool { return c.machine.Active() }

// Armed reports whether a modifier tap is pending.
func (c *Controller) Armed() bool { return c.armed }

// Snapshot returns the display projection of the current state.
func (c *Controller) Snapshot() Snapshot {
	return Project(c.machine.State(), c.platform.Label)
}

// Reload compiles a new registry, swaps it in and returns to inactive.
// On error the previous registry stays in place.
func (c *Controller) Reload(cmds []Command) error {
	root, err := Compile(cmds)
	if err != nil {
		return err
	}
	was := c.machine.Active()
	c.machine.Reset(root)
	if was {
		c.dispatch(TransitionCancelled)
	}
	c.log.Info("keytips registry reloaded", "commands", len(cmds))
	return nil
}

// Toggle activates when inactive and cancels when active. It also drops a
// pending tap, so releasing a held modifier afterwards does not toggle again.
func (c *Controller) Toggle() Transition {
	c.armed = false
	var t Transition
	if c.machine.Active() {
		t = c.machine.Cancel()
	} else {
		t = c.machine.Activate()
	}
	c.dispatch(t)
	return t
}

// HandleKeyDown processes a key press.
func (c *Controller) HandleKeyDown(ev KeyEvent) Disposition {
	if ev.Key == c.platform.ActivationKey {
		c.armed = true
		return PassThrough
	}
	if ev.Mods&(ModAlt|ModMeta) != 0 {
		c.armed = false
	}
	if !c.machine.Active() {
		return PassThrough
	}
	switch {
	case ev.IsModifierKey():
		return PassThrough
	case ev.Key == KeyEscape:
		c.dispatch(c.machine.Escape())
	case ev.Key == KeyBackspace:
		c.dispatch(c.machine.Backspace())
	case ev.IsPrintable():
		c.dispatch(c.machine.Key(ev.Key))
	}
	return Consumed
}

// HandleKeyUp processes a key release.
func (c *Controller) HandleKeyUp(ev KeyEvent) Disposition {
	if ev.Key == c.platform.ActivationKey {
		if c.armed {
			c.Toggle()
		}
		c.armed = false
		return PassThrough
	}
	if c.machine.Active() && !ev.IsModifierKey() {
		return Consumed
	}
	return PassThrough
}

// HandleClick cancels the mode on any click outside the overlay.
func (c *Controller) HandleClick(ev ClickEvent) Disposition {
	if !c.machine.Active() {
		return PassThrough
	}
	if !ev.InsideOverlay {
		c.dispatch(c.machine.Cancel())
	}
	return Consumed
}

// HandleBlur cancels the mode when the host loses focus.
func (c *Controller) HandleBlur() {
	c.armed = false
	c.dispatch(c.machine.Cancel())
}

func (c *Controller) handleEditStarting(ev *EditStartingEvent) {
	if c.machine.Active() {
		ev.Cancel = true
	}
}

func (c *Controller) dispatch(t Transition) {
	if t == TransitionNone || len(c.observers) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range c.observers {
		fn(t, snap)
	}
}
