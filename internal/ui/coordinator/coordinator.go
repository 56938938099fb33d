package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tvnav/internal/domain"
	"tvnav/internal/eventbus"
	"tvnav/internal/metrics"
	"tvnav/internal/ui/element"
	"tvnav/internal/ui/input"
	"tvnav/internal/ui/input/types"
	"tvnav/internal/ui/services/history"
	"tvnav/internal/ui/services/navigation"
	"tvnav/internal/ui/services/overlay"
	"tvnav/internal/ui/services/query"
)

var (
	ErrStarted  = errors.New("coordinator already started")
	ErrDisposed = errors.New("coordinator disposed")
)

// Back request sources
const (
	SourceKey        = "key"
	SourceBackButton = "backbutton"
	SourceHistory    = "history"
	SourceAPI        = "api"
)

// Deps are the collaborators the coordinator binds to. BackButton, Bus and
// Metrics are optional.
type Deps struct {
	Tree       element.Tree
	Closer     element.OverlayCloser
	Keys       element.KeySource
	BackButton element.BackButtonSource
	History    element.History
	Bus        eventbus.EventBus
	Metrics    metrics.Recorder
	Logger     *slog.Logger
}

// Options tune the coordinator
type Options struct {
	Scoring       navigation.Scoring
	KeyMap        *types.KeyMap
	ReadyAttempts int
	ReadyInterval time.Duration
	// MaxDrain caps the rounds of queued work processed at once
	MaxDrain int
	// OnPending is called whenever work is queued, possibly while the
	// coordinator is busy. It must not block or call back synchronously.
	OnPending func()
}

// DefaultOptions returns the stock tuning
func DefaultOptions() Options {
	return Options{
		Scoring:       navigation.DefaultScoring,
		ReadyAttempts: 50,
		ReadyInterval: 100 * time.Millisecond,
		MaxDrain:      64,
	}
}

type taskKind int

const (
	taskMutation taskKind = iota
	taskPop
)

type task struct {
	kind  taskKind
	entry element.HistoryEntry
}

// Coordinator wires the navigation services to the tree, the key source and
// the history. Every entry point serialises on one mutex; tree and history
// callbacks only queue work, which is drained before and after each entry
// point. Activation handlers run under that mutex and must not call the
// coordinator synchronously.
type Coordinator struct {
	// Services
	Navigation *navigation.Service
	Query      *query.Service
	Overlay    *overlay.Observer
	History    *history.Router

	deps  Deps
	opts  Options
	input *input.Handler
	ctx   input.TreeContext

	mu       sync.Mutex
	started  bool
	disposed bool
	cancels  []func()
	done     chan struct{}
	wg       sync.WaitGroup

	qmu   sync.Mutex
	queue []task
}

// New creates a coordinator. Nothing is bound until Init.
func New(deps Deps, opts Options) *Coordinator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Closer == nil {
		if closer, ok := deps.Tree.(element.OverlayCloser); ok {
			deps.Closer = closer
		}
	}
	def := DefaultOptions()
	if opts.Scoring == (navigation.Scoring{}) {
		opts.Scoring = def.Scoring
	}
	if opts.ReadyAttempts <= 0 {
		opts.ReadyAttempts = def.ReadyAttempts
	}
	if opts.ReadyInterval <= 0 {
		opts.ReadyInterval = def.ReadyInterval
	}
	if opts.MaxDrain <= 0 {
		opts.MaxDrain = def.MaxDrain
	}

	c := &Coordinator{
		deps:  deps,
		opts:  opts,
		input: input.New(opts.KeyMap),
		ctx:   input.TreeContext{Tree: deps.Tree},
		done:  make(chan struct{}),
	}
	c.Query = query.NewService(deps.Tree)
	c.Navigation = navigation.NewService(c.Query, deps.Bus, opts.Scoring, deps.Logger)
	c.History = history.NewRouter(deps.History, deps.Logger)
	c.Overlay = overlay.NewObserver(deps.Tree, c.Navigation, c.History, deps.Bus, deps.Logger)
	return c
}

// Init binds the key listener, the mutation observer and the history
// listeners, then starts waiting for the first navigable items
func (c *Coordinator) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.started {
		c.mu.Unlock()
		return ErrStarted
	}
	c.started = true

	c.cancels = append(c.cancels,
		c.deps.Tree.Observe(c.onMutations),
		c.deps.History.OnPop(c.onPop),
		c.deps.Keys.AddKeyListener(c.onKey),
	)
	if c.deps.BackButton != nil {
		c.cancels = append(c.cancels, c.deps.BackButton.OnBackButton(c.onBackButton))
	}
	c.syncLocked()
	c.drainLocked()
	c.mu.Unlock()

	c.awaitReady(ctx)
	c.deps.Logger.Info("coordinator: started")
	return nil
}

// Dispose unbinds every listener and stops the readiness poll
func (c *Coordinator) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	cancels := c.cancels
	c.cancels = nil
	close(c.done)
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	c.wg.Wait()

	c.qmu.Lock()
	c.queue = nil
	c.qmu.Unlock()
	c.deps.Logger.Info("coordinator: disposed")
}

// Move moves the highlight as if a direction key was pressed
func (c *Coordinator) Move(dir domain.Direction) navigation.MoveResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return navigation.MoveEmpty
	}
	c.drainLocked()
	res := c.moveLocked(dir)
	c.drainLocked()
	return res
}

// Activate triggers the highlighted item
func (c *Coordinator) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return ErrDisposed
	}
	c.drainLocked()
	err := c.activateLocked()
	c.drainLocked()
	return err
}

// Back closes the open overlay, or navigates back when there is none
func (c *Coordinator) Back() domain.BackOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return domain.BackIgnored
	}
	c.drainLocked()
	out := c.backLocked(SourceAPI)
	c.drainLocked()
	return out
}

// Sync processes queued tree and history notifications, reconciles the
// overlay state with the tree and returns the resulting mode
func (c *Coordinator) Sync() domain.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return c.Overlay.Mode()
	}
	c.drainLocked()
	c.syncLocked()
	c.drainLocked()
	return c.Overlay.Mode()
}

// Mode returns the current navigation mode
func (c *Coordinator) Mode() domain.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Overlay.Mode()
}

// Index returns the highlighted index or navigation.NoIndex
func (c *Coordinator) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Navigation.Index()
}

// Current returns the highlighted element, if any
func (c *Coordinator) Current() element.Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Navigation.Current()
}

func (c *Coordinator) onKey(ev *element.KeyEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.drainLocked()

	mode := c.Overlay.Mode()
	c.input.SetMode(mode, c.ctx)
	actions := c.input.HandleKey(ev, c.ctx)
	if ev.DefaultPrevented() {
		c.deps.Metrics.KeyIntercepted(mode)
	}
	for _, action := range actions {
		c.performLocked(action)
	}
	c.drainLocked()
}

func (c *Coordinator) onBackButton() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.drainLocked()
	c.backLocked(SourceBackButton)
	c.drainLocked()
}

func (c *Coordinator) onMutations(batch []element.Mutation) {
	if len(batch) == 0 {
		return
	}
	c.enqueue(task{kind: taskMutation})
}

func (c *Coordinator) onPop(entry element.HistoryEntry) {
	c.enqueue(task{kind: taskPop, entry: entry})
}

func (c *Coordinator) enqueue(t task) {
	c.qmu.Lock()
	if t.kind == taskMutation && len(c.queue) > 0 && c.queue[len(c.queue)-1].kind == taskMutation {
		c.qmu.Unlock()
		return
	}
	c.queue = append(c.queue, t)
	c.qmu.Unlock()

	if c.opts.OnPending != nil {
		c.opts.OnPending()
	}
}

func (c *Coordinator) takeTasks() []task {
	c.qmu.Lock()
	defer c.qmu.Unlock()
	tasks := c.queue
	c.queue = nil
	return tasks
}

// drainLocked runs queued work until the queue stays empty. Mutations in a
// row collapse into one sync; a pending sync runs before each pop so pops see
// the current overlay state.
func (c *Coordinator) drainLocked() {
	for round := 0; round < c.opts.MaxDrain; round++ {
		tasks := c.takeTasks()
		if len(tasks) == 0 {
			return
		}
		dirty := false
		for _, t := range tasks {
			switch t.kind {
			case taskMutation:
				dirty = true
			case taskPop:
				if dirty {
					c.syncLocked()
					dirty = false
				}
				c.handlePopLocked(t.entry)
			}
		}
		if dirty {
			c.syncLocked()
		}
	}
	c.deps.Logger.Warn("coordinator: drain limit reached", "rounds", c.opts.MaxDrain)
}

func (c *Coordinator) syncLocked() overlay.Transition {
	tr := c.Overlay.Sync()
	if tr != overlay.TransitionNone {
		c.deps.Metrics.Transition(tr.String())
	}
	return tr
}

func (c *Coordinator) performLocked(action types.Action) {
	switch a := action.(type) {
	case types.NavigateAction:
		c.moveLocked(a.Direction)
	case types.ActivateAction:
		c.activateLocked()
	case types.BackAction:
		c.backLocked(SourceKey)
	default:
		c.deps.Logger.Debug("coordinator: unknown action", "type", action.Type())
	}
}

func (c *Coordinator) moveLocked(dir domain.Direction) navigation.MoveResult {
	mode := c.Overlay.Mode()
	res := c.Navigation.Move(mode, dir)
	c.deps.Metrics.Move(mode, res.String())
	if res == navigation.MoveAbsorbed {
		c.publish(domain.MoveAbsorbedEvent{Mode: mode, Direction: dir})
	}
	return res
}

func (c *Coordinator) activateLocked() error {
	mode := c.Overlay.Mode()
	target, err := c.Navigation.Activate(mode)
	if errors.Is(err, navigation.ErrNoSelection) {
		c.deps.Logger.Debug("coordinator: activate with nothing highlighted", "mode", mode)
		return err
	}
	c.deps.Metrics.Activate(mode, err == nil)
	if err != nil {
		c.deps.Logger.Warn("coordinator: activation failed", "element", target.ID(), "error", err)
		c.publish(domain.ErrorEvent{Message: "activation failed", Err: err})
		return err
	}
	c.publish(domain.ItemActivatedEvent{Mode: mode, ElementID: target.ID()})
	return nil
}

func (c *Coordinator) backLocked(source string) domain.BackOutcome {
	out := domain.BackNavigated
	ov := c.Overlay.Overlay()
	switch {
	case ov != nil && c.deps.Closer != nil:
		method := overlay.Close(c.deps.Tree, c.deps.Closer, ov, c.deps.Logger)
		c.deps.Logger.Debug("coordinator: back closed overlay", "source", source, "method", method)
		c.syncLocked()
		out = domain.BackClosedOverlay
	case ov != nil:
		// the page stays put while an overlay is open, even one we cannot close
		c.deps.Logger.Warn("coordinator: no closer for open overlay", "source", source, "overlay", ov.ID())
		out = domain.BackIgnored
	default:
		c.History.Navigate()
	}
	c.deps.Metrics.Back(source, out)
	c.publish(domain.BackHandledEvent{Outcome: out, Source: source})
	return out
}

// handlePopLocked reacts to a platform history pop. The router's own
// reconciliation pops are ignored; a pop while an overlay is open closes it
// and replaces the entry with a fresh baseline.
func (c *Coordinator) handlePopLocked(entry element.HistoryEntry) {
	ov := c.Overlay.Overlay()
	outcome := c.History.HandlePop(entry, ov != nil)
	c.deps.Metrics.Pop(outcome.String())
	if outcome != history.PopCloseOverlay {
		return
	}
	if c.deps.Closer != nil {
		method := overlay.Close(c.deps.Tree, c.deps.Closer, ov, c.deps.Logger)
		c.deps.Logger.Debug("coordinator: history pop closed overlay", "method", method)
	}
	c.syncLocked()
	c.History.Rearm()
	c.deps.Metrics.Back(SourceHistory, domain.BackClosedOverlay)
	c.publish(domain.BackHandledEvent{Outcome: domain.BackClosedOverlay, Source: SourceHistory})
}

func (c *Coordinator) publish(ev domain.DomainEvent) {
	if c.deps.Bus != nil {
		c.deps.Bus.Publish(ev)
	}
}
