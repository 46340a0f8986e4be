package simulation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"bitlife/src/diag"
	"bitlife/src/universe"
)

//Options represents the Simulation's configurable options
type Options struct {
	Width               int
	Height              int
	Interval            time.Duration
	MaxSteps            int //0 means unlimited
	StagnationThreshold int //consecutive stagnant steps before finishing, 0 disables
	Random              universe.RandomSource
	Advanced            map[string]interface{} //advanced options shown by viewers
}

//Status represents the status of the Simulation at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Stagnant      bool
	Err           error                  //error of the last command, nil on success
	Details       map[string]interface{} //advanced details
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(s *Simulation)
	Start() error
}

//The simulation running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval  = time.Millisecond * 100
	DefMaxSteps            = 1000
	DefStagnationThreshold = 5

	historySize = 5 //fingerprints kept for cycle detection
	cycleWindow = 3 //a generation equal to one of the last cycleWindow is stagnant
)

const (
	RunningStateManual RunningState = iota
	RunningStateRun
	RunningStateFinished
)

func (r RunningState) String() string {
	switch r {
	case RunningStateManual:
		return "manual"
	case RunningStateRun:
		return "run"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

var DefaultOptions = Options{
	Width:               universe.DefWidth,
	Height:              universe.DefHeight,
	Interval:            DefSimulationInterval,
	MaxSteps:            DefMaxSteps,
	StagnationThreshold: DefStagnationThreshold,
}

//Simulation drives a single Universe.
//The universe is only touched by the mainLoop goroutine (and by readers holding mu),
//every public command is queued to the control channel and returns immediately
type Simulation struct {
	options Options

	mu            sync.Mutex
	u             *universe.Universe
	status        Status
	history       []string
	stagnantCount int
	templates     map[string]universe.Template
	views         []Viewer

	stateCh   chan Status
	controlCh chan func()
	closeCh   chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once

	cancelRun context.CancelFunc //set while running, owned by mainLoop
	runners   errgroup.Group
}

//New creates the Simulation and starts its main loop
//stateCh receives one Status per completed command, it may be nil
func New(o *Options, stateCh chan Status) (*Simulation, error) {
	if o == nil {
		def := DefaultOptions
		o = &def
	}
	u, err := universe.NewWithOptions(&universe.Options{Width: o.Width, Height: o.Height, Random: o.Random})
	if err != nil {
		return nil, errors.Wrap(err, "[simulation.New] failed to create universe")
	}

	s := &Simulation{
		options:   *o,
		u:         u,
		templates: map[string]universe.Template{},
		stateCh:   stateCh,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		loopDone:  make(chan struct{}),
	}
	s.options.Advanced = map[string]interface{}{"engine": "bitset"}
	for k, v := range o.Advanced {
		s.options.Advanced[k] = v
	}
	for _, t := range universe.Templates() {
		s.templates[t.Name] = t
	}
	s.status.LiveCells = u.Population()
	s.status.Details = map[string]interface{}{}
	s.resetHistory()

	go s.mainLoop()
	return s, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (s *Simulation) AddTemplate(tmpl universe.Template) {
	s.mu.Lock()
	s.templates[tmpl.Name] = tmpl
	s.mu.Unlock()
}

//TemplateNames returns the names of the known templates, sorted
func (s *Simulation) TemplateNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//SettleTemplate stamps the named template anchored at row, col, returns immediately
func (s *Simulation) SettleTemplate(name string, row int, col int) {
	s.send(func() {
		s.mutate(func(u *universe.Universe) error {
			tmpl, ok := s.templates[name]
			if !ok {
				return errors.Wrapf(universe.ErrUnknownTemplate, "[SettleTemplate] %q", name)
			}
			return u.Stamp(tmpl, row, col)
		})
	})
}

//InverseCell inverses the cell state at row, col, returns immediately
func (s *Simulation) InverseCell(row int, col int) {
	s.send(func() {
		s.mutate(func(u *universe.Universe) error {
			return u.Toggle(row, col)
		})
	})
}

//RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
//Refresh is never called before the viewer's Register returned
func (s *Simulation) RegisterViewer(v Viewer) {
	v.Register(s)
	s.mu.Lock()
	s.views = append(s.views, v)
	s.mu.Unlock()
}

//StateCh returns the channel with the simulation's status updates
func (s *Simulation) StateCh() chan Status {
	return s.stateCh
}

//Status returns current simulation status represented by Status struct
func (s *Simulation) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

//Options returns current simulation configuration represented by Options struct
func (s *Simulation) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

//Frame returns an owned copy of the current generation
func (s *Simulation) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.u.Cells()
	return Frame{
		Width:      v.Width(),
		Height:     v.Height(),
		Generation: s.status.IterationNum,
		Words:      append([]uint64(nil), v.Words()...),
	}
}

//Run starts the simulation, returns immediately
//a Status is written to the stateCh on start and after every generation
func (s *Simulation) Run() {
	s.send(s.run)
}

//Stop stops the simulation, returns immediately
func (s *Simulation) Stop() {
	s.send(s.stop)
}

//Step does one simulation step, returns immediately
func (s *Simulation) Step() {
	s.send(s.step)
}

//Clear kills all cells and resets all counters, returns immediately
func (s *Simulation) Clear() {
	s.send(s.clear)
}

//Reset reseeds the universe with random data and resets all counters, returns immediately
func (s *Simulation) Reset() {
	s.send(s.reset)
}

//Resize changes the universe dimensions, all cells die, returns immediately
func (s *Simulation) Resize(width int, height int) {
	s.send(func() { s.resize(width, height) })
}

//Close stops the main loop and waits for the runner to exit
//it is safe to call more than once
func (s *Simulation) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
	<-s.loopDone
	_ = s.runners.Wait()
}

//send queues the command, dropping it once the main loop is gone
func (s *Simulation) send(cmd func()) {
	select {
	case s.controlCh <- cmd:
	case <-s.loopDone:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (s *Simulation) mainLoop() {
	defer close(s.loopDone)
	for {
		select {
		case cmd := <-s.controlCh:
			s.exec(cmd)
		case <-s.closeCh:
			s.stopRunner()
			return
		}
	}
}

//exec runs one command, a panic is reported as the command error
func (s *Simulation) exec(cmd func()) {
	var err error
	func() {
		defer diag.Recover("simulation", &err)
		cmd()
	}()
	if err != nil {
		s.locked(func() {
			s.status.Err = err
		})
		s.publish()
	}
}

//publish writes the status to the stateCh and refreshes the viewers
func (s *Simulation) publish() {
	s.mu.Lock()
	st := s.snapshot()
	views := append([]Viewer(nil), s.views...)
	s.mu.Unlock()

	if s.stateCh != nil {
		select {
		case s.stateCh <- st:
		case <-s.closeCh:
		}
	}
	for _, v := range views {
		v.Refresh()
	}
}

//snapshot copies the status, mu must be held
func (s *Simulation) snapshot() Status {
	st := s.status
	st.Details = make(map[string]interface{}, len(s.status.Details))
	for k, v := range s.status.Details {
		st.Details[k] = v
	}
	return st
}

//run starts the runner goroutine which queues a step on every interval
func (s *Simulation) run() {
	if s.cancelRun != nil {
		return
	}
	s.locked(func() {
		s.status.RunningMode = RunningStateRun
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelRun = cancel
	s.runners.Go(func() error {
		return s.runner(ctx)
	})
	diag.Logger().Debug("simulation started", "interval", s.options.Interval)
	s.publish()
}

func (s *Simulation) runner(ctx context.Context) error {
	var tick <-chan time.Time
	if s.options.Interval > 0 {
		t := time.NewTicker(s.options.Interval)
		defer t.Stop()
		tick = t.C
	}
	done := make(chan struct{}, 1)
	stepCmd := func() {
		s.runStep()
		done <- struct{}{}
	}
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case s.controlCh <- stepCmd:
		}
		//wait for the step before queueing the next one
		select {
		case <-ctx.Done():
			return nil
		case <-done:
		}
	}
}

//stopRunner cancels the runner goroutine if any
func (s *Simulation) stopRunner() {
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
}

//stop stops the simulation running cycle
func (s *Simulation) stop() {
	s.stopRunner()
	s.locked(func() {
		if s.status.RunningMode == RunningStateRun {
			s.status.RunningMode = RunningStateManual
		}
	})
	s.publish()
}

//runStep is queued by the runner, it is a no-op once the simulation left the run mode
func (s *Simulation) runStep() {
	s.mu.Lock()
	running := s.status.RunningMode == RunningStateRun
	s.mu.Unlock()
	if !running {
		return
	}
	if s.advance() {
		s.stopRunner()
	}
	s.publish()
}

//step does one manual simulation step
func (s *Simulation) step() {
	finished := s.advance()
	if finished {
		s.stopRunner()
	}
	s.locked(func() {
		if !finished && s.status.RunningMode == RunningStateFinished {
			s.status.RunningMode = RunningStateManual
		}
	})
	s.publish()
}

//advance does the next generation and updates the status
//returns true when a finishing condition is reached
func (s *Simulation) advance() (finished bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reason := ""
	if s.options.MaxSteps != 0 && s.status.IterationNum >= s.options.MaxSteps {
		reason = "max steps"
	} else {
		start := time.Now()
		s.u.Tick()
		s.status.IterationTime = time.Since(start)
		s.status.IterationNum++
		s.status.LiveCells = s.u.Population()
		s.status.Err = nil
		s.status.Stagnant = s.updateHistory(s.u.Fingerprint())
		if s.status.Stagnant {
			s.stagnantCount++
		} else {
			s.stagnantCount = 0
		}
		s.status.Details["stagnant steps"] = s.stagnantCount

		switch {
		case s.status.LiveCells == 0:
			reason = "extinction"
		case s.options.StagnationThreshold > 0 && s.stagnantCount >= s.options.StagnationThreshold:
			reason = "stagnation"
		case s.options.MaxSteps != 0 && s.status.IterationNum >= s.options.MaxSteps:
			reason = "max steps"
		}
	}
	if reason == "" {
		return false
	}
	s.status.RunningMode = RunningStateFinished
	s.status.Details["finish reason"] = reason
	diag.Logger().Info("simulation finished",
		"reason", reason,
		"iteration", s.status.IterationNum,
		"live", s.status.LiveCells)
	return true
}

//updateHistory records the fingerprint and reports whether it repeats a recent generation
func (s *Simulation) updateHistory(fp string) bool {
	stagnant := false
	for i := len(s.history) - 1; i >= 0 && i >= len(s.history)-cycleWindow; i-- {
		if s.history[i] == fp {
			stagnant = true
			break
		}
	}
	s.history = append(s.history, fp)
	if len(s.history) > historySize {
		s.history = s.history[1:]
	}
	return stagnant
}

//resetHistory restarts cycle detection from the current generation, mu must be held
func (s *Simulation) resetHistory() {
	s.history = []string{s.u.Fingerprint()}
	s.stagnantCount = 0
	s.status.Stagnant = false
	delete(s.status.Details, "finish reason")
	delete(s.status.Details, "stagnant steps")
}

//clear clears the universe data, reset all counters
func (s *Simulation) clear() {
	s.stopRunner()
	s.locked(func() {
		s.u.Clear()
		s.restart()
	})
	s.publish()
}

//reset reseeds the universe, reset all counters
func (s *Simulation) reset() {
	s.stopRunner()
	s.locked(func() {
		s.u.Reset()
		s.restart()
	})
	s.publish()
}

func (s *Simulation) resize(width int, height int) {
	s.stopRunner()
	s.locked(func() {
		if err := s.u.Resize(width, height); err != nil {
			s.fail(err)
			return
		}
		s.options.Width, s.options.Height = width, height
		s.restart()
	})
	s.publish()
}

//restart resets counters after the grid was replaced, mu must be held
func (s *Simulation) restart() {
	s.status.IterationNum = 0
	s.status.IterationTime = 0
	s.status.LiveCells = s.u.Population()
	s.status.RunningMode = RunningStateManual
	s.status.Err = nil
	s.resetHistory()
}

//mutate applies a cell mutation, an error is logged and left in the status
func (s *Simulation) mutate(fn func(u *universe.Universe) error) {
	s.locked(func() {
		if err := fn(s.u); err != nil {
			s.fail(err)
			return
		}
		s.status.Err = nil
		s.status.LiveCells = s.u.Population()
		s.resetHistory()
	})
	s.publish()
}

//locked runs fn with mu held
func (s *Simulation) locked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

//fail records a command error, mu must be held
func (s *Simulation) fail(err error) {
	s.status.Err = err
	diag.Logger().Warn("command rejected", "err", err.Error())
}
