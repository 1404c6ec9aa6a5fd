package simulation

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"lifetorus/src/universe"
)

//ErrClosed is returned by the commands of a closed simulation
var ErrClosed = errors.New("simulation is closed")

//Options represents the Simulation's configurable options
type Options struct {
	Interval        time.Duration //interval between the generations in the run mode, 0 runs as fast as possible
	MaxSteps        int           //the run finishes after this many generations, 0 means no limit
	MaxSkippedTicks int           //the run finishes when this many ticks in a row find the previous step unfinished
}

//Status represents the status of the Simulation at concrete moment
type Status struct {
	Generation    int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
}

//Frame is a consistent copy of the universe and its status, used for rendering
type Frame struct {
	Width  int
	Height int
	Cells  []universe.Cell //row-major
	Status Status
}

//Cell returns the frame cell at (row, column), ok is false outside the frame
func (f Frame) Cell(row int, column int) (c universe.Cell, ok bool) {
	if row < 0 || column < 0 || row >= f.Height || column >= f.Width {
		return universe.Dead, false
	}
	return f.Cells[row*f.Width+column], true
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(s *Simulation)
}

//The simulation running status at the concrete moment
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

func (r RunningState) String() string {
	switch r {
	case RunningStateManual:
		return "waiting"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefMaxSkippedTicks    = 5
)

var DefaultOptions = Options{
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
}

//Simulation drives one Universe
//every command is executed on a single control goroutine, so edits and generations never interleave
type Simulation struct {
	options Options
	u       *universe.Universe
	state   struct {
		Status
		sync.Mutex
	}
	frame struct {
		Frame
		sync.RWMutex
	}
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	//runStop is closed to stop the ticking goroutine, owned by the control goroutine
	runStop  chan struct{}
	inFlight atomic.Bool
}

//New creates the Simulation and starts its control loop
//stateCh is optional, when given it receives the Status on every running mode change and must be drained
func New(u *universe.Universe, o *Options, stateCh chan Status) *Simulation {
	if o == nil {
		o = &DefaultOptions
	}
	s := &Simulation{
		options:   *o,
		u:         u,
		stateCh:   stateCh,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	s.state.LiveCells = u.LiveCells()
	s.refreshView()
	go s.mainLoop()
	return s
}

//Options returns the simulation configuration
func (s *Simulation) Options() Options {
	return s.options
}

//Status returns current simulation status
func (s *Simulation) Status() Status {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.Status
}

//Snapshot returns the frame published after the last change
func (s *Simulation) Snapshot() Frame {
	s.frame.RLock()
	defer s.frame.RUnlock()
	return s.frame.Frame
}

//Width returns the universe width
func (s *Simulation) Width() int { return s.u.Width() }

//Height returns the universe height
func (s *Simulation) Height() int { return s.u.Height() }

//RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
func (s *Simulation) RegisterViewer(v Viewer) error {
	v.Register(s)
	return s.send(func() {
		s.views = append(s.views, v)
		v.Refresh()
	})
}

//StateCh returns the channel with the simulation's status updates
func (s *Simulation) StateCh() chan Status {
	return s.stateCh
}

//Run starts the simulation, returns immediately
func (s *Simulation) Run() error {
	return s.send(s.run)
}

//Stop stops the running simulation, returns immediately
func (s *Simulation) Stop() error {
	return s.send(s.stop)
}

//Step does one generation, returns immediately
//the Status will be written to the stateCh on start and on finish
func (s *Simulation) Step() error {
	return s.send(s.step)
}

//Clear kills all cells and resets the counters, returns immediately
func (s *Simulation) Clear() error {
	return s.send(s.clear)
}

//Settle places the pattern with its top left corner at (row, column), returns immediately
func (s *Simulation) Settle(p universe.Pattern, row int, column int) error {
	return s.send(func() {
		s.u.Settle(p, row, column)
		s.edited()
	})
}

//Randomize replaces the field with random data, returns immediately
func (s *Simulation) Randomize(seed int64, density float64) error {
	return s.send(func() {
		s.u.Randomize(seed, density)
		s.edited()
	})
}

//SetCell overwrites one cell bypassing the rules
//the bounds are checked before the command is queued, so ErrOutOfRange is reported synchronously
func (s *Simulation) SetCell(row int, column int, c universe.Cell) error {
	if err := s.checkBounds(row, column); err != nil {
		return err
	}
	return s.send(func() {
		_ = s.u.SetCell(row, column, c)
		s.edited()
	})
}

//InverseCell toggles one cell
func (s *Simulation) InverseCell(row int, column int) error {
	if err := s.checkBounds(row, column); err != nil {
		return err
	}
	return s.send(func() {
		_ = s.u.InverseCell(row, column)
		s.edited()
	})
}

//Close stops the control loop, returns after the loop has exited
func (s *Simulation) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
	<-s.done
}

//checkBounds only reads the dimensions, which never change
func (s *Simulation) checkBounds(row int, column int) error {
	if _, ok := s.u.Index(row, column); !ok {
		return errors.Wrapf(universe.ErrOutOfRange, "(%d, %d) in %dx%d universe", row, column, s.u.Width(), s.u.Height())
	}
	return nil
}

//send queues the command for the control goroutine
//a closed simulation never accepts a command, even when controlCh has room
func (s *Simulation) send(cmd func()) error {
	select {
	case <-s.closeCh:
		return ErrClosed
	default:
	}
	select {
	case <-s.done:
		return ErrClosed
	case <-s.closeCh:
		return ErrClosed
	case s.controlCh <- cmd:
		return nil
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (s *Simulation) mainLoop() {
	defer close(s.done)
	for {
		select {
		case cmd := <-s.controlCh:
			cmd()
		case <-s.closeCh:
			s.stopTicking()
			return
		}
	}
}

//switchRunningState switch the state of the simulation to RunningState
//also writes the new state to the stateCh to signal upper control software
func (s *Simulation) switchRunningState(to RunningState) {
	s.state.Lock()
	s.state.RunningMode = to
	st := s.state.Status
	s.state.Unlock()
	if s.stateCh != nil {
		select {
		case s.stateCh <- st:
		case <-s.closeCh:
		}
	}
}

func (s *Simulation) mode() RunningState {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.RunningMode
}

//run starts ticking, every tick queues one step
//the run stops on Stop() calling or when the boundary conditions are reached
func (s *Simulation) run() {
	if s.runStop != nil {
		return
	}
	s.runStop = make(chan struct{})
	s.switchRunningState(RunningStateRun)
	go s.tick(s.runStop)
}

func (s *Simulation) tick(stop <-chan struct{}) {
	var tickC <-chan time.Time
	if s.options.Interval > 0 {
		t := time.NewTicker(s.options.Interval)
		defer t.Stop()
		tickC = t.C
	}
	skipped := 0
	for {
		if tickC != nil {
			select {
			case <-stop:
				return
			case <-tickC:
			}
		} else {
			select {
			case <-stop:
				return
			default:
			}
		}
		//skip the tick if the previous step is still queued
		if !s.inFlight.CompareAndSwap(false, true) {
			skipped++
			if skipped > s.options.MaxSkippedTicks {
				_ = s.send(s.finishRun)
				return
			}
			continue
		}
		skipped = 0
		ack := make(chan struct{})
		err := s.send(func() {
			defer close(ack)
			defer s.inFlight.Store(false)
			if s.mode() == RunningStateRun {
				s.step()
			}
		})
		if err != nil {
			s.inFlight.Store(false)
			return
		}
		if tickC == nil {
			select {
			case <-ack:
			case <-stop:
				return
			case <-s.done:
				return
			}
		}
	}
}

//stopTicking stops the ticking goroutine if any
func (s *Simulation) stopTicking() {
	if s.runStop != nil {
		close(s.runStop)
		s.runStop = nil
	}
}

//stop stops the simulation running cycle
func (s *Simulation) stop() {
	if s.mode() == RunningStateRun {
		s.stopTicking()
		s.switchRunningState(RunningStateManual)
	}
}

func (s *Simulation) finishRun() {
	if s.mode() != RunningStateRun {
		return
	}
	s.stopTicking()
	s.switchRunningState(RunningStateFinished)
	s.refreshView()
}

//step does the one generation for the entire universe
func (s *Simulation) step() {
	rm := s.mode()
	if rm == RunningStateStep {
		return
	}
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	maxSteps := s.options.MaxSteps
	finished := false
	defer func() {
		if finished {
			s.stopTicking()
			s.switchRunningState(RunningStateFinished)
		} else {
			s.switchRunningState(rm)
		}
		s.refreshView()
	}()

	if maxSteps != 0 && s.Status().Generation >= maxSteps {
		finished = true
		return
	}
	s.switchRunningState(RunningStateStep)
	start := time.Now()
	changed := s.u.NextGeneration()
	liveCells := s.u.LiveCells()

	s.state.Lock()
	s.state.Generation++
	s.state.LiveCells = liveCells
	s.state.IterationTime = time.Since(start)
	generation := s.state.Generation
	s.state.Unlock()

	if liveCells == 0 || !changed || (maxSteps != 0 && generation >= maxSteps) {
		finished = true
	}
}

//clear clears the universe data, reset all counters
func (s *Simulation) clear() {
	s.stopTicking()
	s.u.Clear()
	s.state.Lock()
	s.state.Generation = 0
	s.state.LiveCells = 0
	s.state.IterationTime = 0
	s.state.Unlock()
	s.switchRunningState(RunningStateManual)
	s.refreshView()
}

//edited recounts the live cells after a direct change of the field
func (s *Simulation) edited() {
	liveCells := s.u.LiveCells()
	s.state.Lock()
	s.state.LiveCells = liveCells
	s.state.Unlock()
	s.refreshView()
}

//refreshView publishes the new frame and calls Refresh event for all registered views
func (s *Simulation) refreshView() {
	f := Frame{
		Width:  s.u.Width(),
		Height: s.u.Height(),
		Cells:  s.u.Cells(),
		Status: s.Status(),
	}
	s.frame.Lock()
	s.frame.Frame = f
	s.frame.Unlock()
	for _, v := range s.views {
		v.Refresh()
	}
}
