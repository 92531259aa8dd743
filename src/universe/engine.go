package universe

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options represents the engine's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	Logger          *zerolog.Logger //diagnostic side channel, never affects the simulation
}

// Status represents the status of the engine at a concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
}

// Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(e *Engine)
	Start()
}

// Template represents a seeding template which can be used to settle the universe with a predefined pattern
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

// RunningState is the engine running status at the concrete moment
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

// default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 64
	DefHeight             = 64
	DefMaxSkippedTicks    = 5
)

var DefaultOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
}

// Engine drives one Universe. The grid itself has no synchronization;
// the engine is the single owner the core requires, serializing ticks,
// edits and resizes behind its mutex and a one-goroutine control loop.
type Engine struct {
	options Options
	log     zerolog.Logger
	state   struct {
		Status
		sync.Mutex
	}
	grid struct {
		*Universe
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	templates map[string]Template
	controlCh chan func()
	closeCh   chan bool
}

// NewEngine creates an Engine owning a fresh all-dead universe.
// stateCh may be nil when no external supervisor needs status updates.
func NewEngine(o *Options, stateCh chan Status) *Engine {
	if o == nil {
		o = &DefaultOptions
	}

	e := Engine{
		options:   *o,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	if o.Logger != nil {
		e.log = *o.Logger
	} else {
		e.log = zerolog.Nop()
	}

	e.grid.Universe = newUniverse(o.Width, o.Height)
	e.refreshView()
	go e.mainLoop()
	return &e
}

// AddTemplate adds the seeding template to the internal storage
// the universe can be populated with this template by calling SettleTemplate
func (e *Engine) AddTemplate(tmpl Template) {
	e.templates[tmpl.Name] = tmpl
}

// Settle settles the universe with data
// vc - array of x,y coordinates; points outside the grid are skipped
func (e *Engine) Settle(vc [][]int) {
	e.grid.Lock()
	e.settle(vc)
	e.grid.Unlock()
	e.refreshView()
}

// SettleTemplate populates the universe with the seeding template
func (e *Engine) SettleTemplate(name string) {
	tmpl, ok := e.templates[name]
	if !ok {
		e.log.Warn().Str("template", name).Msg("unknown seeding template")
		return
	}
	e.grid.Lock()
	e.settle(tmpl.Coordinates)
	live := e.grid.LiveCells()
	e.grid.Unlock()
	e.state.LiveCells = live
	e.refreshView()
}

// SettleWithRandomData re-seeds the universe with ~50% live cells
func (e *Engine) SettleWithRandomData() {
	if e.state.RunningMode == RunningStateManual || e.state.RunningMode == RunningStateFinished {
		e.controlCh <- e.clear
		e.controlCh <- func() {
			e.grid.Lock()
			e.grid.Randomize()
			live := e.grid.LiveCells()
			e.grid.Unlock()
			e.state.LiveCells = live
			e.refreshView()
		}
	}
}

// SettleCell sets the cell at point x, y to Alive (e.g. on a pointer click)
func (e *Engine) SettleCell(x int, y int) {
	e.Settle([][]int{{x, y}})
}

// Resize destructively resizes the grid: every cell is reset to Dead.
// Non-positive dimensions are ignored.
func (e *Engine) Resize(width int, height int) {
	if width < 1 || height < 1 {
		return
	}
	e.grid.Lock()
	if width != e.grid.Width() {
		e.grid.SetWidth(width)
	}
	if height != e.grid.Height() {
		e.grid.SetHeight(height)
	}
	e.grid.Unlock()
	e.state.Lock()
	e.state.LiveCells = 0
	e.state.Unlock()
	e.log.Debug().Int("width", width).Int("height", height).Msg("grid resized")
	e.refreshView()
}

// RegisterViewer registers the viewer - the engine will call the viewer when the state is changed
func (e *Engine) RegisterViewer(v Viewer) {
	e.views = append(e.views, v)
	v.Register(e)
}

// StateCh returns the channel with the engine's status updates
func (e *Engine) StateCh() chan Status {
	return e.stateCh
}

// Status returns the current engine status represented by the Status struct
func (e *Engine) Status() Status {
	return e.state.Status
}

// Options returns the current engine configuration represented by the Options struct
func (e *Engine) Options() Options {
	return e.options
}

// Snapshot returns the current dimensions and a copy of the cell buffer,
// safe to read while the engine keeps ticking.
func (e *Engine) Snapshot() (width int, height int, cells []Cell) {
	e.grid.Lock()
	defer e.grid.Unlock()
	width = e.grid.Width()
	height = e.grid.Height()
	cells = make([]Cell, len(e.grid.Cells()))
	copy(cells, e.grid.Cells())
	return
}

// Render returns a printable snapshot of the grid
func (e *Engine) Render() string {
	e.grid.Lock()
	defer e.grid.Unlock()
	return e.grid.Render()
}

// Run starts the simulation, returns immediately
func (e *Engine) Run() {
	e.controlCh <- e.run
}

// Stop stops the simulation, returns immediately
// the Status struct will be written to the stateCh on finish
func (e *Engine) Stop() {
	e.controlCh <- e.stop
}

// Step does one simulation step, returns immediately
// the Status struct will be written to the stateCh on start and on finish
func (e *Engine) Step() {
	e.controlCh <- e.step
}

// Clear clears the universe (kills all cells and resets all counters), returns immediately
// the Status struct will be written to the stateCh on finish
func (e *Engine) Clear() {
	e.controlCh <- e.clear
}

// Close stops the main loop, closes the channels, returns immediately
func (e *Engine) Close() {
	e.closeCh <- true
}

// mainLoop - the main cycle, should start as a goroutine
// waits for a command and executes it
func (e *Engine) mainLoop() {
	var c = false
	for !c {
		select {
		case cmd := <-e.controlCh:
			cmd()
		case c = <-e.closeCh:

		}
	}
	close(e.closeCh)
	close(e.controlCh)
}

// settle marks the given [x,y] points Alive, skipping points outside
// the grid; the core's SetCells itself is fatal on bad coordinates
func (e *Engine) settle(vc [][]int) {
	coords := make([][2]int, 0, len(vc))
	for _, v := range vc {
		if v[0] < 0 || v[1] < 0 || v[0] >= e.grid.Width() || v[1] >= e.grid.Height() {
			continue
		}
		coords = append(coords, [2]int{v[1], v[0]})
	}
	e.grid.SetCells(coords)
}

// switchRunningState switches the state of the engine to RunningState
// also writes the new state to the stateCh to signal upper control software
func (e *Engine) switchRunningState(to RunningState) {
	e.state.Lock()
	e.state.RunningMode = to
	st := e.state.Status
	e.state.Unlock()
	if e.stateCh != nil {
		e.stateCh <- st
	}
}

// run starts the simulation cycle
// the simulation will stop on Stop() or when a boundary condition is reached
func (e *Engine) run() {
	go func() {
		e.switchRunningState(RunningStateRun)
		skipped := 0
		done := make(chan bool)
		defer close(done)
		for {
			mode := e.state.RunningMode
			if mode != RunningStateRun && mode != RunningStateStep {
				break
			}
			if skipped > e.options.MaxSkippedTicks {
				e.log.Warn().Int("skipped_ticks", skipped).Msg("engine cannot keep up, finishing the run")
				e.switchRunningState(RunningStateFinished)
				break
			}
			//skip the tick if the engine is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				e.controlCh <- func() {
					e.step()
					done <- true
				}
				<-done
			} else {
				skipped++
			}
			if e.options.Interval > 0 {
				time.Sleep(e.options.Interval)
			}
		}
	}()
}

// stop stops the running cycle
func (e *Engine) stop() {
	if e.state.RunningMode == RunningStateRun {
		e.switchRunningState(RunningStateManual)
	}
}

// step computes the next generation for the entire universe
// a run finishes when max steps is reached, every cell is dead,
// or a tick changes nothing
func (e *Engine) step() {
	finished := false
	rm := e.state.RunningMode
	maxSteps := e.options.MaxSteps
	e.state.IterationNum++
	defer func() {
		if finished {
			e.switchRunningState(RunningStateFinished)
		} else {
			e.switchRunningState(rm)
		}
		e.refreshView()
	}()

	if maxSteps != 0 && e.state.IterationNum >= maxSteps {
		finished = true
		return
	}
	e.switchRunningState(RunningStateStep)

	e.grid.Lock()
	start := time.Now()
	//Tick swaps in a fresh buffer, so the pre-tick slice stays valid
	//for the change comparison below
	before := e.grid.Cells()
	e.grid.Tick()
	after := e.grid.Cells()
	live := 0
	changed := false
	for i := range after {
		live += int(after[i])
		if after[i] != before[i] {
			changed = true
		}
	}
	e.state.LiveCells = live
	e.state.IterationTime = time.Since(start)
	e.grid.Unlock()

	e.log.Debug().
		Int("iteration", e.state.IterationNum).
		Int("live_cells", live).
		Dur("took", e.state.IterationTime).
		Msg("tick")

	if live == 0 || !changed {
		finished = true
	}
}

// clear clears the universe data, resets all counters
func (e *Engine) clear() {
	e.state.Lock()
	e.grid.Lock()
	e.state.IterationNum = 0
	e.state.LiveCells = 0
	e.grid.Universe.Clear()
	e.state.RunningMode = RunningStateManual
	e.grid.Unlock()
	e.state.Unlock()
	e.switchRunningState(RunningStateManual)
	e.refreshView()
}

// refreshView calls the Refresh event for all registered views
func (e *Engine) refreshView() {
	for _, v := range e.views {
		v.Refresh()
	}
}
