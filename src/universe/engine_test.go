package universe

import (
	"strings"
	"testing"
	"time"
)

func newTestEngine(width, height int) (*Engine, chan Status) {
	o := DefaultOptions
	o.Width = width
	o.Height = height
	o.Interval = 0
	stateCh := make(chan Status, 10)
	e := NewEngine(&o, stateCh)
	for _, tmpl := range BuiltinTemplates {
		e.AddTemplate(tmpl)
	}
	return e, stateCh
}

func waitForState(t *testing.T, stateCh chan Status, want RunningState) Status {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode == want {
				return st
			}
		case <-deadline:
			t.Fatalf("timed out waiting for running state %v", want)
		}
	}
}

func TestEngineStepBlinker(t *testing.T) {
	e, stateCh := newTestEngine(5, 5)
	defer e.Close()

	e.SettleTemplate("blinker")
	e.Step()
	st := waitForState(t, stateCh, RunningStateManual)

	if st.IterationNum != 1 {
		t.Fatalf("iteration = %d, want 1", st.IterationNum)
	}
	if st.LiveCells != 3 {
		t.Fatalf("live cells = %d, want 3", st.LiveCells)
	}

	// the horizontal blinker must now stand vertically
	w, _, cells := e.Snapshot()
	wantAlive := map[[2]int]bool{
		{2, 1}: true,
		{2, 2}: true,
		{2, 3}: true,
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			alive := cells[y*w+x] == Alive
			if alive != wantAlive[[2]int{x, y}] {
				t.Fatalf("cell (%d,%d) alive=%v, want %v", x, y, alive, wantAlive[[2]int{x, y}])
			}
		}
	}
}

func TestEngineRunFinishesOnStillLife(t *testing.T) {
	e, stateCh := newTestEngine(8, 8)
	defer e.Close()

	e.SettleTemplate("block")
	e.Run()
	st := waitForState(t, stateCh, RunningStateFinished)

	if st.LiveCells != 4 {
		t.Fatalf("live cells = %d, want the block's 4", st.LiveCells)
	}
}

func TestEngineClear(t *testing.T) {
	e, stateCh := newTestEngine(6, 6)
	defer e.Close()

	e.SettleTemplate("glider")
	e.Clear()
	st := waitForState(t, stateCh, RunningStateManual)

	if st.IterationNum != 0 || st.LiveCells != 0 {
		t.Fatalf("status after clear = %+v, want zeroed counters", st)
	}
	_, _, cells := e.Snapshot()
	for i, c := range cells {
		if c != Dead {
			t.Fatalf("cell %d survived the clear", i)
		}
	}
}

func TestEngineSettleSkipsOutOfArea(t *testing.T) {
	e, _ := newTestEngine(5, 5)
	defer e.Close()

	e.Settle([][]int{{10, 10}, {-1, 0}, {1, 1}})
	_, _, cells := e.Snapshot()
	live := 0
	for _, c := range cells {
		live += int(c)
	}
	if live != 1 {
		t.Fatalf("live cells = %d, want only the in-area point", live)
	}
}

func TestEngineSettleTemplateUnknownName(t *testing.T) {
	e, _ := newTestEngine(5, 5)
	defer e.Close()

	e.SettleTemplate("no-such-pattern")
	_, _, cells := e.Snapshot()
	for i, c := range cells {
		if c != Dead {
			t.Fatalf("cell %d settled by an unknown template", i)
		}
	}
}

func TestEngineResize(t *testing.T) {
	e, _ := newTestEngine(6, 6)
	defer e.Close()

	e.SettleTemplate("stills")
	e.Resize(3, 4)

	w, h, cells := e.Snapshot()
	if w != 3 || h != 4 {
		t.Fatalf("dimensions after resize = %dx%d, want 3x4", w, h)
	}
	if len(cells) != 12 {
		t.Fatalf("buffer length after resize = %d, want 12", len(cells))
	}
	for i, c := range cells {
		if c != Dead {
			t.Fatalf("cell %d survived the resize", i)
		}
	}
	if st := e.Status(); st.LiveCells != 0 {
		t.Fatalf("status live cells = %d, want 0", st.LiveCells)
	}
}

func TestEngineRender(t *testing.T) {
	e, _ := newTestEngine(3, 3)
	defer e.Close()

	e.SettleCell(1, 1)
	got := e.Render()
	if strings.Count(got, "◼") != 1 {
		t.Fatalf("Render() = %q, want exactly one filled glyph", got)
	}
	if strings.Count(got, "\n") != 3 {
		t.Fatalf("Render() = %q, want 3 lines", got)
	}
}

const (
	benchWidth  = 200
	benchHeight = 200
)

func newBenchEngine() (*Engine, chan Status) {
	o := DefaultOptions
	o.Width = benchWidth
	o.Height = benchHeight
	o.Interval = 0
	stateCh := make(chan Status, 10)
	e := NewEngine(&o, stateCh)
	for _, tmpl := range BuiltinTemplates {
		e.AddTemplate(tmpl)
	}
	return e, stateCh
}

func BenchmarkEngineStep(b *testing.B) {
	e, stateCh := newBenchEngine()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		e.Clear()
		<-stateCh //wait for finish
		e.SettleTemplate("stills")
		b.StartTimer()
		e.Step()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateManual {
				break
			}
		}
	}
	e.Close()
	close(stateCh)
}

func BenchmarkEngineRun(b *testing.B) {
	e, stateCh := newBenchEngine()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		e.Clear()
		<-stateCh //wait for finish
		e.SettleTemplate("stills")
		b.StartTimer()
		e.Run()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateFinished {
				break
			}
		}
	}
	e.Close()
	close(stateCh)
}
