package view

import (
	"fmt"
	"time"

	"toruslife/src/universe"
)

// console snapshot limits - the final grid is printed only when it fits
const (
	maxSnapshotWidth  = 80
	maxSnapshotHeight = 40
)

// ConsoleOut is a non-interactive viewer printing run progress and a
// final summary to stdout.
type ConsoleOut struct {
	e         *universe.Engine
	startTime time.Time
}

func NewConsoleOut() *ConsoleOut {
	return &ConsoleOut{}
}

func (c *ConsoleOut) Register(e *universe.Engine) {
	c.e = e
	o := c.e.Options()
	fmt.Println("Running configuration:")
	fmt.Printf("  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Printf("  Interval: %v\n", o.Interval)
	fmt.Printf("  Max iterations: %v steps\n", o.MaxSteps)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Println("\nSimulation started...")
}

func (c *ConsoleOut) Refresh() {
	st := c.e.Status()
	if st.RunningMode == universe.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		fmt.Println("\nFinished:")
		fmt.Printf("  Last iteration: %v\n", st.IterationNum)
		fmt.Printf("  Live cells: %v\n", st.LiveCells)
		fmt.Printf("  Total time: %v\n", totalTime)
		c.printSnapshot()
	} else if st.RunningMode == universe.RunningStateRun {
		if st.IterationNum%10 == 0 {
			fmt.Printf("  Iterations done: %v\n", st.IterationNum)
		}
	}
}

func (c *ConsoleOut) printSnapshot() {
	width, height, _ := c.e.Snapshot()
	if width > maxSnapshotWidth || height > maxSnapshotHeight {
		return
	}
	fmt.Println()
	fmt.Print(c.e.Render())
}
