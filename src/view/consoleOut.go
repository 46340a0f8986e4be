package view

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"

	"bitlife/src/simulation"
)

//ConsoleOut prints the simulation progress as plain lines
type ConsoleOut struct {
	s  *simulation.Simulation
	w  io.Writer
	au aurora.Aurora

	mu        sync.Mutex
	startTime time.Time
	reported  int //last iteration written, -1 after the summary
}

func NewConsoleOut(w io.Writer, colors bool) *ConsoleOut {
	return &ConsoleOut{w: w, au: aurora.NewAurora(colors)}
}

func (c *ConsoleOut) Refresh() {
	st := c.s.Status()
	c.mu.Lock()
	defer c.mu.Unlock()
	if st.RunningMode != simulation.RunningStateFinished && c.reported == -1 {
		c.reported = 0
	}
	if st.RunningMode == simulation.RunningStateFinished {
		if c.reported == -1 {
			return
		}
		c.reported = -1
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
			"Finish reason":  st.Details["finish reason"],
		}
		_, _ = fmt.Fprintln(c.w, c.au.Green("\nFinished:"))
		c.printHashData(resultData)
	} else if st.RunningMode == simulation.RunningStateRun {
		if st.IterationNum%10 == 0 && st.IterationNum != c.reported {
			c.reported = st.IterationNum
			_, _ = fmt.Fprintf(c.w, "  Iterations done: %v\n", st.IterationNum)
		}
	}
	if st.Err != nil {
		_, _ = fmt.Fprintf(c.w, "  %s %v\n", c.au.Red("error:"), st.Err)
	}
}

func (c *ConsoleOut) Register(s *simulation.Simulation) {
	c.s = s
	o := s.Options()
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	_, _ = fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() error {
	c.mu.Lock()
	c.startTime = time.Now()
	c.reported = 0
	c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
	return nil
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
