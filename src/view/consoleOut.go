package view

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"lifetorus/src/simulation"
)

//ConsoleOut reports the progress of a headless run
type ConsoleOut struct {
	s          *simulation.Simulation
	w          io.Writer
	au         aurora.Aurora
	startTime  time.Time
	every      int
	lastReport int
	finished   bool
}

//NewConsoleOut prints to w, a progress line every `every` generations
func NewConsoleOut(w io.Writer, colors bool, every int) *ConsoleOut {
	if every < 1 {
		every = 10
	}
	return &ConsoleOut{w: w, au: aurora.NewAurora(colors), every: every}
}

func (c *ConsoleOut) Refresh() {
	st := c.s.Status()
	switch st.RunningMode {
	case simulation.RunningStateFinished:
		if c.finished {
			return
		}
		c.finished = true
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last generation": st.Generation,
			"Total time":      totalTime,
			"Live cells":      st.LiveCells,
		}
		fmt.Fprintln(c.w, c.au.Red("\nFinished:"))
		c.printHashData(resultData)
	case simulation.RunningStateRun, simulation.RunningStateManual:
		c.finished = false
		if st.Generation != c.lastReport && st.Generation%c.every == 0 {
			c.lastReport = st.Generation
			fmt.Fprintf(c.w, "  Generations done: %v, live cells: %v\n", c.au.Cyan(st.Generation), st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(s *simulation.Simulation) {
	c.s = s
	o := c.s.Options()
	fmt.Fprintln(c.w, c.au.Green("Running configuration:"))
	c.printHashData(map[string]interface{}{
		"Dimension":       fmt.Sprintf("%v x %v", s.Width(), s.Height()),
		"Interval":        o.Interval,
		"Max generations": o.MaxSteps,
	})
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
