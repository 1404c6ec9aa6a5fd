package view

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"lifetorus/src/simulation"
	"lifetorus/src/universe"
)

//syncBuffer is written by the simulation goroutine and read by the test
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestConsoleOutReportsRun(t *testing.T) {
	u, err := universe.New(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := universe.LookupPattern("glider")
	u.Settle(p, 0, 0)

	o := simulation.DefaultOptions
	o.Interval = 0
	o.MaxSteps = 25
	stateCh := make(chan simulation.Status, 64)
	s := simulation.New(u, &o, stateCh)
	defer s.Close()

	var out syncBuffer
	c := NewConsoleOut(&out, false, 10)
	if err := s.RegisterViewer(c); err != nil {
		t.Fatal(err)
	}
	c.Start()
	_ = s.Run()

	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case st := <-stateCh:
			done = st.RunningMode == simulation.RunningStateFinished
		case <-timeout:
			t.Fatalf("run did not finish")
		}
	}
	s.Close()

	text := out.String()
	for _, want := range []string{
		"Running configuration:",
		"Dimension: 10 x 10",
		"Generations done: 10, live cells: 5",
		"Generations done: 20, live cells: 5",
		"Finished:",
		"Last generation: 25",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output misses %q:\n%s", want, text)
		}
	}
	if strings.Count(text, "Finished:") != 1 {
		t.Fatalf("final report printed more than once:\n%s", text)
	}
}
