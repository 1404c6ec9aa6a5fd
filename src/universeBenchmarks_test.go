package main

import (
	"testing"

	"lifetorus/src/simulation"
	"lifetorus/src/universe"
)

var (
	testPattern = universe.Pattern{
		Name:        "ts1",
		Coordinates: []universe.Point{{Row: 1, Column: 1}, {Row: 1, Column: 2}, {Row: 2, Column: 1}, {Row: 2, Column: 2}, {Row: 3, Column: 3}, {Row: 4, Column: 2}, {Row: 4, Column: 3}, {Row: 5, Column: 3}},
	}
)

func waitMode(stateCh chan simulation.Status, modes ...simulation.RunningState) {
	for {
		st := <-stateCh
		for _, m := range modes {
			if st.RunningMode == m {
				return
			}
		}
	}
}

func newBenchSimulation(b *testing.B) (*simulation.Simulation, chan simulation.Status) {
	u, err := universe.New(200, 200)
	if err != nil {
		b.Fatal(err)
	}
	o := simulation.DefaultOptions
	o.Interval = 0
	stateCh := make(chan simulation.Status, 10)
	return simulation.New(u, &o, stateCh), stateCh
}

func BenchmarkSimulation_Step(b *testing.B) {
	s, stateCh := newBenchSimulation(b)
	defer s.Close()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		_ = s.Clear()
		waitMode(stateCh, simulation.RunningStateManual) //wait for finish
		_ = s.Settle(testPattern, 0, 0)
		b.StartTimer()
		_ = s.Step()
		waitMode(stateCh, simulation.RunningStateManual, simulation.RunningStateFinished)
	}
}

func BenchmarkSimulation_Run(b *testing.B) {
	s, stateCh := newBenchSimulation(b)
	defer s.Close()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		_ = s.Clear()
		waitMode(stateCh, simulation.RunningStateManual)
		_ = s.Settle(testPattern, 0, 0)
		b.StartTimer()
		_ = s.Run()
		waitMode(stateCh, simulation.RunningStateFinished)
	}
}
