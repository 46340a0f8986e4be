package main

import (
	"testing"

	"bitlife/src/simulation"
	"bitlife/src/universe"
)

var (
	testTemplate = universe.Template{Name: "ts1", Cells: []universe.Cell{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 3, Col: 3}, {Row: 4, Col: 2}, {Row: 4, Col: 3}, {Row: 5, Col: 3}}}
)

func simulationStep(s *simulation.Simulation, b *testing.B) {
	s.AddTemplate(testTemplate)
	stateCh := s.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		s.Clear()
		<-stateCh //wait for finish
		s.SettleTemplate("ts1", 0, 0)
		<-stateCh
		b.StartTimer()
		s.Step()
		<-stateCh
	}
	s.Close()
}

func simulationRun(s *simulation.Simulation, b *testing.B) {
	s.AddTemplate(testTemplate)
	stateCh := s.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		s.Clear()
		<-stateCh //wait for finish
		s.SettleTemplate("ts1", 0, 0)
		<-stateCh
		b.StartTimer()
		s.Run()
		for {
			st := <-stateCh
			if st.RunningMode == simulation.RunningStateFinished {
				break
			}
		}
	}
	s.Close()
}

func newSimulation(b *testing.B) *simulation.Simulation {
	o := simulation.DefaultOptions
	o.Interval = 0
	o.MaxSteps = 100
	o.StagnationThreshold = 0
	o.Random = universe.NewRandom(1)
	s, err := simulation.New(&o, make(chan simulation.Status, 10))
	if err != nil {
		b.Fatal(err)
	}
	return s
}

func BenchmarkSimulation_Step(b *testing.B) {
	simulationStep(newSimulation(b), b)
}

func BenchmarkSimulation_Run(b *testing.B) {
	simulationRun(newSimulation(b), b)
}
