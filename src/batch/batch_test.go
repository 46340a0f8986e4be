package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"bitlife/src/universe"
)

func TestRunIsDeterministic(t *testing.T) {
	jobs := Jobs(6, 24, 16, 30, 100)
	first, err := Run(context.Background(), jobs, 3)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(context.Background(), jobs, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(jobs) {
		t.Fatalf("%d results for %d jobs", len(first), len(jobs))
	}
	for i := range jobs {
		if first[i].Name != jobs[i].Name {
			t.Fatalf("result %d is %s, expected job order", i, first[i].Name)
		}
		if first[i].Fingerprint != second[i].Fingerprint || first[i].LiveCells != second[i].LiveCells {
			t.Fatalf("job %s differs between runs", jobs[i].Name)
		}
		if first[i].Generations != 30 {
			t.Fatalf("job %s ran %d generations", jobs[i].Name, first[i].Generations)
		}
	}
}

func TestRunMatchesSequentialUniverse(t *testing.T) {
	job := Job{Name: "solo", Width: 20, Height: 20, Generations: 12, Seed: 77}
	results, err := Run(context.Background(), []Job{job}, 1)
	if err != nil {
		t.Fatal(err)
	}

	u, err := universe.NewWithOptions(&universe.Options{Width: 20, Height: 20, Random: universe.NewRandom(77)})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 12; i++ {
		u.Tick()
	}
	if results[0].Fingerprint != u.Fingerprint() {
		t.Fatal("batch result differs from a plain universe with the same seed")
	}
	if !strings.HasPrefix(results[0].String(), "solo: 12 generations") {
		t.Fatalf("unexpected summary %q", results[0].String())
	}
}

func TestRunFailsOnBadJob(t *testing.T) {
	jobs := Jobs(3, 8, 8, 5, 1)
	jobs[1].Width = 0
	_, err := Run(context.Background(), jobs, 2)
	if !errors.Is(err, universe.ErrZeroDimension) {
		t.Fatalf("err %v, expected ErrZeroDimension", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Jobs(2, 8, 8, 10, 1), 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err %v, expected context.Canceled", err)
	}
}
