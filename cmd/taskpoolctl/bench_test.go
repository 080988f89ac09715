package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildBenchCmd(t *testing.T) {
	cmd := buildBenchCmd()

	assert.NotNil(t, cmd, "buildBenchCmd should return a non-nil command")
	assert.Equal(t, "bench", cmd.Use, "Command should be 'bench'")
	assert.NotNil(t, cmd.RunE, "RunE function should be set")

	workersFlag := cmd.Flags().Lookup("workers")
	assert.NotNil(t, workersFlag, "Should have --workers flag")
	assert.Equal(t, "8", workersFlag.DefValue, "Default workers should be 8")

	tasksFlag := cmd.Flags().Lookup("tasks")
	assert.NotNil(t, tasksFlag, "Should have --tasks flag")
	assert.Equal(t, "1000", tasksFlag.DefValue, "Default tasks should be 1000")

	durationFlag := cmd.Flags().Lookup("task-duration")
	assert.NotNil(t, durationFlag, "Should have --task-duration flag")
	assert.Equal(t, (5 * time.Millisecond).String(), durationFlag.DefValue, "Default task-duration should be 5ms")
}

func TestBenchStatsIdeal(t *testing.T) {
	ideal, speedup := benchStats(4, 16, 25*time.Millisecond, 100*time.Millisecond)

	assert.Equal(t, 100*time.Millisecond, ideal, "ideal should be tasks*duration/workers")
	assert.InDelta(t, 1.0, speedup, 1e-9, "elapsed matching ideal exactly should give speedup 1.0")
}

func TestBenchStatsSlowerThanIdeal(t *testing.T) {
	ideal, speedup := benchStats(2, 10, 10*time.Millisecond, 100*time.Millisecond)

	assert.Equal(t, 50*time.Millisecond, ideal)
	assert.InDelta(t, 0.5, speedup, 1e-9, "taking twice the ideal time should give speedup 0.5")
}

func TestBenchStatsSingleWorkerIsSerial(t *testing.T) {
	ideal, _ := benchStats(1, 10, 10*time.Millisecond, 100*time.Millisecond)

	assert.Equal(t, 100*time.Millisecond, ideal, "with a single worker, ideal time equals total serial time")
}
