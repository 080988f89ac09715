package main

import (
	"fmt"
	"time"

	"github.com/riftforge/taskpool"

	"github.com/spf13/cobra"
)

func buildBenchCmd() *cobra.Command {
	var workers int
	var tasks int
	var taskDuration time.Duration

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Submit a synthetic workload and time a full drain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(workers, tasks, taskDuration)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 8, "number of pool workers")
	cmd.Flags().IntVar(&tasks, "tasks", 1000, "number of tasks to submit")
	cmd.Flags().DurationVar(&taskDuration, "task-duration", 5*time.Millisecond, "simulated work per task")

	return cmd
}

func runBench(workers, tasks int, taskDuration time.Duration) error {
	pool := taskpool.New(workers)

	start := time.Now()
	for i := 0; i < tasks; i++ {
		d := taskDuration
		if err := pool.Submit(func() { time.Sleep(d) }); err != nil {
			return fmt.Errorf("submitting task %d: %w", i, err)
		}
	}
	pool.Destroy(true)
	elapsed := time.Since(start)

	ideal, speedup := benchStats(workers, tasks, taskDuration, elapsed)

	fmt.Printf("workers=%d tasks=%d task_duration=%s\n", workers, tasks, taskDuration)
	fmt.Printf("elapsed=%s ideal=%s speedup_of_ideal=%.2f\n", elapsed, ideal, speedup)

	return nil
}

// benchStats computes the ideal drain time for tasks of taskDuration spread
// evenly across workers, and how close elapsed came to it (1.0 == ideal,
// <1.0 == slower than ideal). Kept separate from runBench so the math can be
// tested without actually running a pool.
func benchStats(workers, tasks int, taskDuration, elapsed time.Duration) (ideal time.Duration, speedup float64) {
	ideal = time.Duration(int64(tasks)*int64(taskDuration)) / time.Duration(workers)
	speedup = float64(ideal) / float64(elapsed)
	return ideal, speedup
}
