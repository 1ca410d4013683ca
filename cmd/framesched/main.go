package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"framesched/internal/job"
	"framesched/internal/sched"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		frames  int
		tasks   int
	)

	cmd := &cobra.Command{
		Use:   "framesched",
		Short: "Drive the frame-loop priority scheduler against a simulated vsync",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfgPath, frames, tasks)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "config.yml", "path to YAML config")
	cmd.Flags().IntVar(&frames, "frames", 10, "number of frames to produce")
	cmd.Flags().IntVar(&tasks, "tasks", 9, "number of background tasks to enqueue")
	return cmd
}

func run(cfgPath string, frames, tasks int) error {
	cfg := sched.Load(cfgPath)
	fmt.Printf("Loaded config: %+v\n", cfg)

	host := sched.NewLoopHost()
	s := sched.New(cfg, host)
	if cfg.CSVPath != "" {
		if err := s.EnableCSVLogging(cfg.CSVPath); err != nil {
			return err
		}
	}
	defer s.Close()

	// Background work across the priority bands. Idle jobs only run when
	// no frame work is pending.
	bands := []sched.Priority{sched.IdlePriority, sched.AnimationPriority, sched.TouchPriority}
	completions := make([]*sched.Future, 0, tasks+1)
	for i := 0; i < tasks; i++ {
		p := bands[i%len(bands)]
		label := fmt.Sprintf("%s-job-%d", p, i)
		completions = append(completions, s.ScheduleTask(job.Spin(100000, label), p))
	}
	completions = append(completions, s.ScheduleTask(job.Deferred(host, "async-job"), sched.ImmediatePriority))

	// Animation ticker: a transient callback that re-arms itself keeps
	// frames coming until the budget is spent.
	produced := 0
	var tick sched.FrameCallback
	tick = func(ts time.Duration) {
		produced++
		if produced < frames {
			s.ScheduleFrameCallback(tick)
		}
	}
	s.ScheduleFrameCallback(tick)

	s.ScheduleWarmUpFrame()
	host.Drain()
	fmt.Printf("Warm-up frame done, frame time %v\n", s.CurrentFrameTimeStamp())

	clock := sched.NewVsyncClock(64)
	clock.Start(time.Duration(cfg.TickMS) * time.Millisecond)
	defer clock.Stop()

	var frameNumber int64
	for raw := range clock.Ch {
		if host.TakeFrameRequest() {
			frameNumber++
			s.OnBeginFrame(raw)
			host.DrainMicrotasks()
			s.OnDrawFrame()
			s.OnReportTimings([]sched.FrameTiming{syntheticTiming(raw, frameNumber)})
		}

		// One loop turn per pending task; the scheduler dispatches at
		// most one task per call.
		for s.HandleOneLoopTurn() {
		}
		host.Drain()
		printEvents(s)

		if produced >= frames && s.PendingTasks() == 0 {
			break
		}
	}

	for _, c := range completions {
		if v, err, ok := c.Result(); ok {
			if err != nil {
				fmt.Printf("task failed: %v\n", err)
			} else {
				fmt.Printf("task done: %v\n", v)
			}
		}
	}
	return nil
}

// syntheticTiming fabricates a plausible timing sample for a frame begun
// at the given raw timestamp.
func syntheticTiming(raw time.Duration, frameNumber int64) sched.FrameTiming {
	return sched.FrameTiming{
		VsyncStart:           raw,
		BuildStart:           raw + 2*time.Millisecond,
		BuildFinish:          raw + 5*time.Millisecond,
		RasterStart:          raw + 6*time.Millisecond,
		RasterFinish:         raw + 10*time.Millisecond,
		RasterFinishWallTime: raw + 10*time.Millisecond,
		FrameNumber:          frameNumber,
	}
}

func printEvents(s *sched.Scheduler) {
	for {
		select {
		case ev := <-s.Events():
			fmt.Printf("%s = [%s] #%04d start=%v elapsed=%v build=%v raster=%v vsyncOverhead=%v\n",
				ev.Time.Format("Jan 02 15:04:05.000"),
				ev.Name, ev.Number, ev.StartTime, ev.Elapsed, ev.Build, ev.Raster, ev.VsyncOverhead)
		default:
			return
		}
	}
}
