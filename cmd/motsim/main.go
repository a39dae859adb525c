package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/coldatoms/motsim/internal/bench"
	"github.com/coldatoms/motsim/internal/config"
	"github.com/coldatoms/motsim/internal/output"
	"github.com/coldatoms/motsim/internal/sim"
	"github.com/coldatoms/motsim/internal/tui"
)

var (
	configFile  string
	steps       int
	workers     int
	seed        uint64
	statusEvery int
	benchFile   string
	profileCPU  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "motsim",
		Short: "laser cooling and magneto-optical trap simulator",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().IntVar(&steps, "steps", 0, "override step count")
	runCmd.Flags().IntVar(&workers, "workers", 0, "override worker count")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "override random seed (0 keeps the config seed)")
	runCmd.Flags().IntVar(&statusEvery, "status", 500, "print a status line every n steps (0 disables)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with the live terminal monitor",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().IntVar(&workers, "workers", 0, "override worker count")
	liveCmd.Flags().Uint64Var(&seed, "seed", 0, "override random seed")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run the standard benchmark scenario",
		Long:  "Reads benchmark.json (n_threads, n_steps, n_atoms) when present and writes benchmark_result.json with the step-loop wall time.",
		RunE:  runBench,
	}
	benchCmd.Flags().StringVar(&benchFile, "request", bench.RequestFile, "benchmark request file")
	benchCmd.Flags().BoolVar(&profileCPU, "cpuprofile", false, "write a CPU profile for the benchmark loop")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "motsim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}
	if steps > 0 {
		cfg.Steps = steps
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	run, err := sim.Build(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	onStep := func(st sim.StepStats) {
		if statusEvery > 0 && st.Step%uint64(statusEvery) == 0 {
			fmt.Println(output.StatusLine(st.Step, st.Time, st.Atoms, st.Captured))
		}
	}
	summary, err := run.Execute(ctx, onStep)
	if err != nil {
		return err
	}
	fmt.Print(output.Summary(summary.AtomHistory, summary.Captured,
		summary.MeanCaptureSpeed, summary.MeanInitialSpeed))
	fmt.Printf("%d steps in %s\n", summary.Steps, summary.Elapsed.Round(time.Millisecond))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	run, err := sim.Build(cfg)
	if err != nil {
		return err
	}
	return tui.Run(run)
}

func runBench(cmd *cobra.Command, args []string) error {
	req, err := bench.LoadRequest(benchFile)
	if err != nil {
		return err
	}
	fmt.Printf("benchmark: %d atoms, %d steps, %d threads\n", req.NAtoms, req.NSteps, req.NThreads)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var p interface{ Stop() }
	if profileCPU {
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	}
	res, err := bench.Execute(ctx, req)
	if p != nil {
		p.Stop()
	}
	if err != nil {
		return err
	}
	if err := bench.WriteResult(bench.ResultFile, res); err != nil {
		return err
	}
	fmt.Printf("step loop completed in %.3fs, wrote %s\n", res.Time, bench.ResultFile)
	return nil
}
