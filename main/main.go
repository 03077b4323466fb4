package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/phil-mansfield/golb"
	"github.com/phil-mansfield/golb/diag"
	"github.com/phil-mansfield/golb/integrator"
	"github.com/phil-mansfield/golb/io"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close stops profiling, closes the files inside FileGroup and sends the log
// back to stderr.
func (fg *FileGroup) Close() error {
	var err error
	if fg.prof != nil {
		pprof.StopCPUProfile()
		err = fg.prof.Close()
		fg.prof = nil
	}

	if fg.log != nil {
		log.SetOutput(os.Stderr)
		if logErr := fg.log.Close(); err == nil { err = logErr }
		fg.log = nil
	}
	return err
}

// NewFileGroup opens the log and profile files requested by a config.
func NewFileGroup(con *io.RunConfig) (*FileGroup, error) {
	fg := &FileGroup{}
	var err error

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil { return nil, err }
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			fg.Close()
			return nil, err
		}
		if err = pprof.StartCPUProfile(fg.prof); err != nil {
			fg.prof.Close()
			fg.prof = nil
			fg.Close()
			return nil, err
		}
	}

	return fg, nil
}

var threads int

func main() {
	// The main function manages input sanitization and calls the secondary
	// main functions for each mode.

	var (
		runStr, plotStr string
		exampleConfig string
	)
	vars := map[string]*string {
		"Run": &runStr,
		"Plot": &plotStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.IntVar(
		&threads, "Threads", runtime.NumCPU(),
		"Number of threads used. Default is the number of logical cores.",
	)
	flag.StringVar(
		&runStr, "Run", "",
		"Configuration file for running a lattice-Boltzmann simulation.",
	)
	flag.StringVar(
		&plotStr, "Plot", "",
		"Configuration file of a finished run whose diagnostics will be " +
			"plotted.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the " +
			"specified type to stdout. The only accepted argument is " +
			"'LatticeBoltzmann'.",
	)

	flag.Parse()

	// Figure out the mode and fail with a descriptive error is the user gave
	// incorrect flags.
	modeName, err := getModeName(vars)
	if err != nil { log.Fatal(err.Error()) }

	switch modeName {
	case "Run":
		wrap, err := io.ReadConfig(runStr)
		if err != nil { log.Fatal(err.Error()) }
		if threads <= 0 { log.Fatal("-Threads must be positive.") }

		if err = runFiles(wrap); err != nil { log.Fatal(err.Error()) }

	case "Plot":
		wrap, err := io.ReadConfig(plotStr)
		if err != nil { log.Fatal(err.Error()) }
		if err = plotMain(wrap); err != nil { log.Fatal(err.Error()) }

	case "ExampleConfig":
		switch exampleConfig {
		case "LatticeBoltzmann":
			fmt.Println(io.ExampleConfigFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'LatticeBoltzmann'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" { setNames = append(setNames, name) }
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but golb only accepts one " +
				"flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// runFiles opens the log and profile files of a run, runs it and closes the
// files again, whether or not the run succeeded.
func runFiles(wrap *io.Wrapper) error {
	fg, err := NewFileGroup(&wrap.Run)
	if err != nil { return err }

	err = runMain(wrap)
	if closeErr := fg.Close(); err == nil { err = closeErr }
	return err
}

func runMain(wrap *io.Wrapper) error {
	con, err := wrap.SolverConfig()
	if err != nil { return err }
	if con.Workers == 0 { con.Workers = threads }
	runtime.GOMAXPROCS(threads)

	sink := wrap.Diagnostics.Sink()
	if sink.Dir != "" {
		if err = os.MkdirAll(sink.Dir, 0755); err != nil { return err }
	}

	s, err := golb.New(con, golb.SeededNoise(con.Seed), sink)
	if err != nil { return err }

	if wrap.Run.ValidRestart() {
		if err = io.RestoreSolver(wrap.Run.Restart, s); err != nil {
			return err
		}
	}

	loop := integrator.NewLoop()
	s.Attach(loop)
	defer s.Detach()

	for i := 0; i < wrap.Run.Steps; i++ {
		loop.Run(1)
		if err = s.Err(); err != nil { return err }
		checkSample(s)
	}

	mean, variance := diag.VelocityStats(s.Field)
	log.Printf(
		"Finished %d steps. Total mass: %.6f, <v_z>: %.3g, Var(v_z): %.3g",
		s.StepNum(), s.Field.TotalMass(), mean[2], variance[2],
	)
	if p := s.Params(); p.LBTemp > 0 {
		log.Printf("Expected Var(v_z) from lbTemp: %.3g", p.LBTemp / p.Rho0)
	}

	if wrap.Run.ValidCheckpoint() {
		return io.WriteSolver(wrap.Run.Checkpoint, s)
	}
	return nil
}

// checkSample warns if the monitored site was sampled on the last step and
// looks unphysical.
func checkSample(s *golb.Solver) {
	rec := s.Sampler.Last()
	if rec.Step != s.StepNum() { return }
	if math.IsNaN(rec.Density) || rec.Density <= 0 || math.IsNaN(rec.Vz) {
		log.Printf(
			"WARNING: monitored site has density %g and v_z %g at step %d. " +
				"The run may have gone unstable.",
			rec.Density, rec.Vz, rec.Step,
		)
	}
}

func plotMain(wrap *io.Wrapper) error {
	d := &wrap.Diagnostics
	sink := d.Sink()

	plotted := 0
	if sink.TimeSeriesFile != "" {
		recs, err := diag.ReadTimeSeries(path.Join(sink.Dir, sink.TimeSeriesFile))
		if err != nil { return err }
		diag.PlotTimeSeries(recs, path.Join(sink.Dir, "time_series.png"))

		rho, vz := diag.SeriesStats(recs)
		log.Printf(
			"Monitored site: density %.6f +/- %.2g, v_z %.3g +/- %.2g",
			rho[0], rho[1], vz[0], vz[1],
		)
		plotted++
	}

	if sink.ProfilePrefix != "" {
		for _, step := range profileSteps(d.ProfileEvery, wrap.Run.Steps) {
			file := sink.ProfileFile(step)
			if _, err := os.Stat(file); err != nil { continue }

			recs, err := diag.ReadProfile(file)
			if err != nil { return err }
			fname := path.Join(
				sink.Dir, fmt.Sprintf("%s%d.png", sink.ProfilePrefix, step),
			)
			diag.PlotProfile(recs, step, fname)
			plotted++
		}
	}

	if sink.HistogramFile != "" && d.HistEvery > 0 {
		recs, err := diag.ReadHistogram(path.Join(sink.Dir, sink.HistogramFile))
		if err != nil { return err }
		lb := &wrap.LatticeBoltzmann
		diag.PlotHistogram(
			recs, d.HistCenter, lb.LBTemp, lb.Rho0,
			path.Join(sink.Dir, "vel_dist.png"),
		)
		plotted++
	}

	if plotted == 0 { return fmt.Errorf("No diagnostic output to plot.") }
	diag.ExecutePlots()
	return nil
}

// profileSteps returns the steps that profiles are written on: the first
// step and the last one written.
func profileSteps(every, steps int) []int {
	out := []int{1}
	if every <= 0 || steps < every { return out }
	return append(out, (steps / every) * every)
}
