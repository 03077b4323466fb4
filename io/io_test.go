package io

import (
	"bytes"
	"log"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/golb"
	"github.com/phil-mansfield/golb/diag"
	"github.com/phil-mansfield/golb/fluid"
)

func TestExampleConfig(t *testing.T) {
	wrap, err := ReadConfigString(ExampleConfigFile)
	require.NoError(t, err)

	lb := &wrap.LatticeBoltzmann
	assert.Equal(t, []int{32, 4, 4}, []int{lb.Nx, lb.Ny, lb.Nz})
	assert.Equal(t, 1.0, lb.Rho0)
	assert.Equal(t, 1000, wrap.Run.Steps)
	assert.Equal(t, 8, wrap.Diagnostics.MonitorX)
	assert.Equal(t, 0.0, wrap.Diagnostics.HistCenter)

	con, err := wrap.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, golb.Uniform, con.ForceProfile)
	assert.Equal(t, [3]int{8, 0, 0}, con.Policy.Monitor)
	assert.Equal(t, 100, con.Policy.Bins)
}

func TestConfigValues(t *testing.T) {
	str := `[LatticeBoltzmann]
Nx = 8
Ny = 2
Nz = 2
A = 2
Tau = 0.5
U0Z = 0.04
GammaShear = 0.5
LBTemp = 1e-4
ForceZ = 1e-5
ForceProfile = sinusoidal
InitProfile = Sinusoidal
InitAmplitude = 0.01

[Diagnostics]
Output = out
ProfileEvery = 10
HistEvery = 0

[Run]
Steps = 20
Seed = 7
Workers = 2`

	wrap, err := ReadConfigString(str)
	require.NoError(t, err)
	assert.InDelta(t, 0.01, wrap.Diagnostics.HistCenter, 1e-15)
	assert.Equal(t, 2, wrap.Diagnostics.MonitorX)

	con, err := wrap.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, golb.Sinusoidal, con.ForceProfile)
	assert.Equal(t, golb.Sinusoidal, con.InitProfile)
	assert.Equal(t, [3]float64{0, 0, 1e-5}, con.ExtForce)
	assert.Equal(t, int64(7), con.Seed)
	assert.Equal(t, 2, con.Workers)
	assert.False(t, con.Policy.HistEnabled())

	sink := wrap.Diagnostics.Sink()
	assert.Equal(t, "out", sink.Dir)
	assert.Equal(t, "vz_of_x", sink.ProfilePrefix)
}

func TestConfigErrors(t *testing.T) {
	table := []string{
		"[LatticeBoltzmann]\nNx = 0\nNy = 1\nNz = 1",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\nTau = 0",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\nRho0 = -1",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\nNumVels = 27",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\nLBTemp = -1",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\nInitProfile = Bump",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\nForceProfile = Bump",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\n" +
			"[Diagnostics]\nHistBins = 0",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\n" +
			"[Diagnostics]\nProfileEvery = -1",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\n[Run]\nSteps = -1",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\n[Run]\nWorkers = -1",
		"[LatticeBoltzmann]\nNx = 1\nNy = 1\nNz = 1\nUnknownVariable = 3",
	}

	for i, str := range table {
		if _, err := ReadConfigString(str); err == nil {
			t.Errorf("%d) Expected error for config:\n%s", i, str)
		}
	}

	// Valid as a file, but the solver rejects the relaxation rate.
	wrap, err := ReadConfigString(
		"[LatticeBoltzmann]\nNx = 4\nNy = 4\nNz = 4\nGammaOdd = 3",
	)
	require.NoError(t, err)
	_, err = wrap.SolverConfig()
	assert.ErrorIs(t, err, golb.ErrBadGamma)
}

func newSolver(t *testing.T, str string) *golb.Solver {
	wrap, err := ReadConfigString(str)
	require.NoError(t, err)
	con, err := wrap.SolverConfig()
	require.NoError(t, err)
	s, err := golb.New(con, golb.SeededNoise(con.Seed), nil)
	require.NoError(t, err)
	s.Sampler.Quiet = true
	return s
}

const checkpointConfig = `[LatticeBoltzmann]
Nx = 4
Ny = 3
Nz = 2
GammaShear = 0.25
InitProfile = Sinusoidal

[Diagnostics]
HistEvery = 0

[Run]
Seed = 3`

func TestCheckpointRoundTrip(t *testing.T) {
	file := path.Join(t.TempDir(), "fluid.lb")

	s1 := newSolver(t, checkpointConfig)
	require.NoError(t, s1.Run(5))
	require.NoError(t, WriteSolver(file, s1))

	hd := &CheckpointHeader{}
	require.NoError(t, ReadCheckpointHeader(file, hd))
	assert.Equal(t, [3]int64{4, 3, 2}, hd.Width)
	assert.Equal(t, int64(5), hd.Step)
	assert.Equal(t, 0.25, hd.GammaShear)
	assert.Equal(t, 24, hd.Count())

	s2 := newSolver(t, checkpointConfig)
	require.NoError(t, RestoreSolver(file, s2))
	assert.Equal(t, 5, s2.StepNum())
	assert.Equal(t, s1.Field.Buffer(), s2.Field.Buffer())

	// Both runs continue identically.
	require.NoError(t, s1.Run(3))
	require.NoError(t, s2.Run(3))
	assert.Equal(t, s1.Field.Buffer(), s2.Field.Buffer())
}

func TestCheckpointErrors(t *testing.T) {
	dir := t.TempDir()
	file := path.Join(dir, "fluid.lb")

	s := newSolver(t, checkpointConfig)
	require.NoError(t, WriteSolver(file, s))

	other := newSolver(t,
		"[LatticeBoltzmann]\nNx = 2\nNy = 3\nNz = 2\n[Diagnostics]\nHistEvery = 0",
	)
	assert.Error(t, RestoreSolver(file, other))
	assert.Error(t, RestoreSolver(path.Join(dir, "missing.lb"), s))

	hd := SolverHeader(s)
	pops := make([]fluid.Populations, 3)
	assert.Error(t, WriteCheckpoint(file, hd, pops, nil))
	_, err := ReadCheckpoint(file, hd, pops)
	assert.Error(t, err)
	assert.Error(t, WriteCheckpoint(file, hd, s.Field.Buffer(), []int64{1}))
}

const histogramConfig = `[LatticeBoltzmann]
Nx = 4
Ny = 2
Nz = 2
GammaShear = 0.25
InitProfile = Sinusoidal

[Diagnostics]
ProfileEvery = 0
HistStart = 1
HistEnd = 10
HistEvery = 1
HistBins = 20

[Run]
Seed = 3`

func newSinkSolver(t *testing.T, str string) (*golb.Solver, *diag.MemorySink) {
	wrap, err := ReadConfigString(str)
	require.NoError(t, err)
	con, err := wrap.SolverConfig()
	require.NoError(t, err)
	sink := diag.NewMemorySink()
	s, err := golb.New(con, golb.SeededNoise(con.Seed), sink)
	require.NoError(t, err)
	s.Sampler.Quiet = true
	return s, sink
}

func TestCheckpointHistogram(t *testing.T) {
	dir := t.TempDir()
	done, mid := path.Join(dir, "done.lb"), path.Join(dir, "mid.lb")

	s1, sink1 := newSinkSolver(t, histogramConfig)
	require.NoError(t, s1.Run(5))
	require.NoError(t, WriteSolver(mid, s1))
	require.NoError(t, s1.Run(5))
	require.NoError(t, WriteSolver(done, s1))
	require.Equal(t, 1, sink1.HistogramWrites)
	require.Equal(t, 10*16, s1.Sampler.Hist.Total())

	// Restarting after the window keeps the finished histogram.
	s2, sink2 := newSinkSolver(t, histogramConfig)
	require.NoError(t, RestoreSolver(done, s2))
	assert.True(t, s2.Sampler.HistDone())
	assert.Equal(t, s1.Sampler.Hist.Counts, s2.Sampler.Hist.Counts)
	require.NoError(t, s2.Run(1))
	assert.Equal(t, 0, sink2.HistogramWrites)

	// Restarting inside the window keeps the earlier samples.
	s3, sink3 := newSinkSolver(t, histogramConfig)
	require.NoError(t, RestoreSolver(mid, s3))
	assert.False(t, s3.Sampler.HistDone())
	assert.Equal(t, 5*16, s3.Sampler.Hist.Total())
	require.NoError(t, s3.Run(5))
	require.Equal(t, 1, sink3.HistogramWrites)
	assert.Equal(t, s1.Sampler.Hist.Counts, s3.Sampler.Hist.Counts)
	assert.Equal(t, sink1.Histogram, sink3.Histogram)

	// A checkpoint without a histogram past the window writes nothing.
	other := strings.Replace(histogramConfig, "HistBins = 20", "HistBins = 10", 1)
	s4, sink4 := newSinkSolver(t, other)
	require.NoError(t, RestoreSolver(done, s4))
	assert.True(t, s4.Sampler.HistDone())
	require.NoError(t, s4.Run(1))
	assert.Equal(t, 0, sink4.HistogramWrites)
}

func TestCheckpointParameterMismatch(t *testing.T) {
	file := path.Join(t.TempDir(), "fluid.lb")

	s1 := newSolver(t, checkpointConfig)
	s1.SetExtForce([3]float64{0, 0, 1e-5})
	require.NoError(t, WriteSolver(file, s1))

	hd := &CheckpointHeader{}
	require.NoError(t, ReadCheckpointHeader(file, hd))
	assert.Equal(t, [3]float64{0, 0, 1e-5}, hd.ExtForce)
	assert.Equal(t, int64(golb.Uniform), hd.ForceProfile)

	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	same := newSolver(t, checkpointConfig)
	same.SetExtForce([3]float64{0, 0, 1e-5})
	buf.Reset()
	require.NoError(t, RestoreSolver(file, same))
	assert.NotContains(t, buf.String(), "differ")

	s2 := newSolver(t, checkpointConfig)
	buf.Reset()
	require.NoError(t, RestoreSolver(file, s2))
	assert.Contains(t, buf.String(), "differ")
	assert.Equal(t, [3]float64{}, s2.Params().ExtForce)
}
