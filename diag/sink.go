package diag

import (
	"fmt"
	"os"
	"path"
)

// ProfileRecord is one row of a velocity profile along x.
type ProfileRecord struct {
	I int
	Density, Vz float64
}

// TimeSeriesRecord is the state of the monitored site at one step.
type TimeSeriesRecord struct {
	Step int
	Density, Vz float64
}

// HistogramRecord is one normalised bin of the fluctuation histogram.
type HistogramRecord struct {
	Center, Density float64
}

// Sink receives diagnostic records. Sinks are called synchronously from the
// solver's step loop.
type Sink interface {
	WriteProfile(step int, recs []ProfileRecord) error
	WriteTimeSeries(rec TimeSeriesRecord) error
	WriteHistogram(recs []HistogramRecord) error
}

// FileSink writes diagnostics as whitespace-separated text columns. An empty
// file name turns the corresponding output off.
type FileSink struct {
	Dir string
	// Profiles are written to <ProfilePrefix><step>.dat.
	ProfilePrefix string
	TimeSeriesFile, HistogramFile string
}

// DefaultFileSink returns a FileSink which uses the standard file names in
// the given directory.
func DefaultFileSink(dir string) *FileSink {
	return &FileSink{
		Dir: dir,
		ProfilePrefix: "vz_of_x",
		TimeSeriesFile: "myfile.dat",
		HistogramFile: "vel_dist.dat",
	}
}

// ProfileFile returns the name of the profile file for a step.
func (fs *FileSink) ProfileFile(step int) string {
	return path.Join(fs.Dir, fmt.Sprintf("%s%d.dat", fs.ProfilePrefix, step))
}

func (fs *FileSink) open(name string, flag int) (*os.File, error) {
	return os.OpenFile(path.Join(fs.Dir, name), flag | os.O_WRONLY, 0644)
}

// WriteProfile appends the rows "i density vz" to the profile file of the
// given step.
func (fs *FileSink) WriteProfile(step int, recs []ProfileRecord) error {
	if fs.ProfilePrefix == "" { return nil }
	f, err := os.OpenFile(
		fs.ProfileFile(step), os.O_APPEND | os.O_CREATE | os.O_WRONLY, 0644,
	)
	if err != nil { return err }

	for _, r := range recs {
		_, err = fmt.Fprintf(f, "%9d %9.6f %9.6f\n", r.I, r.Density, r.Vz)
		if err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// WriteTimeSeries appends the row "step density vz" to the time series
// file.
func (fs *FileSink) WriteTimeSeries(rec TimeSeriesRecord) error {
	if fs.TimeSeriesFile == "" { return nil }
	f, err := fs.open(fs.TimeSeriesFile, os.O_APPEND | os.O_CREATE)
	if err != nil { return err }

	_, err = fmt.Fprintf(f, "%9d %9.6f %9.6f\n", rec.Step, rec.Density, rec.Vz)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteHistogram writes the rows "center density" to the histogram file,
// replacing anything already there.
func (fs *FileSink) WriteHistogram(recs []HistogramRecord) error {
	if fs.HistogramFile == "" { return nil }
	f, err := fs.open(fs.HistogramFile, os.O_TRUNC | os.O_CREATE)
	if err != nil { return err }

	for _, r := range recs {
		_, err = fmt.Fprintf(f, "%8.4f %8.4f\n", r.Center, r.Density)
		if err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// MemorySink keeps every record in memory. It is used by tests and by
// callers which analyse a run without touching the disk.
type MemorySink struct {
	Profiles map[int][]ProfileRecord
	TimeSeries []TimeSeriesRecord
	Histogram []HistogramRecord
	// HistogramWrites counts calls to WriteHistogram.
	HistogramWrites int
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{ Profiles: map[int][]ProfileRecord{} }
}

func (ms *MemorySink) WriteProfile(step int, recs []ProfileRecord) error {
	ms.Profiles[step] = append(ms.Profiles[step], recs...)
	return nil
}

func (ms *MemorySink) WriteTimeSeries(rec TimeSeriesRecord) error {
	ms.TimeSeries = append(ms.TimeSeries, rec)
	return nil
}

func (ms *MemorySink) WriteHistogram(recs []HistogramRecord) error {
	ms.Histogram = append([]HistogramRecord{}, recs...)
	ms.HistogramWrites++
	return nil
}

// Discard is a Sink which drops everything.
type Discard struct{}

func (Discard) WriteProfile(int, []ProfileRecord) error { return nil }
func (Discard) WriteTimeSeries(TimeSeriesRecord) error { return nil }
func (Discard) WriteHistogram([]HistogramRecord) error { return nil }

var (
	_ Sink = &FileSink{}
	_ Sink = &MemorySink{}
	_ Sink = Discard{}
)
