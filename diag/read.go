package diag

import (
	"github.com/phil-mansfield/table"
)

// ReadProfile reads a profile file written by FileSink.
func ReadProfile(file string) ([]ProfileRecord, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2}, nil)
	if err != nil { return nil, err }

	is, rhos, vzs := cols[0], cols[1], cols[2]
	recs := make([]ProfileRecord, len(is))
	for i := range recs {
		recs[i] = ProfileRecord{ I: int(is[i]), Density: rhos[i], Vz: vzs[i] }
	}
	return recs, nil
}

// ReadTimeSeries reads a time series file written by FileSink.
func ReadTimeSeries(file string) ([]TimeSeriesRecord, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2}, nil)
	if err != nil { return nil, err }

	steps, rhos, vzs := cols[0], cols[1], cols[2]
	recs := make([]TimeSeriesRecord, len(steps))
	for i := range recs {
		recs[i] = TimeSeriesRecord{
			Step: int(steps[i]), Density: rhos[i], Vz: vzs[i],
		}
	}
	return recs, nil
}

// ReadHistogram reads a histogram file written by FileSink.
func ReadHistogram(file string) ([]HistogramRecord, error) {
	cols, err := table.ReadTable(file, []int{0, 1}, nil)
	if err != nil { return nil, err }

	centers, density := cols[0], cols[1]
	recs := make([]HistogramRecord, len(centers))
	for i := range recs {
		recs[i] = HistogramRecord{ Center: centers[i], Density: density[i] }
	}
	return recs, nil
}
