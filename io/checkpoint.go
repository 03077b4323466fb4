/*package io handles the configuration files of golb and the binary
checkpoints of its lattices.
*/
package io

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/phil-mansfield/golb/fluid"
	"github.com/phil-mansfield/golb/lattice"
)

// CheckpointParams are the physical parameters a checkpoint was written
// with.
type CheckpointParams struct {
	A, Tau, Rho0 float64
	U0 [3]float64
	GammaBulk, GammaShear, GammaOdd, GammaEven float64
	LBTemp float64
	ExtForce [3]float64
	ForceProfile int64
	ForceAmplitude float64
}

// CheckpointHeader describes the lattice stored in a checkpoint file. The
// populations follow the header, and HistBins histogram counts follow the
// populations.
type CheckpointHeader struct {
	Width [3]int64
	Q int64
	Step int64

	CheckpointParams

	HistBins, HistOutliers, HistDone int64
	HistRange, HistCenter float64
}

// Count returns the number of sites in the checkpoint.
func (hd *CheckpointHeader) Count() int {
	return int(hd.Width[0] * hd.Width[1] * hd.Width[2])
}

// endianness converts an endianness flag to a byte order.
func endianness(flag int32) (binary.ByteOrder, error) {
	switch flag {
	case 0:
		return binary.LittleEndian, nil
	case -1:
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("Unrecognized endianness flag %d.", flag)
}

func readCheckpointHeaderAt(
	file string, hdBuf *CheckpointHeader,
) (*os.File, binary.ByteOrder, error) {
	f, err := os.Open(file)
	if err != nil { return nil, nil, err }

	// order doesn't matter for this read, since flags are symmetric.
	flag := int32(0)
	if err = binary.Read(f, binary.LittleEndian, &flag); err != nil {
		f.Close()
		return nil, nil, err
	}
	order, err := endianness(flag)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	headerSize := int32(0)
	if err = binary.Read(f, order, &headerSize); err != nil {
		f.Close()
		return nil, nil, err
	}
	if int(headerSize) != binary.Size(CheckpointHeader{}) {
		f.Close()
		return nil, nil, fmt.Errorf(
			"Expected CheckpointHeader size of %d in %s, found %d.",
			binary.Size(CheckpointHeader{}), file, headerSize,
		)
	}

	if err = binary.Read(f, order, hdBuf); err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, order, nil
}

// ReadCheckpointHeader reads the header of a checkpoint file.
func ReadCheckpointHeader(file string, hdBuf *CheckpointHeader) error {
	f, _, err := readCheckpointHeaderAt(file, hdBuf)
	if err != nil { return err }
	return f.Close()
}

// ReadCheckpoint reads the header and populations of a checkpoint file into
// the given buffers and returns the histogram counts. The population buffer
// must have one entry per site.
func ReadCheckpoint(
	file string, hdBuf *CheckpointHeader, pops []fluid.Populations,
) ([]int64, error) {
	f, order, err := readCheckpointHeaderAt(file, hdBuf)
	if err != nil { return nil, err }

	if hdBuf.Q != lattice.Q {
		f.Close()
		return nil, fmt.Errorf(
			"Checkpoint %s has %d velocities, expected %d.",
			file, hdBuf.Q, lattice.Q,
		)
	} else if hdBuf.Count() != len(pops) {
		f.Close()
		return nil, fmt.Errorf(
			"Population buffer has length %d, but checkpoint %s has %d sites.",
			len(pops), file, hdBuf.Count(),
		)
	} else if hdBuf.HistBins < 0 {
		f.Close()
		return nil, fmt.Errorf(
			"Checkpoint %s has %d histogram bins.", file, hdBuf.HistBins,
		)
	}

	counts := make([]int64, hdBuf.HistBins)
	if err = binary.Read(f, order, pops); err != nil {
		f.Close()
		return nil, err
	}
	if len(counts) > 0 {
		if err = binary.Read(f, order, counts); err != nil {
			f.Close()
			return nil, err
		}
	}
	return counts, f.Close()
}

// WriteCheckpoint writes a header and the populations and histogram counts
// it describes to a file.
func WriteCheckpoint(
	file string, hd *CheckpointHeader,
	pops []fluid.Populations, counts []int64,
) error {
	if hd.Count() != len(pops) {
		return fmt.Errorf(
			"Header count %d for checkpoint %s does not match population " +
				"count %d.", hd.Count(), file, len(pops),
		)
	} else if int(hd.HistBins) != len(counts) {
		return fmt.Errorf(
			"Header has %d histogram bins for checkpoint %s, but %d counts " +
				"were given.", hd.HistBins, file, len(counts),
		)
	}

	f, err := os.Create(file)
	if err != nil { return err }

	endiannessFlag := int32(0)
	order, _ := endianness(endiannessFlag)

	blocks := []interface{}{
		endiannessFlag, int32(binary.Size(hd)), hd, pops, counts,
	}
	for _, block := range blocks {
		if err = binary.Write(f, order, block); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
