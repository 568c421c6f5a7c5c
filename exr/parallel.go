package exr

import (
	"fmt"
	"runtime"
	"sync"
)

// ParallelConfig configures CompressBlocks and DecompressBlocks.
type ParallelConfig struct {
	// NumWorkers is the number of worker goroutines. 0 means runtime.GOMAXPROCS(0).
	NumWorkers int

	// GrainSize is the minimum number of blocks per worker. Batches smaller
	// than GrainSize * NumWorkers run on the calling goroutine.
	GrainSize int
}

// DefaultParallelConfig returns the default parallel configuration.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		NumWorkers: 0,
		GrainSize:  1,
	}
}

func effectiveWorkers(config ParallelConfig) int {
	if config.NumWorkers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return config.NumWorkers
}

// parallelFor runs fn(i) for i in [0, n), splitting the range into one
// contiguous chunk per worker. It returns the first error reported; workers
// stop their own chunk on error but other chunks run to completion.
func parallelFor(n int, config ParallelConfig, fn func(i int) error) error {
	numWorkers := effectiveWorkers(config)
	grain := max(config.GrainSize, 1)

	if numWorkers == 1 || n <= grain*numWorkers {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	chunkSize := (n + numWorkers - 1) / numWorkers
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				if err := fn(i); err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
			}
		}(start, end)
	}
	wg.Wait()
	return firstErr
}

// CompressBlocks compresses independent blocks with the same method.
// Results are in input order. On failure the error names the first
// failing block seen; no partial results are returned.
func CompressBlocks(method Compression, blocks []DataSection, config ParallelConfig) ([][]byte, error) {
	out := make([][]byte, len(blocks))
	err := parallelFor(len(blocks), config, func(i int) error {
		data, err := Compress(method, blocks[i])
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		out[i] = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BlockRequest describes one compressed block for DecompressBlocks.
type BlockRequest struct {
	Kind         BlockKind
	Data         []byte
	ExpectedSize int // UnknownSize when not known
	Geometry     Geometry
}

// DecompressBlocks decompresses independent blocks of one part, sharing
// its method and channel list. Results are in input order.
func DecompressBlocks(method Compression, channels []Channel, requests []BlockRequest, config ParallelConfig) ([]DataSection, error) {
	out := make([]DataSection, len(requests))
	err := parallelFor(len(requests), config, func(i int) error {
		req := requests[i]
		ds, err := Decompress(method, req.Kind, req.Data, req.ExpectedSize, channels, req.Geometry)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		out[i] = ds
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
