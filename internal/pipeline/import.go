// Package pipeline connects the store, the import sources, and the
// estimation engine.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/mohdfareed/health-vaults-sub001/internal/source"
	"github.com/mohdfareed/health-vaults-sub001/internal/store"
)

// ImportResult holds the output of importing an export directory.
type ImportResult struct {
	TotalFiles  int
	Imported    int
	Unchanged   int
	Samples     int
	ParseErrors int
	FileErrors  int
}

// ProgressFunc is called during import to report progress. current is
// the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Import discovers JSONL exports under dir, parses changed files with a
// bounded worker pool, and writes their samples to the store. Files
// whose mtime and size match the tracked state are skipped; changed
// files have their previous samples replaced.
func Import(dir string, st *store.Store, progressFn ProgressFunc) (*ImportResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &ImportResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := st.TrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading import state: %w", err)
	}

	var toParse []source.DiscoveredFile
	for _, f := range files {
		prev, ok := tracked[f.Path]
		if ok && prev.MtimeNs == f.MtimeNs && prev.SizeBytes == f.SizeBytes {
			result.Unchanged++
			continue
		}
		toParse = append(toParse, f)
	}
	if len(toParse) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(toParse) {
		numWorkers = len(toParse)
	}

	work := make(chan int, len(toParse))
	results := make([]source.ParseResult, len(toParse))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range toParse {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(toParse[idx].Path)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+result.Unchanged, result.TotalFiles)
				}
			}
		}()
	}

	wg.Wait()

	// Writes stay on this goroutine; sqlite prefers a single writer.
	for i, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParseErrors += pr.ParseErrors

		f := toParse[i]
		if _, ok := tracked[f.Path]; ok {
			if err := st.DeleteFileSamples(f.Path); err != nil {
				return nil, fmt.Errorf("replacing %s: %w", f.Path, err)
			}
		}
		if err := st.AddSamples(pr.Samples, f.Path, f.Path, f.MtimeNs, f.SizeBytes); err != nil {
			return nil, fmt.Errorf("importing %s: %w", f.Path, err)
		}
		result.Imported++
		result.Samples += len(pr.Samples)
	}

	return result, nil
}
