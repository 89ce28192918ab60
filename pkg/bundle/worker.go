// File: pkg/bundle/worker.go
package bundle

import (
	"errors"
	"iter"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ProcessFiles writes a record for every file using a pool of workers and
// returns how many records were written. Per-file read failures are logged
// and skipped. The first output error stops further writes and is returned
// once the pool has drained. With a single worker, records are written in
// the order files are produced.
func ProcessFiles(files iter.Seq[SelectedFile], w *Writer, maxWorkers int, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}

	jobs := make(chan SelectedFile, maxWorkers*2)
	var (
		wg       sync.WaitGroup
		written  atomic.Int64
		failed   atomic.Bool
		firstErr error
		errOnce  sync.Once
	)

	logger.Debug("Initializing worker pool", zap.Int("workers", maxWorkers))
	for id := 0; id < maxWorkers; id++ {
		wg.Add(1)
		workerLogger := logger.With(zap.Int("workerID", id))
		go func() {
			defer wg.Done()
			worker(jobs, w, &written, workerLogger, func(err error) {
				errOnce.Do(func() { firstErr = err })
				failed.Store(true)
			})
		}()
	}

	for file := range files {
		if failed.Load() {
			break
		}
		jobs <- file
	}
	close(jobs)
	logger.Debug("All files distributed to workers")

	wg.Wait()
	logger.Debug("All files processed", zap.Int64("processedFiles", written.Load()))
	return int(written.Load()), firstErr
}

// worker writes records for files from jobs until the channel is closed.
// Once the output stream has failed it drains jobs without writing.
func worker(jobs <-chan SelectedFile, w *Writer, written *atomic.Int64, logger *zap.Logger, fail func(error)) {
	logger.Debug("Worker started")

	for file := range jobs {
		if err := w.WriteRecord(file); err != nil {
			var ferr *FileError
			if errors.As(err, &ferr) {
				logger.Warn("Skipping file", zap.String("file", file.RelativePath), zap.Error(err))
				continue
			}
			logger.Error("Worker failed to write record",
				zap.String("file", file.RelativePath),
				zap.Error(err))
			fail(err)
			continue
		}
		written.Add(1)
		logger.Debug("Worker wrote record", zap.String("file", file.RelativePath))
	}

	logger.Debug("Worker finished processing")
}
