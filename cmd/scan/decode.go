package main

import (
	"context"
	"os"
	"sync"

	"github.com/Garik-/humanize/pkg/midi"
	"github.com/Garik-/humanize/pkg/velocity"
	"go.uber.org/zap"
)

type result struct {
	name   string
	tracks [][]velocity.Note
	err    error
}

func decodeFile(name string) *result {
	out := &result{name: name}
	f, err := os.Open(name)
	if err != nil {
		out.err = err
		return out
	}

	defer f.Close()

	c := new(velocity.Collector)
	if err := midi.Read(f, c); err != nil {
		out.err = &decodeError{name: name, err: err}
		return out
	}

	out.tracks = c.Tracks
	return out
}

func decodeWorker(ctx context.Context, paths <-chan string, cntRoutines int) (<-chan *result, <-chan struct{}) {
	log := decoderLog.Named("decodeWorker")
	out := make(chan *result)
	done := make(chan struct{}, 1)

	go func() {
		var wg sync.WaitGroup
		goroutines := make(chan struct{}, cntRoutines)

	loop:
		for path := range paths {
			select {
			case goroutines <- struct{}{}:
			case <-ctx.Done():
				log.Debug("context done")
				break loop
			}
			wg.Add(1)
			go func(ctx context.Context, path string, goroutines <-chan struct{}, out chan<- *result, wg *sync.WaitGroup) {
				defer wg.Done()

				select {
				case out <- decodeFile(path):
				case <-ctx.Done():
					log.Debug("decodeFile context done", zap.String("path", path))
				}
				<-goroutines

			}(ctx, path, goroutines, out, &wg)
		}

		wg.Wait()
		close(goroutines)
		close(out)

		done <- struct{}{}
		close(done)
	}()

	return out, done
}

type decodeError struct {
	name string
	err  error
}

func (e *decodeError) Error() string {
	return e.name + ": " + e.err.Error()
}

func (e *decodeError) Unwrap() error {
	return e.err
}
