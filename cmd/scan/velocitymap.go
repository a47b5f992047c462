package main

import (
	"context"

	"github.com/Garik-/humanize/pkg/velocity"
	"go.uber.org/zap"
)

func newVelocityMap(parent context.Context, paths <-chan string, cntRoutines int) (velocity.Database, error) {
	log := velocityMapLog.Named("newVelocityMap")
	ctx, cancel := context.WithCancel(parent)
	results, done := decodeWorker(ctx, paths, cntRoutines)

	defer func() {
		log.Debug("cancel")
		cancel()
		<-done // wait decodeWorker closed
	}()

	m := make(velocity.Set)

	for result := range results {
		if result.err != nil {
			return nil, result.err
		}

		log.Debug("result", zap.String("name", result.name), zap.Int("tracks", len(result.tracks)))

		for _, track := range result.tracks {
			for _, note := range track {
				if note.Velocity == 0 {
					continue
				}
				m.Add(note.Note, note.MsgType, note.Velocity)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return m.Database(), nil
}
