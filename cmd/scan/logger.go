package main

import (
	"github.com/Garik-/humanize/pkg/midi"
	"go.uber.org/zap"
)

var decoderLog = zap.NewNop()
var velocityMapLog = zap.NewNop()

func enableDebugLogging(l *zap.Logger) {
	decoderLog = l
	velocityMapLog = l
	midi.EnableDebugLogging(l)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewProduction()
	}

	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	enableDebugLogging(l)
	return l, nil
}
