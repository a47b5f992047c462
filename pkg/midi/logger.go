package midi

import "go.uber.org/zap"

var decoderLog = zap.NewNop()
var writerLog = zap.NewNop()

// EnableDebugLogging routes the package's debug output to l.
func EnableDebugLogging(l *zap.Logger) {
	decoderLog = l.Named("decoder")
	writerLog = l.Named("writer")
}
