// internal/audit/log_sink.go
package audit

import "log"

// LogSink renders records as one log line each.
type LogSink struct {
	l *log.Logger
}

// NewLogSink wraps l. A nil l uses the default logger.
func NewLogSink(l *log.Logger) *LogSink {
	if l == nil {
		l = log.Default()
	}
	return &LogSink{l: l}
}

func (s *LogSink) Write(rec Record) {
	s.l.Printf("%s tag=%08X elapsed=%ds session=%s %s",
		rec.Event,
		uint32(rec.TagID),
		int(rec.Elapsed.Seconds()),
		rec.SessionID,
		rec.Message,
	)
}
