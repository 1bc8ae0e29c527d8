package main

import (
	"github.com/rs/zerolog"

	"github.com/tiger/build-progress-bridge/api/progress"
)

// logListener republishes stable progress events as structured log lines.
type logListener struct {
	log zerolog.Logger
}

func (l logListener) OnProgress(ev progress.Event) error {
	switch e := ev.(type) {
	case progress.StartEvent:
		l.event("start", e.EventTimeMS, e.DisplayName, e.Descriptor).Msg("test started")
	case progress.FinishEvent:
		entry := l.event("finish", e.EventTimeMS, e.DisplayName, e.Descriptor)
		entry = withResult(entry, e.Result)
		entry.Msg("test finished")
	}
	return nil
}

func (l logListener) event(kind string, timeMS int64, displayName string, descriptor progress.Descriptor) *zerolog.Event {
	entry := l.log.Info().
		Str("event", kind).
		Int64("time_ms", timeMS).
		Str("display_name", displayName)

	switch d := descriptor.(type) {
	case progress.JvmTestDescriptor:
		entry = entry.Str("operation", d.Name).Str("jvm_kind", string(d.Kind))
		if d.ClassName != "" {
			entry = entry.Str("class", d.ClassName)
		}
		if d.MethodName != "" {
			entry = entry.Str("method", d.MethodName)
		}
	case progress.OperationDescriptor:
		entry = entry.Str("operation", d.Name)
	}
	if parent := descriptor.Info().Parent; parent != nil {
		entry = entry.Str("parent", parent.Info().Name)
	}
	return entry
}

func withResult(entry *zerolog.Event, result progress.Result) *zerolog.Event {
	switch r := result.(type) {
	case progress.Success:
		return entry.Str("outcome", "success").Int64("duration_ms", r.EndTimeMS-r.StartTimeMS)
	case progress.Skipped:
		return entry.Str("outcome", "skipped")
	case progress.Failed:
		return entry.Str("outcome", "failed").Int("failures", len(r.Failures)).Int64("duration_ms", r.EndTimeMS-r.StartTimeMS)
	default:
		return entry.Str("outcome", "none")
	}
}
