// Package stream produces and replays NDJSON wire-event streams. The
// generator emits a deterministic-shaped sample test run for demos and
// fixtures; the feeder pumps a recorded stream through a wire-event sink.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/tiger/build-progress-bridge/internal/codec"
	wire "github.com/tiger/build-progress-bridge/pkg/wire/v1"
)

// Sink consumes decoded wire events. *bridge.Adapter satisfies it.
type Sink interface {
	OnEvent(wire.Event) error
}

// FeedStats summarizes one replayed stream.
type FeedStats struct {
	Messages     int
	Unrecognized int
}

// Feed reads one wire event per line from r and delivers each to sink in
// order. Blank lines are skipped. The first decode or sink error stops the
// feed; already-delivered events are not rolled back.
func Feed(r io.Reader, sink Sink) (FeedStats, error) {
	stats := FeedStats{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		event, err := codec.Decode([]byte(text))
		if err != nil {
			return stats, fmt.Errorf("stream line %d: %w", line, err)
		}
		if _, ok := event.(wire.Unknown); ok {
			stats.Unrecognized++
		}
		stats.Messages++
		if err := sink.OnEvent(event); err != nil {
			return stats, fmt.Errorf("stream line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read stream: %w", err)
	}
	return stats, nil
}

// GenerateConfig shapes the sample run the generator writes.
type GenerateConfig struct {
	SuiteName string
	ClassName string
	// NewID supplies operation ids; defaults to random UUIDs.
	NewID func() wire.OperationID
}

// Generate writes a sample test-run stream to w: a root suite holding one
// class suite with a passing, a failing (nested causes), and a skipped test.
// It returns the number of messages written.
func Generate(w io.Writer, cfg GenerateConfig) (int, error) {
	if cfg.SuiteName == "" {
		cfg.SuiteName = "sample-run"
	}
	if cfg.ClassName == "" {
		cfg.ClassName = "com.example.SampleTest"
	}
	if cfg.NewID == nil {
		cfg.NewID = func() wire.OperationID { return wire.OperationID(uuid.NewString()) }
	}

	rootID := cfg.NewID()
	classID := cfg.NewID()

	written := 0
	emit := func(event wire.Event) error {
		if err := codec.WriteLine(w, event); err != nil {
			return err
		}
		written++
		return nil
	}

	clock := int64(0)
	tick := func(step int64) int64 {
		clock += step
		return clock
	}

	root := wire.Descriptor{
		ID:          rootID,
		Name:        cfg.SuiteName,
		DisplayName: "Test suite " + cfg.SuiteName,
		JVM:         &wire.JvmDetails{TestKind: wire.TestKindSuite, SuiteName: cfg.SuiteName},
	}
	class := wire.Descriptor{
		ID:          classID,
		ParentID:    rootID,
		Name:        cfg.ClassName,
		DisplayName: "Test class " + cfg.ClassName,
		JVM: &wire.JvmDetails{
			TestKind:  wire.TestKindSuite,
			SuiteName: cfg.SuiteName,
			ClassName: cfg.ClassName,
		},
	}

	if err := emit(wire.TestStarted{EventTimeMS: tick(1), DisplayName: root.DisplayName, Descriptor: root}); err != nil {
		return written, err
	}
	if err := emit(wire.TestStarted{EventTimeMS: tick(1), DisplayName: class.DisplayName, Descriptor: class}); err != nil {
		return written, err
	}

	cases := []struct {
		method string
		result wire.Result
	}{
		{
			method: "passes",
			result: wire.Result{Type: wire.ResultSuccessful},
		},
		{
			method: "fails",
			result: wire.Result{
				Type: wire.ResultFailed,
				Failures: []*wire.Failure{{
					Message:     "assertion failed",
					Description: "expected 2, got 3",
					Causes: []*wire.Failure{
						{Message: "comparison failure"},
						{Message: "state dump unavailable"},
					},
				}},
			},
		},
		{
			method: "skipped",
			result: wire.Result{Type: wire.ResultSkipped},
		},
	}

	for _, tc := range cases {
		testDescriptor := wire.Descriptor{
			ID:          cfg.NewID(),
			ParentID:    classID,
			Name:        tc.method,
			DisplayName: cfg.ClassName + "." + tc.method,
			JVM: &wire.JvmDetails{
				TestKind:   wire.TestKindAtomic,
				SuiteName:  cfg.SuiteName,
				ClassName:  cfg.ClassName,
				MethodName: tc.method,
			},
		}
		started := tick(1)
		if err := emit(wire.TestStarted{EventTimeMS: started, DisplayName: testDescriptor.DisplayName, Descriptor: testDescriptor}); err != nil {
			return written, err
		}
		result := tc.result
		result.StartTimeMS = started
		result.EndTimeMS = tick(2)
		if err := emit(wire.TestFinished{
			EventTimeMS: result.EndTimeMS,
			DisplayName: testDescriptor.DisplayName,
			Descriptor:  testDescriptor,
			Result:      result,
		}); err != nil {
			return written, err
		}
	}

	classFinish := wire.Result{Type: wire.ResultFailed, StartTimeMS: 2, EndTimeMS: tick(1), Failures: []*wire.Failure{{Message: "1 test failed"}}}
	if err := emit(wire.TestFinished{EventTimeMS: classFinish.EndTimeMS, DisplayName: class.DisplayName, Descriptor: class, Result: classFinish}); err != nil {
		return written, err
	}
	rootFinish := wire.Result{Type: wire.ResultFailed, StartTimeMS: 1, EndTimeMS: tick(1), Failures: []*wire.Failure{{Message: "1 test failed"}}}
	if err := emit(wire.TestFinished{EventTimeMS: rootFinish.EndTimeMS, DisplayName: root.DisplayName, Descriptor: root, Result: rootFinish}); err != nil {
		return written, err
	}
	return written, nil
}
