// Package wire defines version 1 of the test-progress wire protocol spoken
// by the build-execution runtime. These shapes are internal and versioned;
// downstream consumers see only the stable api/progress model.
package wire

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the versioned progress message payloads.
type Kind string

const (
	KindTestStarted  Kind = "test_started"
	KindTestFinished Kind = "test_finished"
)

// OperationID is the opaque correlation token scoping exactly one
// start/finish message pair. The runtime never reuses an id while its pair
// is open. The empty id is reserved to mean "no parent".
type OperationID string

// Test kinds carried by JVM descriptors.
const (
	TestKindSuite  = "SUITE"
	TestKindAtomic = "ATOMIC"
)

// ResultType tags the outcome carried by a finish message.
type ResultType string

const (
	ResultSuccessful ResultType = "SUCCESSFUL"
	ResultSkipped    ResultType = "SKIPPED"
	ResultFailed     ResultType = "FAILED"
)

// Event is one decoded wire message: TestStarted, TestFinished, or Unknown.
type Event interface {
	wireEvent()
}

// JvmDetails carries the JVM-specific descriptor fields. Present only for
// operations executed on a JVM test engine.
type JvmDetails struct {
	TestKind   string `json:"test_kind"`
	SuiteName  string `json:"suite_name,omitempty"`
	ClassName  string `json:"class_name,omitempty"`
	MethodName string `json:"method_name,omitempty"`
}

// Descriptor identifies one test operation on the wire.
type Descriptor struct {
	ID          OperationID `json:"id"`
	ParentID    OperationID `json:"parent_id,omitempty"`
	Name        string      `json:"name,omitempty"`
	DisplayName string      `json:"display_name,omitempty"`
	JVM         *JvmDetails `json:"jvm,omitempty"`
}

// Validate checks structural requirements shared by start and finish usage.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("descriptor id is required")
	}
	if d.ParentID == d.ID {
		return fmt.Errorf("descriptor parent_id must differ from id")
	}
	return nil
}

// Failure is one node of the wire failure-cause tree. Causes entries may be
// null on the wire; decoded entries stay nil.
type Failure struct {
	Message     string     `json:"message,omitempty"`
	Description string     `json:"description,omitempty"`
	Causes      []*Failure `json:"causes,omitempty"`
}

// Result is the outcome payload of a finish message. Type values outside the
// declared ResultType constants are tolerated here; the bridge decides how to
// surface them.
type Result struct {
	Type        ResultType `json:"type"`
	StartTimeMS int64      `json:"start_time_ms"`
	EndTimeMS   int64      `json:"end_time_ms"`
	Failures    []*Failure `json:"failures,omitempty"`
}

// Validate checks structural requirements of a result payload.
func (r Result) Validate() error {
	if r.Type == "" {
		return fmt.Errorf("result type is required")
	}
	if r.StartTimeMS < 0 || r.EndTimeMS < 0 {
		return fmt.Errorf("result timestamps must be >= 0")
	}
	return nil
}

// TestStarted announces that a test operation began.
type TestStarted struct {
	EventTimeMS int64      `json:"event_time_ms"`
	DisplayName string     `json:"display_name"`
	Descriptor  Descriptor `json:"descriptor"`
}

func (TestStarted) wireEvent() {}

// Validate checks structural requirements of a start message.
func (e TestStarted) Validate() error {
	if e.EventTimeMS < 0 {
		return fmt.Errorf("event_time_ms must be >= 0")
	}
	return e.Descriptor.Validate()
}

// TestFinished announces that a test operation ended. Only the descriptor id
// and parent id matter on finish; name fields are ignored by the bridge.
type TestFinished struct {
	EventTimeMS int64      `json:"event_time_ms"`
	DisplayName string     `json:"display_name"`
	Descriptor  Descriptor `json:"descriptor"`
	Result      Result     `json:"result"`
}

func (TestFinished) wireEvent() {}

// Validate checks structural requirements of a finish message.
func (e TestFinished) Validate() error {
	if e.EventTimeMS < 0 {
		return fmt.Errorf("event_time_ms must be >= 0")
	}
	if err := e.Descriptor.Validate(); err != nil {
		return err
	}
	return e.Result.Validate()
}

// Unknown carries a message whose kind this protocol version does not
// recognize. The payload is preserved so callers can log or shelve it.
type Unknown struct {
	Kind    string
	Payload json.RawMessage
}

func (Unknown) wireEvent() {}
