// Package progress defines the stable, version-independent test progress
// model delivered to listeners. Wire-protocol versions evolve underneath it;
// these types do not.
package progress

// JvmTestKind classifies a JVM test operation.
type JvmTestKind string

const (
	JvmKindSuite   JvmTestKind = "SUITE"
	JvmKindAtomic  JvmTestKind = "ATOMIC"
	JvmKindUnknown JvmTestKind = "UNKNOWN"
)

// OperationInfo is the identifying core shared by every descriptor variant.
// Parent is a lookup reference to the descriptor emitted by the parent
// operation's start event, or nil at the root. It is not an ownership edge:
// the parent's lifetime is governed by its own start/finish pair.
type OperationInfo struct {
	Name        string
	DisplayName string
	Parent      Descriptor
}

// Descriptor is stable identifying metadata for one test operation. Exactly
// two variants exist: OperationDescriptor and JvmTestDescriptor. Consumers
// switch on the concrete type.
type Descriptor interface {
	Info() OperationInfo
	descriptor()
}

// OperationDescriptor is the base descriptor variant.
type OperationDescriptor struct {
	OperationInfo
}

func (OperationDescriptor) descriptor() {}

// Info returns the shared identifying core.
func (d OperationDescriptor) Info() OperationInfo { return d.OperationInfo }

func (d OperationDescriptor) String() string { return d.DisplayName }

// JvmTestDescriptor is the descriptor variant produced when the wire
// descriptor carries JVM-specific test details.
type JvmTestDescriptor struct {
	OperationInfo
	Kind       JvmTestKind
	SuiteName  string
	ClassName  string
	MethodName string
}

func (JvmTestDescriptor) descriptor() {}

// Info returns the shared identifying core.
func (d JvmTestDescriptor) Info() OperationInfo { return d.OperationInfo }

func (d JvmTestDescriptor) String() string { return d.DisplayName }

// Failure is one node of a failure-cause tree. Causes preserves the order
// delivered by the producing runtime; an entry may be nil when the runtime
// reported an absent cause, and nil entries are passed through as-is.
type Failure struct {
	Message     string
	Description string
	Causes      []*Failure
}

// Result is the outcome of one finished test operation. Exactly three
// variants exist: Success, Skipped, and Failed.
type Result interface {
	result()
}

// Success reports a test operation that completed without failures.
type Success struct {
	StartTimeMS int64
	EndTimeMS   int64
}

func (Success) result() {}

// Skipped reports a test operation that was not executed.
type Skipped struct {
	StartTimeMS int64
	EndTimeMS   int64
}

func (Skipped) result() {}

// Failed reports a test operation that completed with failures. Failures
// preserves producer order; entries may be nil.
type Failed struct {
	StartTimeMS int64
	EndTimeMS   int64
	Failures    []*Failure
}

func (Failed) result() {}

// Event is one stable progress event: StartEvent or FinishEvent.
type Event interface {
	event()
}

// StartEvent announces that a test operation began.
type StartEvent struct {
	EventTimeMS int64
	DisplayName string
	Descriptor  Descriptor
}

func (StartEvent) event() {}

// FinishEvent announces that a test operation ended. Result is nil when the
// wire message carried a result tag this bridge does not recognize.
type FinishEvent struct {
	EventTimeMS int64
	DisplayName string
	Descriptor  Descriptor
	Result      Result
}

func (FinishEvent) event() {}

// Listener receives translated progress events. Delivery is synchronous and
// in registration order on the goroutine that delivered the wire message. A
// non-nil error aborts the current dispatch and propagates to the caller of
// Adapter.OnEvent; listeners are deliberately not isolated from each other.
type Listener interface {
	OnProgress(Event) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event) error

// OnProgress invokes the wrapped function.
func (f ListenerFunc) OnProgress(ev Event) error { return f(ev) }
