// Package bridge converts versioned test-progress wire events into the
// stable api/progress model and broadcasts them to registered listeners.
package bridge

import (
	"github.com/tiger/build-progress-bridge/api/progress"
	wire "github.com/tiger/build-progress-bridge/pkg/wire/v1"
)

// OperationKind names a progress category the bridge can subscribe to.
type OperationKind string

// TestExecution is the only operation kind translated today. Other progress
// categories are reserved for future protocol versions and are ignored.
const TestExecution OperationKind = "TEST_EXECUTION"

// Adapter correlates start/finish wire messages through the descriptor cache,
// rebuilds parent/child relationships, and republishes each translated event
// to the listener set fixed at construction.
//
// The adapter is purely reactive: it owns no goroutines or timers, every call
// completes synchronously, and nothing is retried. A ProtocolError aborts
// processing of the single offending message; the caller decides whether to
// keep feeding subsequent messages.
type Adapter struct {
	cache     *descriptorCache
	listeners broadcaster
}

// New constructs an adapter for the given ordered listener set. The set is
// immutable for the adapter's lifetime; an empty set is valid and makes the
// adapter translate without dispatching.
func New(listeners ...progress.Listener) *Adapter {
	return &Adapter{
		cache:     newDescriptorCache(),
		listeners: newBroadcaster(listeners),
	}
}

// SubscribedOperations tells the producing runtime which progress categories
// have at least one listener attached, so it can avoid sending messages
// nobody wants. Nil means nothing is wanted.
func (a *Adapter) SubscribedOperations() []OperationKind {
	if a.listeners.empty() {
		return nil
	}
	return []OperationKind{TestExecution}
}

// OnEvent translates one wire event and broadcasts the stable event, if any.
// Wire variants that are neither a recognized start nor finish are dropped:
// no event, no error, no cache mutation. Listener errors propagate unwrapped.
func (a *Adapter) OnEvent(event wire.Event) error {
	translated, err := a.translate(event)
	if err != nil {
		return err
	}
	if translated == nil {
		return nil
	}
	// Dispatch stays outside the cache guard so a slow or reentrant listener
	// cannot block subsequent translation.
	return a.listeners.dispatch(translated)
}

// OpenOperations reports how many start messages are awaiting their finish.
func (a *Adapter) OpenOperations() int {
	return a.cache.openCount()
}

func (a *Adapter) translate(event wire.Event) (progress.Event, error) {
	switch ev := event.(type) {
	case wire.TestStarted:
		return a.translateStart(ev)
	case wire.TestFinished:
		return a.translateFinish(ev)
	default:
		return nil, nil
	}
}

func (a *Adapter) translateStart(ev wire.TestStarted) (progress.Event, error) {
	parent, err := a.cache.resolveParent(ev.Descriptor.ParentID)
	if err != nil {
		return nil, err
	}
	descriptor := toDescriptor(ev.Descriptor, parent)
	if err := a.cache.register(ev.Descriptor.ID, descriptor); err != nil {
		return nil, err
	}
	return progress.StartEvent{
		EventTimeMS: ev.EventTimeMS,
		DisplayName: ev.DisplayName,
		Descriptor:  descriptor,
	}, nil
}

func (a *Adapter) translateFinish(ev wire.TestFinished) (progress.Event, error) {
	descriptor, err := a.cache.release(ev.Descriptor.ID)
	if err != nil {
		return nil, err
	}
	return progress.FinishEvent{
		EventTimeMS: ev.EventTimeMS,
		DisplayName: ev.DisplayName,
		Descriptor:  descriptor,
		Result:      toResult(ev.Result),
	}, nil
}

// toDescriptor builds the stable descriptor for a started operation. The JVM
// variant is produced only when the wire descriptor carries JVM details.
func toDescriptor(d wire.Descriptor, parent progress.Descriptor) progress.Descriptor {
	info := progress.OperationInfo{
		Name:        d.Name,
		DisplayName: d.DisplayName,
		Parent:      parent,
	}
	if d.JVM == nil {
		return progress.OperationDescriptor{OperationInfo: info}
	}
	return progress.JvmTestDescriptor{
		OperationInfo: info,
		Kind:          toJvmTestKind(d.JVM.TestKind),
		SuiteName:     d.JVM.SuiteName,
		ClassName:     d.JVM.ClassName,
		MethodName:    d.JVM.MethodName,
	}
}

func toJvmTestKind(kind string) progress.JvmTestKind {
	switch kind {
	case wire.TestKindSuite:
		return progress.JvmKindSuite
	case wire.TestKindAtomic:
		return progress.JvmKindAtomic
	default:
		return progress.JvmKindUnknown
	}
}
