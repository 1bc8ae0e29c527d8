package progress

import (
	"errors"
	"testing"
)

func TestListenerFuncForwardsEventsAndErrors(t *testing.T) {
	t.Parallel()

	var seen Event
	ok := ListenerFunc(func(ev Event) error {
		seen = ev
		return nil
	})
	start := StartEvent{EventTimeMS: 5, DisplayName: "t started"}
	if err := ok.OnProgress(start); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != start {
		t.Fatalf("listener did not receive the event: %+v", seen)
	}

	boom := errors.New("listener rejected")
	failing := ListenerFunc(func(Event) error { return boom })
	if err := failing.OnProgress(start); !errors.Is(err, boom) {
		t.Fatalf("expected listener error to propagate, got %v", err)
	}
}

func TestDescriptorStringUsesDisplayName(t *testing.T) {
	t.Parallel()

	op := OperationDescriptor{OperationInfo: OperationInfo{Name: "build", DisplayName: "Run build"}}
	if op.String() != "Run build" {
		t.Fatalf("unexpected string: %q", op.String())
	}

	jvm := JvmTestDescriptor{
		OperationInfo: OperationInfo{Name: "com.example.T", DisplayName: "Test class com.example.T"},
		Kind:          JvmKindSuite,
		ClassName:     "com.example.T",
	}
	if jvm.String() != "Test class com.example.T" {
		t.Fatalf("unexpected string: %q", jvm.String())
	}
	if jvm.Info().Name != "com.example.T" {
		t.Fatalf("unexpected info: %+v", jvm.Info())
	}
}

func TestDescriptorValuesAreComparable(t *testing.T) {
	t.Parallel()

	parent := OperationDescriptor{OperationInfo: OperationInfo{Name: "suite"}}
	a := JvmTestDescriptor{OperationInfo: OperationInfo{Name: "t", Parent: parent}, Kind: JvmKindAtomic}
	b := JvmTestDescriptor{OperationInfo: OperationInfo{Name: "t", Parent: parent}, Kind: JvmKindAtomic}
	if a != b {
		t.Fatalf("identical descriptor values must compare equal")
	}
}
