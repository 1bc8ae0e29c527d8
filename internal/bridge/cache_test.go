package bridge

import (
	"fmt"
	"testing"

	"github.com/tiger/build-progress-bridge/api/progress"
)

func TestCacheRegisterReleaseWindow(t *testing.T) {
	t.Parallel()

	cache := newDescriptorCache()
	descriptor := progress.OperationDescriptor{OperationInfo: progress.OperationInfo{Name: "t1"}}

	if err := cache.register("a", descriptor); err != nil {
		t.Fatalf("register: %v", err)
	}
	if cache.openCount() != 1 {
		t.Fatalf("expected 1 open operation, got %d", cache.openCount())
	}

	released, err := cache.release("a")
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released != progress.Descriptor(descriptor) {
		t.Fatalf("release must return the registered descriptor, got %+v", released)
	}
	if cache.openCount() != 0 {
		t.Fatalf("expected empty cache after release, got %d", cache.openCount())
	}
}

func TestCacheRejectsDuplicateRegister(t *testing.T) {
	t.Parallel()

	cache := newDescriptorCache()
	descriptor := progress.OperationDescriptor{}
	if err := cache.register("a", descriptor); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := cache.register("a", descriptor)
	if !IsProtocolError(err) {
		t.Fatalf("expected protocol error on duplicate register, got %v", err)
	}
}

func TestCacheRejectsUnknownRelease(t *testing.T) {
	t.Parallel()

	cache := newDescriptorCache()
	if _, err := cache.release("missing"); !IsProtocolError(err) {
		t.Fatalf("expected protocol error on unknown release, got %v", err)
	}
}

func TestCacheResolveParent(t *testing.T) {
	t.Parallel()

	cache := newDescriptorCache()

	parent, err := cache.resolveParent("")
	if err != nil || parent != nil {
		t.Fatalf("empty parent id must resolve to none, got %v %v", parent, err)
	}

	if _, err := cache.resolveParent("p"); !IsProtocolError(err) {
		t.Fatalf("expected protocol error for unknown parent, got %v", err)
	}

	descriptor := progress.OperationDescriptor{OperationInfo: progress.OperationInfo{Name: "p"}}
	if err := cache.register("p", descriptor); err != nil {
		t.Fatalf("register: %v", err)
	}
	parent, err = cache.resolveParent("p")
	if err != nil {
		t.Fatalf("resolve parent: %v", err)
	}
	if parent != progress.Descriptor(descriptor) {
		t.Fatalf("expected the registered descriptor, got %+v", parent)
	}
}

func TestIsProtocolErrorMatchesWrappedErrors(t *testing.T) {
	t.Parallel()

	inner := &ProtocolError{ID: "x", Reason: "operation not available"}
	wrapped := fmt.Errorf("feed line 7: %w", inner)
	if !IsProtocolError(wrapped) {
		t.Fatalf("expected wrapped protocol error to match")
	}
	if IsProtocolError(fmt.Errorf("plain failure")) {
		t.Fatalf("plain errors must not match")
	}
	if IsProtocolError(nil) {
		t.Fatalf("nil must not match")
	}
}
