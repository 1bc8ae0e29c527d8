package bridge

import (
	"errors"
	"testing"

	"github.com/tiger/build-progress-bridge/api/progress"
)

func TestBroadcastOrderFollowsRegistration(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) progress.Listener {
		return progress.ListenerFunc(func(progress.Event) error {
			order = append(order, name)
			return nil
		})
	}

	b := newBroadcaster([]progress.Listener{mark("first"), mark("second"), mark("third")})
	if err := b.dispatch(progress.StartEvent{DisplayName: "t"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Fatalf("unexpected dispatch order: %v", order)
	}
}

func TestBroadcastFailsFast(t *testing.T) {
	t.Parallel()

	boom := errors.New("listener rejected event")
	reached := false
	b := newBroadcaster([]progress.Listener{
		progress.ListenerFunc(func(progress.Event) error { return boom }),
		progress.ListenerFunc(func(progress.Event) error { reached = true; return nil }),
	})

	err := b.dispatch(progress.StartEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected listener error to propagate, got %v", err)
	}
	if reached {
		t.Fatalf("dispatch must stop at the first failing listener")
	}
}

func TestBroadcastSetImmutableAfterConstruction(t *testing.T) {
	t.Parallel()

	listeners := []progress.Listener{progress.ListenerFunc(func(progress.Event) error { return nil })}
	b := newBroadcaster(listeners)
	listeners[0] = progress.ListenerFunc(func(progress.Event) error { return errors.New("mutated") })

	if err := b.dispatch(progress.StartEvent{}); err != nil {
		t.Fatalf("broadcaster must copy the listener set at construction: %v", err)
	}
	if b.empty() {
		t.Fatalf("expected one registered listener")
	}
}
