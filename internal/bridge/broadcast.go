package bridge

import "github.com/tiger/build-progress-bridge/api/progress"

// broadcaster holds the ordered listener set fixed at construction and
// dispatches each translated event to every listener in registration order,
// synchronously, on the goroutine that delivered the wire message.
//
// A listener error aborts the dispatch and propagates to the caller. That
// fail-fast behavior is a chosen policy: subscribers are not isolated from
// one another, and the producer of the wire stream decides how to react.
type broadcaster struct {
	listeners []progress.Listener
}

func newBroadcaster(listeners []progress.Listener) broadcaster {
	return broadcaster{listeners: append([]progress.Listener(nil), listeners...)}
}

func (b broadcaster) empty() bool {
	return len(b.listeners) == 0
}

func (b broadcaster) dispatch(ev progress.Event) error {
	for _, listener := range b.listeners {
		if err := listener.OnProgress(ev); err != nil {
			return err
		}
	}
	return nil
}
