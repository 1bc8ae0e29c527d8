package bridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tiger/build-progress-bridge/api/progress"
	wire "github.com/tiger/build-progress-bridge/pkg/wire/v1"
)

// ProtocolError reports a violation of the start/finish correlation protocol
// by the incoming wire stream: a duplicate start for an open id, a finish for
// an unknown id, or a child start referencing an unresolvable parent. It is
// always raised before any cache mutation for the offending message, so a
// failing message never leaves the cache partially updated.
type ProtocolError struct {
	ID     wire.OperationID
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("progress protocol violation for operation %q: %s", e.ID, e.Reason)
}

// IsProtocolError reports whether err is a correlation-protocol violation.
func IsProtocolError(err error) bool {
	var protocolErr *ProtocolError
	return errors.As(err, &protocolErr)
}

// descriptorCache maps open operation ids to the stable descriptor emitted by
// their start event. An id is present strictly between the processing of its
// start and its finish, and transitions through that window at most once.
//
// The mutex covers only the lookup-then-mutate step of each operation. The
// wire transport is expected to deliver messages one at a time, but the guard
// keeps the cache correct if delivery ever becomes concurrent. Listener
// dispatch never runs under this lock.
type descriptorCache struct {
	mu   sync.Mutex
	open map[wire.OperationID]progress.Descriptor
}

func newDescriptorCache() *descriptorCache {
	return &descriptorCache{open: make(map[wire.OperationID]progress.Descriptor)}
}

// resolveParent returns the open descriptor for parentID, nil for the empty
// id, or a ProtocolError when the parent has not started or already finished.
func (c *descriptorCache) resolveParent(parentID wire.OperationID) (progress.Descriptor, error) {
	if parentID == "" {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	parent, ok := c.open[parentID]
	if !ok {
		return nil, &ProtocolError{ID: parentID, Reason: "parent operation not available"}
	}
	return parent, nil
}

// register opens id with its stable descriptor. A ProtocolError is returned
// when id is already open.
func (c *descriptorCache) register(id wire.OperationID, descriptor progress.Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.open[id]; ok {
		return &ProtocolError{ID: id, Reason: "operation already available"}
	}
	c.open[id] = descriptor
	return nil
}

// release closes id and returns the descriptor stored at registration. A
// ProtocolError is returned when id is not open.
func (c *descriptorCache) release(id wire.OperationID) (progress.Descriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	descriptor, ok := c.open[id]
	if !ok {
		return nil, &ProtocolError{ID: id, Reason: "operation not available"}
	}
	delete(c.open, id)
	return descriptor, nil
}

// openCount reports how many operations are currently open.
func (c *descriptorCache) openCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.open)
}
