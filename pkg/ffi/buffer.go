// Package ffi models the narrow foreign-call boundary to the native
// citadel runtime: owned string buffers, success/failure envelopes, the
// last-error record, and the Core entry-point contract.
//
// Ownership rule: any Buffer returned across the boundary belongs to the
// receiver. It must be consumed (or discarded) exactly once; the release
// hook runs on that single transition and the contents are unreachable
// afterwards.
package ffi

import (
	"errors"
	"sync"
)

// ErrBufferConsumed is returned when a buffer handle is used after its
// single ownership transfer already happened.
var ErrBufferConsumed = errors.New("ffi: buffer already consumed")

// Buffer is a single-owner handle over a runtime-allocated byte region.
// It cannot be copied meaningfully: the first Take or Discard consumes it,
// runs the release hook exactly once, and poisons the handle.
type Buffer struct {
	mu       sync.Mutex
	data     []byte
	release  func()
	consumed bool
}

// NewBuffer wraps runtime-owned bytes. release is invoked exactly once,
// when the buffer is consumed; it may be nil for buffers that need no
// foreign-side free.
func NewBuffer(data []byte, release func()) *Buffer {
	return &Buffer{data: data, release: release}
}

// TakeString copies the contents into an owned Go string, then releases
// the foreign allocation. The buffer is unusable afterwards.
func (b *Buffer) TakeString() (string, error) {
	data, err := b.take()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TakeBytes copies the contents into an owned byte slice, then releases
// the foreign allocation. The buffer is unusable afterwards.
func (b *Buffer) TakeBytes() ([]byte, error) {
	data, err := b.take()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Discard releases the foreign allocation without reading it. Discarding
// an already-consumed buffer is a no-op: the release hook never runs
// twice.
func (b *Buffer) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.consumed {
		return
	}
	b.consume()
}

func (b *Buffer) take() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.consumed {
		return nil, ErrBufferConsumed
	}
	data := b.data
	b.consume()
	return data, nil
}

// consume must be called with mu held. The data reference is dropped
// before the release hook runs so no read can happen after release.
func (b *Buffer) consume() {
	b.consumed = true
	b.data = nil
	if b.release != nil {
		rel := b.release
		b.release = nil
		rel()
	}
}
