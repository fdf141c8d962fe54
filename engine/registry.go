// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"reflect"
	"sync"

	"github.com/packetd/amqpcore/internal/rescue"
)

// Callback is any user handler registered against a (channel, key) pair.
// The concrete argument types passed to it depend on the key: method
// callbacks receive the decoded amqp.MethodArgs, lifecycle callbacks
// receive whatever the firing site passes.
type Callback func(args ...any)

// Key identifies what a callback is registered against on a channel: either
// a (class_id, method_id) method discriminator or a symbolic lifecycle tag
// such as "on_open" / "on_close".
type Key struct {
	ClassID  uint16
	MethodID uint16
	Symbol   string
}

func MethodKey(classID, methodID uint16) Key { return Key{ClassID: classID, MethodID: methodID} }
func SymbolKey(symbol string) Key            { return Key{Symbol: symbol} }

type entry struct {
	fn      Callback
	oneShot bool
}

// Registry is an instance-owned callback table: map[(channel, key)] ->
// ordered list of callbacks. It is owned by exactly one Connection and is
// never a package-level singleton, unlike the manager this component is
// modeled on in spirit.
type Registry struct {
	mu      sync.Mutex
	entries map[uint16]map[Key][]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint16]map[Key][]entry)}
}

// Add appends callback for (channel, key). A callback already registered
// under the same identity (compared by function pointer) collapses to a
// single entry instead of firing twice.
//
// Identity here is reflect.ValueOf(cb).Pointer(), which is the callback's
// code entry point, not a per-closure identity: two distinct closures
// created from the same func literal (e.g. two RPC calls registering their
// own "wrapped" callback on the same channel) can report the same pointer
// even though they capture different variables. In that case this dedup
// (and Remove's matching removal) can collapse or drop the wrong one. This
// is an accepted limitation of comparing Go closures by code pointer, not a
// deliberate per-callback-identity scheme.
func (r *Registry) Add(channel uint16, key Key, cb Callback, oneShot bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byKey, ok := r.entries[channel]
	if !ok {
		byKey = make(map[Key][]entry)
		r.entries[channel] = byKey
	}

	ptr := reflect.ValueOf(cb).Pointer()
	for _, e := range byKey[key] {
		if reflect.ValueOf(e.fn).Pointer() == ptr {
			return
		}
	}
	byKey[key] = append(byKey[key], entry{fn: cb, oneShot: oneShot})
}

// Remove drops every callback registered for (channel, key) whose identity
// matches cb. It is not an error for none to match.
func (r *Registry) Remove(channel uint16, key Key, cb Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byKey, ok := r.entries[channel]
	if !ok {
		return
	}
	ptr := reflect.ValueOf(cb).Pointer()
	list := byKey[key]
	kept := list[:0]
	for _, e := range list {
		if reflect.ValueOf(e.fn).Pointer() != ptr {
			kept = append(kept, e)
		}
	}
	byKey[key] = kept
}

// Pending reports whether any callback is currently registered for
// (channel, key).
func (r *Registry) Pending(channel uint16, key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	byKey, ok := r.entries[channel]
	if !ok {
		return false
	}
	return len(byKey[key]) > 0
}

// Process invokes every callback registered for (channel, key), in
// registration order, and removes the one-shot entries afterward. A
// snapshot of the live list is taken before dispatch so a callback that
// re-registers itself for the same key during its own invocation is not
// also invoked in this round. A panic inside one callback is recovered and
// logged; it does not prevent the remaining callbacks from running.
func (r *Registry) Process(channel uint16, key Key, args ...any) {
	r.mu.Lock()
	byKey, ok := r.entries[channel]
	if !ok {
		r.mu.Unlock()
		return
	}
	snapshot := append([]entry(nil), byKey[key]...)
	r.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}

	for _, e := range snapshot {
		invokeCallback(e.fn, args)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	remaining := byKey[key][:0]
	oneShotPtrs := make(map[uintptr]bool)
	for _, e := range snapshot {
		if e.oneShot {
			oneShotPtrs[reflect.ValueOf(e.fn).Pointer()] = true
		}
	}
	for _, e := range byKey[key] {
		if oneShotPtrs[reflect.ValueOf(e.fn).Pointer()] {
			continue
		}
		remaining = append(remaining, e)
	}
	byKey[key] = remaining
}

func invokeCallback(fn Callback, args []any) {
	defer rescue.HandleCrash()
	fn(args...)
}

// DropChannel removes every callback registered on channel, e.g. once a
// Channel.CloseOk has been processed.
func (r *Registry) DropChannel(channel uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, channel)
}
