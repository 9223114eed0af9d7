// Copyright 2022 Cerno Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rule

import "sync"

// Registry maps original function names to replacement names. The
// rewrite pass reads one snapshot, so individual mutations are safe
// at any time; mutating while a pass runs on another goroutine simply
// means the pass sees the snapshot it started with.
type Registry struct {
	mu    sync.RWMutex
	pairs map[string]string
}

func NewRegistry() *Registry {
	return &Registry{pairs: make(map[string]string)}
}

// Register upserts original -> replacement. Neither name is
// validated; a replacement that never resolves simply never rewrites.
func (r *Registry) Register(original, replacement string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[original] = replacement
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs = make(map[string]string)
}

func (r *Registry) Lookup(original string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	replacement, ok := r.pairs[original]
	return replacement, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pairs)
}

// Snapshot returns a copy the caller may mutate freely.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[string]string, len(r.pairs))
	for k, v := range r.pairs {
		snapshot[k] = v
	}
	return snapshot
}
