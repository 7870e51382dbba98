// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package services

import "sync"

// TargetLocks serializes all state-changing operations for a single target.
// Feedback, assignment and auto-assignment all run under the lock for the
// target's controller ID, so the read-decide-write sequence of the state
// machine is never interleaved for the same target. Entries are reference
// counted and removed once the last holder releases, keeping the map bounded
// by the number of concurrently active targets.
type TargetLocks struct {
	mu    sync.Mutex
	locks map[string]*targetLockEntry
}

type targetLockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewTargetLocks() *TargetLocks {
	return &TargetLocks{locks: make(map[string]*targetLockEntry)}
}

// Lock acquires the lock for the given controller ID and returns the
// corresponding release function.
func (l *TargetLocks) Lock(controllerID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[controllerID]
	if !ok {
		entry = &targetLockEntry{}
		l.locks[controllerID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, controllerID)
		}
		l.mu.Unlock()
	}
}
