// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/goibc/store"
)

// Context carries everything a single action may touch: the action-scoped
// store, the host chain's current height and time, and the event sink
type Context struct {
	store  store.KVStore
	height Height
	time   time.Time
	events *EventManager
	logger *slog.Logger
}

func NewContext(
	kvStore store.KVStore,
	height Height,
	blockTime time.Time,
	logger *slog.Logger,
) *Context {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Context{
		store:  kvStore,
		height: height,
		time:   blockTime,
		events: NewEventManager(),
		logger: logger,
	}
}

func (c *Context) Store() store.KVStore {
	return c.store
}

// Height returns the current height of the host chain
func (c *Context) Height() Height {
	return c.height
}

// Time returns the current block time of the host chain
func (c *Context) Time() time.Time {
	return c.time
}

// Timestamp returns the current block time in unix nanoseconds
func (c *Context) Timestamp() uint64 {
	return uint64(c.time.UnixNano())
}

func (c *Context) EventManager() *EventManager {
	return c.events
}

func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// WithStore returns a shallow copy of the context using a different store
func (c *Context) WithStore(kvStore store.KVStore) *Context {
	ret := *c
	ret.store = kvStore
	return &ret
}
