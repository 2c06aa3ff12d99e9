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

package ibc

import (
	"errors"
	"sync"

	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
)

var _ common.Router = (*Router)(nil)

// Router binds applications to ports. Each port is bound at most once
type Router struct {
	mu     sync.RWMutex
	routes map[host.PortID]common.Application
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[host.PortID]common.Application),
	}
}

// Bind binds app to portID
func (r *Router) Bind(portID host.PortID, app common.Application) error {
	if err := portID.Validate(); err != nil {
		return err
	}
	if app == nil {
		return errorsmod.Wrapf(common.ErrInvalidMessage, "nil application for port %s", portID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[portID]; ok {
		return errorsmod.Wrap(common.ErrPortAlreadyBound, portID.String())
	}
	r.routes[portID] = app
	return nil
}

func (r *Router) Route(portID host.PortID) (common.Application, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.routes[portID]
	return app, ok
}

// Ports returns the number of bound ports
func (r *Router) Ports() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// BindPort binds app to portID on the chain's router. It fails when the
// chain was given a router of another type through WithRouter
func (c *Chain) BindPort(portID host.PortID, app common.Application) error {
	r, ok := c.router.(*Router)
	if !ok {
		return errors.New("chain router does not support binding ports")
	}
	return r.Bind(portID, app)
}
