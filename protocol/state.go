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

// Package protocol provides the transition tables that drive the IBC
// handshake state machines
package protocol

import (
	"fmt"
)

type State struct {
	Id   uint
	Name string
}

func NewState(id uint, name string) State {
	return State{
		Id:   id,
		Name: name,
	}
}

func (s State) String() string {
	return s.Name
}

type StateTransition struct {
	MsgType  uint8
	NewState State
}

type StateMapEntry struct {
	Transitions []StateTransition
}

type StateMap map[State]StateMapEntry

// Transition returns the state reached by applying msg in the current state.
// An error is returned when the state map has no matching transition
func (s StateMap) Transition(current State, msg Message) (State, error) {
	entry, ok := s[current]
	if !ok {
		return State{}, fmt.Errorf("%w: %s", ErrUnknownState, current)
	}
	for _, transition := range entry.Transitions {
		if transition.MsgType != msg.Type() {
			continue
		}
		return transition.NewState, nil
	}
	return State{}, fmt.Errorf(
		"%w: message type %d in state %s",
		ErrInvalidTransition,
		msg.Type(),
		current,
	)
}
