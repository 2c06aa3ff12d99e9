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

package test_mock

import (
	"bytes"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
)

var (
	_ common.Application = (*MockApplication)(nil)
	_ common.Router      = MockRouter{}
)

// MockApplication records every callback. OnRecvPacket returns AckVal, so
// leaving it nil makes every receive defer its acknowledgement
type MockApplication struct {
	AckVal     []byte
	RecvErr    error
	AckErr     error
	TimeoutErr error

	Received     []common.Packet
	Acknowledged []common.Packet
	Acks         [][]byte
	TimedOut     []common.Packet
}

func (m *MockApplication) OnRecvPacket(_ *common.Context, packet common.Packet) ([]byte, error) {
	if m.RecvErr != nil {
		return nil, m.RecvErr
	}
	m.Received = append(m.Received, packet)
	return bytes.Clone(m.AckVal), nil
}

func (m *MockApplication) OnAcknowledgementPacket(
	_ *common.Context,
	packet common.Packet,
	ack []byte,
) error {
	if m.AckErr != nil {
		return m.AckErr
	}
	m.Acknowledged = append(m.Acknowledged, packet)
	m.Acks = append(m.Acks, bytes.Clone(ack))
	return nil
}

func (m *MockApplication) OnTimeoutPacket(_ *common.Context, packet common.Packet) error {
	if m.TimeoutErr != nil {
		return m.TimeoutErr
	}
	m.TimedOut = append(m.TimedOut, packet)
	return nil
}

// MockRouter binds applications to ports
type MockRouter map[host.PortID]common.Application

func (r MockRouter) Route(portID host.PortID) (common.Application, bool) {
	app, ok := r[portID]
	return app, ok
}
