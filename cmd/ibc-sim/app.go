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

package main

import (
	"log/slog"

	"github.com/blinklabs-io/goibc/common"
)

// echoApp acknowledges every packet with its own data
type echoApp struct {
	logger   *slog.Logger
	received int
	acked    int
	timedOut int
}

func newEchoApp(logger *slog.Logger) *echoApp {
	return &echoApp{logger: logger}
}

func (a *echoApp) OnRecvPacket(_ *common.Context, packet common.Packet) ([]byte, error) {
	a.received++
	a.logger.Debug(
		"received packet",
		"sequence", packet.Sequence,
		"data", string(packet.Data),
	)
	ack := append([]byte("echo:"), packet.Data...)
	return ack, nil
}

func (a *echoApp) OnAcknowledgementPacket(_ *common.Context, packet common.Packet, ack []byte) error {
	a.acked++
	a.logger.Debug(
		"packet acknowledged",
		"sequence", packet.Sequence,
		"ack", string(ack),
	)
	return nil
}

func (a *echoApp) OnTimeoutPacket(_ *common.Context, packet common.Packet) error {
	a.timedOut++
	a.logger.Debug("packet timed out", "sequence", packet.Sequence)
	return nil
}
