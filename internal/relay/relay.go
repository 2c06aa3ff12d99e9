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

// Package relay moves IBC messages between two in-process chains.
//
// A Path plays the role of an off-chain relayer for a pair of chains: it
// produces their blocks, keeps each chain's light client of the other up to
// date and carries state proofs from one chain to the other.
package relay

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	ibc "github.com/blinklabs-io/goibc"
	"github.com/blinklabs-io/goibc/cbor"
	"github.com/blinklabs-io/goibc/channel"
	"github.com/blinklabs-io/goibc/client"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/connection"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/packet"
)

const DefaultBlockInterval = 5 * time.Second

// Endpoint is one chain of a path along with the identifiers of its half
// of the client, connection and channel
type Endpoint struct {
	Chain        *ibc.Chain
	ClientID     host.ClientID
	ConnectionID host.ConnectionID
	PortID       host.PortID
	ChannelID    host.ChannelID
	Counterparty *Endpoint
	path         *Path
}

// Path links two endpoints
type Path struct {
	A             *Endpoint
	B             *Endpoint
	clientType    string
	blockInterval time.Duration
	delayPeriod   time.Duration
	now           time.Time
}

// PathOptionFunc is a type that represents functions that modify the Path config
type PathOptionFunc func(*Path)

// WithBlockInterval specifies how far the shared clock moves per block
func WithBlockInterval(interval time.Duration) PathOptionFunc {
	return func(p *Path) {
		p.blockInterval = interval
	}
}

// WithDelayPeriod specifies the delay period of the connection opened by
// OpenConnection
func WithDelayPeriod(delay time.Duration) PathOptionFunc {
	return func(p *Path) {
		p.delayPeriod = delay
	}
}

// WithStartTime specifies the time of the first block
func WithStartTime(start time.Time) PathOptionFunc {
	return func(p *Path) {
		p.now = start
	}
}

// WithClientType specifies the client type created on both chains
func WithClientType(clientType string) PathOptionFunc {
	return func(p *Path) {
		p.clientType = clientType
	}
}

// NewPath returns a path between chains a and b using the given ports
func NewPath(a, b *ibc.Chain, portA, portB host.PortID, options ...PathOptionFunc) *Path {
	p := &Path{
		clientType:    client.TrustedClientType,
		blockInterval: DefaultBlockInterval,
		now:           time.Unix(1700000000, 0).UTC(),
	}
	for _, option := range options {
		option(p)
	}
	p.A = &Endpoint{Chain: a, PortID: portA, path: p}
	p.B = &Endpoint{Chain: b, PortID: portB, path: p}
	p.A.Counterparty = p.B
	p.B.Counterparty = p.A
	return p
}

// Now returns the time of the most recent block
func (p *Path) Now() time.Time {
	return p.now
}

// Advance moves the shared clock forward without producing a block
func (p *Path) Advance(d time.Duration) {
	p.now = p.now.Add(d)
}

// Setup creates both clients, then opens a connection and a channel
func (p *Path) Setup(ctx context.Context, order common.Order, version string) error {
	if err := p.CreateClients(ctx); err != nil {
		return err
	}
	if err := p.OpenConnection(ctx); err != nil {
		return err
	}
	return p.OpenChannel(ctx, order, version)
}

// CreateClients creates on each chain a client of the other
func (p *Path) CreateClients(ctx context.Context) error {
	for _, e := range []*Endpoint{p.A, p.B} {
		if e.Chain.LastHeader().Height.IsZero() {
			if _, err := e.Commit(ctx); err != nil {
				return err
			}
		}
	}
	for _, e := range []*Endpoint{p.A, p.B} {
		header := e.Counterparty.Chain.LastHeader()
		res, err := e.Commit(ctx, header.MsgCreateClient(p.clientType))
		if err != nil {
			return fmt.Errorf("create client on %s: %w", e.Chain.ChainID(), err)
		}
		e.ClientID = host.ClientID(res[0].ID)
	}
	return nil
}

// OpenConnection runs the four-step connection handshake starting on A
func (p *Path) OpenConnection(ctx context.Context) error {
	a, b := p.A, p.B
	res, err := a.Commit(ctx, connection.MsgConnectionOpenInit{
		ClientID: a.ClientID,
		Counterparty: common.ConnectionCounterparty{
			ClientID: b.ClientID,
			Prefix:   b.Chain.Prefix(),
		},
		DelayPeriod: p.delayPeriod,
	})
	if err != nil {
		return fmt.Errorf("connection open init: %w", err)
	}
	a.ConnectionID = host.ConnectionID(res[0].ID)
	endA, err := a.Connection()
	if err != nil {
		return err
	}
	tryRes, err := b.Relay(ctx, host.ConnectionPath(a.ConnectionID), func(proof []byte, height common.Height) ibc.Msg {
		return connection.MsgConnectionOpenTry{
			ClientID: b.ClientID,
			Counterparty: common.ConnectionCounterparty{
				ClientID:     a.ClientID,
				ConnectionID: a.ConnectionID,
				Prefix:       a.Chain.Prefix(),
			},
			CounterpartyVersions: endA.Versions,
			DelayPeriod:          endA.GetDelayPeriod(),
			ProofInit:            proof,
			ProofHeight:          height,
		}
	})
	if err != nil {
		return fmt.Errorf("connection open try: %w", err)
	}
	b.ConnectionID = host.ConnectionID(tryRes.ID)
	endB, err := b.Connection()
	if err != nil {
		return err
	}
	_, err = a.Relay(ctx, host.ConnectionPath(b.ConnectionID), func(proof []byte, height common.Height) ibc.Msg {
		return connection.MsgConnectionOpenAck{
			ConnectionID:             a.ConnectionID,
			CounterpartyConnectionID: b.ConnectionID,
			Version:                  endB.Versions[0],
			ProofTry:                 proof,
			ProofHeight:              height,
		}
	})
	if err != nil {
		return fmt.Errorf("connection open ack: %w", err)
	}
	_, err = b.Relay(ctx, host.ConnectionPath(a.ConnectionID), func(proof []byte, height common.Height) ibc.Msg {
		return connection.MsgConnectionOpenConfirm{
			ConnectionID: b.ConnectionID,
			ProofAck:     proof,
			ProofHeight:  height,
		}
	})
	if err != nil {
		return fmt.Errorf("connection open confirm: %w", err)
	}
	return nil
}

// OpenChannel runs the four-step channel handshake starting on A
func (p *Path) OpenChannel(ctx context.Context, order common.Order, version string) error {
	a, b := p.A, p.B
	res, err := a.Commit(ctx, channel.MsgChannelOpenInit{
		PortID:             a.PortID,
		Ordering:           order,
		ConnectionHops:     []host.ConnectionID{a.ConnectionID},
		CounterpartyPortID: b.PortID,
		Version:            version,
	})
	if err != nil {
		return fmt.Errorf("channel open init: %w", err)
	}
	a.ChannelID = host.ChannelID(res[0].ID)
	tryRes, err := b.Relay(ctx, host.ChannelPath(a.PortID, a.ChannelID), func(proof []byte, height common.Height) ibc.Msg {
		return channel.MsgChannelOpenTry{
			PortID:         b.PortID,
			Ordering:       order,
			ConnectionHops: []host.ConnectionID{b.ConnectionID},
			Counterparty: common.ChannelCounterparty{
				PortID:    a.PortID,
				ChannelID: a.ChannelID,
			},
			CounterpartyVersion: version,
			ProofInit:           proof,
			ProofHeight:         height,
		}
	})
	if err != nil {
		return fmt.Errorf("channel open try: %w", err)
	}
	b.ChannelID = host.ChannelID(tryRes.ID)
	endB, err := b.Channel()
	if err != nil {
		return err
	}
	_, err = a.Relay(ctx, host.ChannelPath(b.PortID, b.ChannelID), func(proof []byte, height common.Height) ibc.Msg {
		return channel.MsgChannelOpenAck{
			PortID:                a.PortID,
			ChannelID:             a.ChannelID,
			CounterpartyChannelID: b.ChannelID,
			CounterpartyVersion:   endB.Version,
			ProofTry:              proof,
			ProofHeight:           height,
		}
	})
	if err != nil {
		return fmt.Errorf("channel open ack: %w", err)
	}
	_, err = b.Relay(ctx, host.ChannelPath(a.PortID, a.ChannelID), func(proof []byte, height common.Height) ibc.Msg {
		return channel.MsgChannelOpenConfirm{
			PortID:      b.PortID,
			ChannelID:   b.ChannelID,
			ProofAck:    proof,
			ProofHeight: height,
		}
	})
	if err != nil {
		return fmt.Errorf("channel open confirm: %w", err)
	}
	return nil
}

// Commit produces one block on the endpoint's chain holding msgs. The
// results are returned even when a message fails, along with the first
// failure
func (e *Endpoint) Commit(ctx context.Context, msgs ...ibc.Msg) ([]ibc.Result, error) {
	e.path.now = e.path.now.Add(e.path.blockInterval)
	if err := e.Chain.BeginBlock(e.path.now); err != nil {
		return nil, err
	}
	results, err := e.Chain.DeliverBlock(ctx, msgs)
	if err != nil {
		return nil, err
	}
	if _, err := e.Chain.Commit(); err != nil {
		return nil, err
	}
	for _, res := range results {
		if res.Err != nil {
			return results, res.Err
		}
	}
	return results, nil
}

// UpdateClient makes the endpoint's client trust the counterparty's latest
// block
func (e *Endpoint) UpdateClient(ctx context.Context) error {
	header := e.Counterparty.Chain.LastHeader()
	_, err := e.Commit(ctx, header.MsgUpdateClient(e.ClientID))
	return err
}

// Relay proves path on the counterparty at its latest block and delivers
// the message built from that proof to the endpoint's chain. The client
// update goes in the same block unless the connection has a delay period,
// in which case the message waits for the delay to pass
func (e *Endpoint) Relay(
	ctx context.Context,
	path string,
	build func(proof []byte, height common.Height) ibc.Msg,
) (ibc.Result, error) {
	header := e.Counterparty.Chain.LastHeader()
	_, proof, err := e.Counterparty.Chain.QueryProof(path, header.Height)
	if err != nil {
		return ibc.Result{}, err
	}
	update := header.MsgUpdateClient(e.ClientID)
	msg := build(proof, header.Height)
	if e.path.delayPeriod == 0 {
		results, err := e.Commit(ctx, update, msg)
		if err != nil {
			return ibc.Result{}, err
		}
		return results[1], nil
	}
	if _, err := e.Commit(ctx, update); err != nil {
		return ibc.Result{}, err
	}
	e.path.Advance(e.path.delayPeriod)
	results, err := e.Commit(ctx, msg)
	if err != nil {
		return ibc.Result{}, err
	}
	return results[0], nil
}

// Connection returns the endpoint's connection end
func (e *Endpoint) Connection() (common.ConnectionEnd, error) {
	var end common.ConnectionEnd
	err := e.Chain.View(func(ctx *common.Context) error {
		var err error
		end, err = connection.Get(ctx, e.ConnectionID)
		return err
	})
	return end, err
}

// Channel returns the endpoint's channel end
func (e *Endpoint) Channel() (common.ChannelEnd, error) {
	var end common.ChannelEnd
	err := e.Chain.View(func(ctx *common.Context) error {
		var err error
		end, err = channel.Get(ctx, e.PortID, e.ChannelID)
		return err
	})
	return end, err
}

// SendPacket sends data from the endpoint to its counterparty
func (e *Endpoint) SendPacket(
	ctx context.Context,
	data []byte,
	timeoutHeight common.Height,
	timeoutTimestamp uint64,
) (common.Packet, error) {
	p := common.NewPacket(
		data,
		0,
		e.PortID,
		e.ChannelID,
		e.Counterparty.PortID,
		e.Counterparty.ChannelID,
		timeoutHeight,
		timeoutTimestamp,
	)
	res, err := e.Commit(ctx, packet.MsgSendPacket{Packet: p})
	if err != nil {
		return common.Packet{}, err
	}
	p.Sequence = res[0].Sequence
	return p, nil
}

// RecvPacket delivers p, sent by the counterparty, to the endpoint. It
// returns the acknowledgement written on receipt, if any
func (e *Endpoint) RecvPacket(ctx context.Context, p common.Packet) ([]byte, error) {
	path := host.PacketCommitmentPath(p.SourcePort, p.SourceChannel, p.Sequence)
	res, err := e.Relay(ctx, path, func(proof []byte, height common.Height) ibc.Msg {
		return packet.MsgRecvPacket{
			Packet:          p,
			ProofCommitment: proof,
			ProofHeight:     height,
		}
	})
	if err != nil {
		return nil, err
	}
	return WrittenAck(res.Events)
}

// AcknowledgePacket delivers the counterparty's acknowledgement of p, sent
// by the endpoint
func (e *Endpoint) AcknowledgePacket(ctx context.Context, p common.Packet, ack []byte) error {
	path := host.PacketAcknowledgementPath(p.DestinationPort, p.DestinationChannel, p.Sequence)
	_, err := e.Relay(ctx, path, func(proof []byte, height common.Height) ibc.Msg {
		return packet.MsgAcknowledgement{
			Packet:          p,
			Acknowledgement: ack,
			ProofAcked:      proof,
			ProofHeight:     height,
		}
	})
	return err
}

// TimeoutPacket times out p, sent by the endpoint, using the counterparty's
// latest block
func (e *Endpoint) TimeoutPacket(ctx context.Context, p common.Packet) error {
	end, err := e.Channel()
	if err != nil {
		return err
	}
	path, recvSequence, err := e.unreceivedPath(end, p)
	if err != nil {
		return err
	}
	_, err = e.Relay(ctx, path, func(proof []byte, height common.Height) ibc.Msg {
		return packet.MsgTimeout{
			Packet:           p,
			ProofUnreceived:  proof,
			ProofHeight:      height,
			NextSequenceRecv: recvSequence,
		}
	})
	return err
}

// TimeoutOnClose times out p, sent by the endpoint, after the counterparty
// closed its channel end
func (e *Endpoint) TimeoutOnClose(ctx context.Context, p common.Packet) error {
	end, err := e.Channel()
	if err != nil {
		return err
	}
	path, recvSequence, err := e.unreceivedPath(end, p)
	if err != nil {
		return err
	}
	cp := e.Counterparty
	header := cp.Chain.LastHeader()
	_, proofClose, err := cp.Chain.QueryProof(host.ChannelPath(cp.PortID, cp.ChannelID), header.Height)
	if err != nil {
		return err
	}
	_, err = e.Relay(ctx, path, func(proof []byte, height common.Height) ibc.Msg {
		return packet.MsgTimeoutOnClose{
			Packet:           p,
			ProofUnreceived:  proof,
			ProofClose:       proofClose,
			ProofHeight:      height,
			NextSequenceRecv: recvSequence,
		}
	})
	return err
}

// Exec produces one block on the endpoint's chain in which fn runs. The
// block is committed even when fn fails
func (e *Endpoint) Exec(fn func() error) error {
	e.path.now = e.path.now.Add(e.path.blockInterval)
	if err := e.Chain.BeginBlock(e.path.now); err != nil {
		return err
	}
	fnErr := fn()
	if _, err := e.Chain.Commit(); err != nil {
		return err
	}
	return fnErr
}

// WriteAcknowledgement writes a deferred acknowledgement of p as app, in a
// block of its own
func (e *Endpoint) WriteAcknowledgement(
	app common.Application,
	p common.Packet,
	ack []byte,
) (ibc.Result, error) {
	var res ibc.Result
	err := e.Exec(func() error {
		var err error
		res, err = e.Chain.WriteAcknowledgement(app, p, ack)
		return err
	})
	return res, err
}

// CloseChannel closes the endpoint's channel end on behalf of the
// application bound to its port and then confirms the close on the
// counterparty
func (e *Endpoint) CloseChannel(ctx context.Context) error {
	app, ok := e.Chain.Router().Route(e.PortID)
	if !ok {
		return fmt.Errorf("no application bound to port %s", e.PortID)
	}
	err := e.Exec(func() error {
		_, err := e.Chain.CloseChannel(app, e.PortID, e.ChannelID)
		return err
	})
	if err != nil {
		return fmt.Errorf("channel close init: %w", err)
	}
	cp := e.Counterparty
	_, err = cp.Relay(ctx, host.ChannelPath(e.PortID, e.ChannelID), func(proof []byte, height common.Height) ibc.Msg {
		return channel.MsgChannelCloseConfirm{
			PortID:      cp.PortID,
			ChannelID:   cp.ChannelID,
			ProofInit:   proof,
			ProofHeight: height,
		}
	})
	if err != nil {
		return fmt.Errorf("channel close confirm: %w", err)
	}
	return nil
}

// unreceivedPath returns the counterparty path whose proof shows that p
// was not received, and for ORDERED channels the proven receive counter
func (e *Endpoint) unreceivedPath(end common.ChannelEnd, p common.Packet) (string, uint64, error) {
	if end.Ordering != common.OrderOrdered {
		return host.PacketReceiptPath(p.DestinationPort, p.DestinationChannel, p.Sequence), 0, nil
	}
	path := host.NextSequenceRecvPath(p.DestinationPort, p.DestinationChannel)
	cp := e.Counterparty.Chain
	value, _, err := cp.QueryProof(path, cp.LastHeader().Height)
	if err != nil {
		return "", 0, err
	}
	var recvSequence uint64
	if len(value) > 0 {
		if err := cbor.DecodeExact(value, &recvSequence); err != nil {
			return "", 0, fmt.Errorf("decode receive counter: %w", err)
		}
	}
	return path, recvSequence, nil
}

// WrittenAck returns the acknowledgement carried by a write_acknowledgement
// event, or nil when the acknowledgement was deferred
func WrittenAck(events []common.Event) ([]byte, error) {
	for _, event := range events {
		if event.Type != common.EventTypeWriteAck {
			continue
		}
		ackHex, ok := event.Attribute(common.AttributeKeyAckHex)
		if !ok {
			return nil, errors.New("acknowledgement event without acknowledgement")
		}
		return hex.DecodeString(ackHex)
	}
	return nil, nil
}
