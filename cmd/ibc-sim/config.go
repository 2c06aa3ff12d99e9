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
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
)

// Config describes one simulation run
type Config struct {
	ChainA  ChainConfig   `toml:"chain_a"`
	ChainB  ChainConfig   `toml:"chain_b"`
	Channel ChannelConfig `toml:"channel"`
	Packets PacketsConfig `toml:"packets"`
	// BlockInterval is how far the shared clock moves per block
	BlockInterval time.Duration `toml:"block_interval"`
	// DelayPeriod is the connection delay period
	DelayPeriod time.Duration `toml:"delay_period"`
}

type ChainConfig struct {
	ChainID  string `toml:"chain_id"`
	Revision uint64 `toml:"revision"`
	Port     string `toml:"port"`
	Prefix   string `toml:"prefix"`
}

type ChannelConfig struct {
	Ordering string `toml:"ordering"`
	Version  string `toml:"version"`
}

type PacketsConfig struct {
	Count int `toml:"count"`
	// TimeoutBlocks is how many counterparty blocks a packet stays valid for
	TimeoutBlocks uint64 `toml:"timeout_blocks"`
	// DropEvery leaves every n-th packet unrelayed so that it times out. Zero
	// relays every packet
	DropEvery int `toml:"drop_every"`
	// CloseAfter closes the channel from chain B once all packets were
	// handled
	CloseAfter bool `toml:"close_after"`
}

// DefaultConfig is used as the base for any config file
func DefaultConfig() Config {
	return Config{
		ChainA: ChainConfig{
			ChainID: "sim-a",
			Port:    "echo",
			Prefix:  "ibc/",
		},
		ChainB: ChainConfig{
			ChainID: "sim-b",
			Port:    "echo",
			Prefix:  "ibc/",
		},
		Channel: ChannelConfig{
			Ordering: common.OrderUnordered.String(),
			Version:  "echo-1",
		},
		Packets: PacketsConfig{
			Count:         10,
			TimeoutBlocks: 20,
		},
		BlockInterval: 5 * time.Second,
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	for _, chain := range []ChainConfig{c.ChainA, c.ChainB} {
		if chain.ChainID == "" {
			return errors.New("chain_id cannot be empty")
		}
		if err := host.PortID(chain.Port).Validate(); err != nil {
			return fmt.Errorf("chain %s: %w", chain.ChainID, err)
		}
		if chain.Prefix == "" {
			return fmt.Errorf("chain %s: prefix cannot be empty", chain.ChainID)
		}
	}
	if c.ChainA.ChainID == c.ChainB.ChainID {
		return errors.New("chains must have different chain IDs")
	}
	if _, err := c.Ordering(); err != nil {
		return err
	}
	if c.Channel.Version == "" {
		return errors.New("channel version cannot be empty")
	}
	if c.Packets.Count < 0 || c.Packets.DropEvery < 0 {
		return errors.New("packet counts cannot be negative")
	}
	if c.Packets.TimeoutBlocks == 0 {
		return errors.New("timeout_blocks must be positive")
	}
	if c.BlockInterval <= 0 {
		return errors.New("block_interval must be positive")
	}
	if c.DelayPeriod < 0 {
		return errors.New("delay_period cannot be negative")
	}
	return nil
}

func (c Config) Ordering() (common.Order, error) {
	return common.ParseOrder(c.Channel.Ordering)
}
