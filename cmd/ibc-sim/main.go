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
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
)

type globalFlags struct {
	flagset    *flag.FlagSet
	configFile string
	packets    int
	debug      bool
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.configFile,
		"config",
		"",
		"path to TOML config file (defaults are used when not set)",
	)
	f.flagset.IntVar(
		&f.packets,
		"packets",
		-1,
		"number of packets to send. this overrides the config file",
	)
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)

	cfg, err := LoadConfig(f.configFile)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	if f.packets >= 0 {
		cfg.Packets.Count = f.packets
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	sum, err := run(ctx, cfg, logger)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("packets sent:         %d\n", sum.Sent)
	fmt.Printf("packets received:     %d\n", sum.Received)
	fmt.Printf("packets acknowledged: %d\n", sum.Acknowledged)
	fmt.Printf("packets timed out:    %d\n", sum.TimedOut)
	fmt.Printf("channel closed:       %t\n", sum.ChannelClosed)
	fmt.Printf(
		"%s at %s: app hash %s, header %s\n",
		sum.HeaderA.ChainID,
		sum.HeaderA.Height,
		sum.HeaderA.AppHash,
		sum.HeaderA.HashHex(),
	)
	fmt.Printf(
		"%s at %s: app hash %s, header %s\n",
		sum.HeaderB.ChainID,
		sum.HeaderB.Height,
		sum.HeaderB.AppHash,
		sum.HeaderB.HashHex(),
	)
}
