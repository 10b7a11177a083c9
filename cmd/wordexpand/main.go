// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the text expansion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

WordExpand turns short triggers into longer text. A trigger such as ";em" is
offered as a candidate when it is typed, when a word being typed starts its
expansion, when the last two words appear in the expansion, or when the letters
typed are an abbreviation of it. It can operate as a MessagePack IPC server for
integration with text editors, or as a CLI application for testing and debugging.

# Usage

Start the server with default settings:

	wordexpand serve

Use a custom trigger file, watch it for changes and enable debug mode:

	wordexpand serve --triggers ./triggers.yaml --watch -d

Run the interactive CLI:

	wordexpand cli

One shot lookups and trigger management:

	wordexpand match "My email is ;em"
	wordexpand triggers add sig "Best regards"
	wordexpand triggers rm 4

Trigger files may be TOML, YAML or JSON, picked by extension:

	[[trigger]]
	key = ";em"
	expansion = "example@email.com"

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	max_text = 100000
	max_candidates = 0
	reload_every = 1000

	[engine]
	normalizer = "ascii"

	[triggers]
	path = "triggers.toml"
	watch = true
	debounce_ms = 150

	[metrics]
	addr = ":9464"

The config file is automatically created with defaults if it doesn't exist.
Server mode reloads the server section periodically without restart.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. See package server
for the full set of ops.

	{"id": "r1", "op": "match", "text": "My email is ;em", "cursor": 15}
	{"id": "r1", "s": [{"k": ";em", "x": "example@email.com"}], "c": 1, "t": 12}

Logs always go to stderr.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordexpand"
	gh      = "https://github.com/bastiangx/wordexpand"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow, the commands hold the logic.
func main() {
	sigHandler()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
