// Copyright 2025 The TypeAid Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the typeaid suggestion server and its debug CLI.

Note: This is a BETA release. APIs and functionality may rapidly change.

TypeAid proposes up to three completions for the word being typed on a
keypad-style input surface. Completions come from five small vocabulary
tiers (function words, chat/slang, fillers, common lemmas, formal
discourse) scanned in that fixed priority order. There is no frequency
ranking; inside a tier, file order wins.

# Usage

Start the msgpack IPC server with default settings:

	typeaid

Use a custom data directory and enable debug logging:

	typeaid --data /path/to/tiers -d

Run the interactive CLI for testing:

	typeaid cli --limit 3

Print the vocabulary load report:

	typeaid status

The data directory holds one plain-text file per tier:

	tier1_function_words.txt
	tier2_lemma_list.txt
	tier3a_chat.txt
	tier3b_fillers.txt
	tier4_formal_discourse.txt

Each file lists one word per line. Lines starting with '#' are comments.
Missing files are reported but never stop the binary; with no files at
all, a small built-in list of function words is used.

# Configuration

Runtime configuration lives in a TOML file, created with defaults on first
run:

	[vocab]
	data_dir = "data/"
	tier_capacity = 1000

	[suggest]
	default_limit = 3

	[server]
	watch_config = true

With watch_config set, the server picks up a new default_limit when the
file changes. The vocabulary itself is loaded once per process.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/typeaid/pkg/vocab"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "typeaid"
	gh      = "https://github.com/bastiangx/typeaid"
)

// sigHandler shuts the store down and exits on SIGINT/SIGTERM.
func sigHandler(store *vocab.Store) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		store.Shutdown()
		os.Exit(0)
	}()
}

// main only wires the command tree; the commands own the flow.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
