// Command coin-miner is the subprocess mining.Coordinator spawns to run a
// single nonce search. It reads a gob-encoded mining.Job from stdin and
// writes a gob-encoded mining.Response to stdout before exiting; it does
// not touch the network, the chain store, or the mempool.
package main

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/wgoldie/coin/chain"
	"github.com/wgoldie/coin/mining"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var job mining.Job
	if err := gob.NewDecoder(os.Stdin).Decode(&job); err != nil {
		return fmt.Errorf("coin-miner: reading job: %w", err)
	}

	header := chain.OpenBlockHeader{
		TransactionTreeHash: job.TransactionTreeHash,
		PreviousBlockHash:   job.PreviousBlockHash,
	}

	maxTries := job.MaxTries
	if maxTries == 0 {
		maxTries = mining.DefaultMaxTries
	}

	sealed, found := mining.FindBlock(header, job.Difficulty, job.StartingNonce, maxTries)

	resp := mining.Response{Found: found}
	if found {
		resp.Nonce = sealed.Nonce
		resp.Hash = sealed.BlockHash
	}

	if err := gob.NewEncoder(os.Stdout).Encode(resp); err != nil {
		return fmt.Errorf("coin-miner: writing response: %w", err)
	}
	return nil
}
