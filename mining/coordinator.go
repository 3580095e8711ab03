package mining

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os/exec"

	"github.com/wgoldie/coin/chain"
)

// Handle is a single mining attempt in progress: a candidate block being
// searched by a subprocess, and the means to forcibly stop that search.
type Handle struct {
	candidate *chain.OpenBlock
	cancel    context.CancelFunc
	result    chan *chain.SealedBlockHeader
	done      chan struct{}
}

// Result returns the channel a found block header is delivered on. The
// channel is never closed: if the search was cancelled, failed, or
// exhausted its budget without success, it simply never carries a value.
func (h *Handle) Result() <-chan *chain.SealedBlockHeader {
	return h.result
}

// Candidate returns the open block this handle's search is sealing a
// nonce for.
func (h *Handle) Candidate() *chain.OpenBlock {
	return h.candidate
}

// Terminate forcibly kills the mining subprocess, if it is still running,
// and blocks until its goroutine has observed that and exited. There is no
// cooperative shutdown path: killing the OS process is what makes
// cancellation instantaneous regardless of how deep in its nonce search the
// subprocess currently is.
func (h *Handle) Terminate() {
	h.cancel()
	<-h.done
}

// Coordinator spawns the external mining subprocess named by minerPath,
// searching at a fixed difficulty. Mining runs as a genuine OS process
// rather than a goroutine specifically so Terminate can kill it outright;
// Go gives no way to forcibly preempt a running goroutine, and a
// CPU-bound nonce search won't check a cancellation channel on its own.
type Coordinator struct {
	minerPath  string
	difficulty int
}

// NewCoordinator returns a Coordinator that spawns minerPath (typically the
// coin-miner binary built alongside this package) to search at difficulty.
func NewCoordinator(minerPath string, difficulty int) *Coordinator {
	return &Coordinator{minerPath: minerPath, difficulty: difficulty}
}

// Spawn starts a new mining subprocess searching for a nonce that seals
// candidate, returning a Handle the caller polls (via Result) or cancels
// (via Terminate).
func (c *Coordinator) Spawn(candidate *chain.OpenBlock) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan *chain.SealedBlockHeader, 1)
	done := make(chan struct{})
	h := &Handle{candidate: candidate, cancel: cancel, result: result, done: done}

	job := Job{
		TransactionTreeHash: candidate.Header.TransactionTreeHash,
		PreviousBlockHash:   candidate.Header.PreviousBlockHash,
		Difficulty:          c.difficulty,
		MaxTries:            DefaultMaxTries,
	}

	go func() {
		defer close(done)
		header, err := c.run(ctx, job)
		if err != nil {
			if ctx.Err() == nil {
				log.Warnf("mining subprocess failed: %v", err)
			}
			return
		}
		if header != nil {
			select {
			case result <- header:
			default:
			}
		}
	}()
	return h
}

func (c *Coordinator) run(ctx context.Context, job Job) (*chain.SealedBlockHeader, error) {
	cmd := exec.CommandContext(ctx, c.minerPath)

	var stdin bytes.Buffer
	if err := gob.NewEncoder(&stdin).Encode(job); err != nil {
		return nil, err
	}
	cmd.Stdin = &stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if runErr != nil {
		return nil, fmt.Errorf("mining subprocess exited: %w: %s", runErr, stderr.String())
	}

	var resp Response
	if err := gob.NewDecoder(&stdout).Decode(&resp); err != nil {
		return nil, fmt.Errorf("mining subprocess produced unreadable output: %w", err)
	}
	if !resp.Found {
		return nil, nil
	}
	header := chain.SealedBlockHeader{
		OpenBlockHeader: job.openBlockHeader(),
		Nonce:           resp.Nonce,
		BlockHash:       resp.Hash,
	}
	return &header, nil
}

func (j Job) openBlockHeader() chain.OpenBlockHeader {
	return chain.OpenBlockHeader{
		TransactionTreeHash: j.TransactionTreeHash,
		PreviousBlockHash:   j.PreviousBlockHash,
	}
}
