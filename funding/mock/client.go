// Package mock provides a controllable funding.Client for tests and demos.
package mock

import (
	"context"
	"sync"

	"github.com/tufstraka/Skilltree-NFT/funding"
)

// Client implements funding.Client with scriptable behavior. By default
// every transfer settles immediately with an increasing block index.
// Tests can queue failures and hold transfers open to exercise the
// ledger's suspension window.
type Client struct {
	mu        sync.Mutex
	nextBlock funding.BlockIndex
	nextErr   error
	requests  []funding.Request
	hold      chan struct{} // when non-nil, Transfer blocks until released
}

// New creates a mock transfer client.
func New() *Client {
	return &Client{nextBlock: 1}
}

// Transfer implements funding.Client. It records the request, blocks while
// a hold is in place, and returns the scripted outcome.
func (c *Client) Transfer(ctx context.Context, req funding.Request) (funding.BlockIndex, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	hold := c.hold
	c.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nextErr != nil {
		err := c.nextErr
		c.nextErr = nil
		return 0, err
	}

	block := c.nextBlock
	c.nextBlock++
	return block, nil
}

// FailNext makes the next Transfer call return err instead of settling.
func (c *Client) FailNext(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextErr = err
}

// Hold makes subsequent Transfer calls block until Release, simulating a
// slow external ledger so other operations can interleave with a pending
// top-up. Returns the release function.
func (c *Client) Hold() (release func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan struct{})
	c.hold = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			if c.hold == ch {
				c.hold = nil
			}
			c.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns a copy of every transfer request received so far.
func (c *Client) Requests() []funding.Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]funding.Request, len(c.requests))
	copy(out, c.requests)
	return out
}
