// Package search runs monster searches in the background so the interface
// never waits on the network.
//
// Each request is tagged with a sequence number. Only the result of the most
// recently issued request is accepted; older results are dropped when they
// arrive and their requests are cancelled as soon as they are superseded.
package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tatianab/wtii/internal/models"
	"github.com/tatianab/wtii/internal/open5e"
)

// Result is the outcome of one search request.
type Result struct {
	Seq       uint64
	Query     string
	Creatures []*models.CreatureSearchResult
	Err       error
}

// Ticket identifies an issued request. C receives exactly one Result and is
// then closed. It is buffered, so abandoning a ticket leaks nothing.
type Ticket struct {
	Seq   uint64
	Query string
	C     <-chan Result
}

// Wait blocks until the result arrives or ctx is done.
func (t Ticket) Wait(ctx context.Context) (Result, bool) {
	select {
	case res, ok := <-t.C:
		return res, ok
	case <-ctx.Done():
		return Result{}, false
	}
}

// Dispatcher issues searches and decides which results are still wanted.
type Dispatcher struct {
	client open5e.Client
	logger *zap.Logger

	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc
}

// NewDispatcher creates a dispatcher over client.
func NewDispatcher(client open5e.Client, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{client: client, logger: logger}
}

// Issue starts a search for query, superseding any request still in flight.
func (d *Dispatcher) Issue(ctx context.Context, query string) Ticket {
	reqCtx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.latest++
	seq := d.latest
	d.cancel = cancel
	d.mu.Unlock()

	d.logger.Debug("search issued", zap.Uint64("seq", seq), zap.String("query", query))

	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		defer cancel()
		creatures, err := d.client.SearchMonsters(reqCtx, query)
		ch <- Result{Seq: seq, Query: query, Creatures: creatures, Err: err}
	}()

	return Ticket{Seq: seq, Query: query, C: ch}
}

// Accept reports whether res answers the latest issued request.
func (d *Dispatcher) Accept(res Result) bool {
	d.mu.Lock()
	latest := d.latest
	d.mu.Unlock()

	if res.Seq != latest {
		d.logger.Debug("discarding stale search result",
			zap.Uint64("seq", res.Seq),
			zap.Uint64("latest", latest),
			zap.String("query", res.Query),
		)
		return false
	}
	return true
}

// Latest returns the sequence number of the most recent request.
func (d *Dispatcher) Latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

// Abandon drops interest in the request in flight. Its result, if it still
// arrives, will not be accepted.
func (d *Dispatcher) Abandon() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.latest++
}
