// Package workflow sequences document intake on the client: upload, a review
// gate, approval or rejection, and retrieval of the extracted record.
//
// A Coordinator owns all workflow state and mutates it on a single event loop
// (Run). User actions are synchronous requests into that loop; network calls
// run on their own goroutines and post their completions back as events.
// Observers read immutable Snapshots.
package workflow

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JaimeStill/filevault/internal/client"
)

// Transport is the subset of the vault API the coordinator drives.
type Transport interface {
	Upload(ctx context.Context, f client.File) (*client.Descriptor, error)
	Approve(ctx context.Context, correlationID string) (*client.Approval, error)
	Discard(ctx context.Context, correlationID string) error
	ListRecords(ctx context.Context) ([]client.Record, error)
	GetRecord(ctx context.Context, id int64) (*client.Record, error)
}

// Config tunes coordinator behavior.
type Config struct {
	// ApproveAttempts bounds approve calls per user action. Values below 1 mean 1.
	ApproveAttempts int
	// ApproveBackoff is the fixed wait between approve attempts.
	ApproveBackoff time.Duration
	// DiscardOnReject deletes the quarantined document after a rejection.
	DiscardOnReject bool
	// AcceptedTypes is the MIME filter for uploads. Empty means application/pdf.
	AcceptedTypes []string
}

type request struct {
	apply func() error
	reply chan error
}

// Coordinator runs the intake state machine for one session.
type Coordinator struct {
	transport Transport
	cfg       Config
	logger    *slog.Logger

	requests chan request
	events   chan func()
	done     chan struct{}
	running  atomic.Bool
	inflight sync.WaitGroup

	// owned by the event loop
	ctx          context.Context
	version      uint64
	phase        Phase
	upload       *uploadStage
	review       *reviewStage
	result       *resultStage
	history      *historyStage
	uploadTicket uint64
	reviewTicket uint64
	resultTicket uint64

	snapMu sync.RWMutex
	snap   Snapshot
	subs   map[chan Snapshot]struct{}
}

// New creates a Coordinator in AwaitingUpload. Call Run to start it.
func New(t Transport, cfg Config, logger *slog.Logger) *Coordinator {
	if cfg.ApproveAttempts < 1 {
		cfg.ApproveAttempts = 1
	}
	if len(cfg.AcceptedTypes) == 0 {
		cfg.AcceptedTypes = []string{"application/pdf"}
	}

	c := &Coordinator{
		transport: t,
		cfg:       cfg,
		logger:    logger.With("system", "workflow"),
		requests:  make(chan request),
		events:    make(chan func()),
		done:      make(chan struct{}),
		phase:     AwaitingUpload,
		upload:    newUploadStage(cfg.AcceptedTypes),
		history:   &historyStage{},
		subs:      make(map[chan Snapshot]struct{}),
	}
	c.snap = c.snapshot()
	return c
}

// Run processes actions and completions until ctx is cancelled, then waits
// for in-flight calls to return. Actions issued before Run block until it starts.
func (c *Coordinator) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	c.ctx = ctx

	defer func() {
		close(c.done)
		c.inflight.Wait()
		c.closeSubscribers()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-c.requests:
			err := req.apply()
			if err == nil {
				c.publish()
			}
			req.reply <- err
		case ev := <-c.events:
			ev()
			c.publish()
		}
	}
}

// Snapshot returns the most recently published state.
func (c *Coordinator) Snapshot() Snapshot {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snap
}

// Subscribe returns a channel that always holds the latest Snapshot. Missed
// intermediate snapshots are dropped. The channel is closed by cancel or when
// Run returns.
func (c *Coordinator) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.snapMu.Lock()
	select {
	case <-c.done:
		c.snapMu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	c.subs[ch] = struct{}{}
	ch <- c.snap
	c.snapMu.Unlock()

	cancel := func() {
		c.snapMu.Lock()
		defer c.snapMu.Unlock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// SelectFile uploads f. Refused while another upload is in flight, when a
// document is already pending review or a result is showing, and for files
// outside the MIME filter.
func (c *Coordinator) SelectFile(f client.File) error {
	return c.submit(func() error {
		if c.phase != AwaitingUpload {
			return ErrNotAccepting
		}
		if err := c.upload.begin(f); err != nil {
			return err
		}

		c.uploadTicket++
		ticket := c.uploadTicket
		c.spawn(func(ctx context.Context) {
			d, err := c.transport.Upload(ctx, f)
			c.post(ctx, func() { c.uploadDone(ticket, f.Name, d, err) })
		})
		return nil
	})
}

// Approve releases the pending document for extraction.
func (c *Coordinator) Approve() error {
	return c.submit(func() error {
		if c.phase != PendingReview || c.review == nil {
			return ErrNoPending
		}
		if err := c.review.beginApprove(); err != nil {
			return err
		}

		c.reviewTicket++
		ticket := c.reviewTicket
		cid := c.review.descriptor.CorrelationID
		c.spawn(func(ctx context.Context) {
			a, err := c.approveWithRetry(ctx, cid)
			c.post(ctx, func() { c.approveDone(ticket, cid, a, err) })
		})
		return nil
	})
}

// Reject abandons the pending document. Refused while an approval is in flight.
func (c *Coordinator) Reject() error {
	return c.submit(func() error {
		if c.phase != PendingReview || c.review == nil {
			return ErrNoPending
		}
		if err := c.review.reject(); err != nil {
			return err
		}

		cid := c.review.descriptor.CorrelationID
		c.review = nil
		c.reviewTicket++
		c.upload.reset()
		c.phase = AwaitingUpload
		c.logger.Info("document rejected", "correlation_id", cid)

		if c.cfg.DiscardOnReject {
			c.spawn(func(ctx context.Context) {
				if err := c.transport.Discard(ctx, cid); err != nil {
					c.logger.Warn("discard after reject failed", "correlation_id", cid, "error", err)
				}
			})
		}
		return nil
	})
}

// RetryResult re-fetches the extracted record after a failed fetch.
func (c *Coordinator) RetryResult() error {
	return c.submit(func() error {
		if c.phase != ResultReady || c.result == nil {
			return ErrNotAccepting
		}
		if c.result.status == Loading {
			return ErrBusy
		}
		if !c.result.retryable() {
			return ErrNotAccepting
		}
		c.fetchResult()
		return nil
	})
}

// StartOver leaves the result view and accepts a new upload.
func (c *Coordinator) StartOver() error {
	return c.submit(func() error {
		if c.phase != ResultReady {
			return ErrNotAccepting
		}
		c.result = nil
		c.resultTicket++
		c.upload.reset()
		c.phase = AwaitingUpload
		return nil
	})
}

// OpenHistory enters the collection view and fetches the record list.
func (c *Coordinator) OpenHistory() error {
	return c.submit(func() error {
		c.fetchHistory()
		return nil
	})
}

// RefreshHistory re-fetches the record list. Only the latest refresh is applied.
func (c *Coordinator) RefreshHistory() error {
	return c.submit(func() error {
		if !c.history.open {
			return ErrNotAccepting
		}
		c.fetchHistory()
		return nil
	})
}

// CloseHistory leaves the collection view and ignores any fetch still in flight.
func (c *Coordinator) CloseHistory() error {
	return c.submit(func() error {
		c.history.close()
		return nil
	})
}

func (c *Coordinator) uploadDone(ticket uint64, name string, d *client.Descriptor, err error) {
	if ticket != c.uploadTicket || c.upload.status != Loading {
		c.logger.Debug("stale upload completion dropped", "file", name)
		return
	}

	if err == nil && (d == nil || d.CorrelationID == "") {
		err = &client.Error{Op: "upload", Err: errMissingCorrelation}
	}
	if err != nil {
		c.logger.Warn("upload failed", "file", name, "error", err)
		c.upload.fail()
		return
	}

	c.upload.succeed()
	c.review = newReviewStage(*d)
	c.phase = PendingReview
	c.logger.Info("document pending review", "file", name, "correlation_id", d.CorrelationID)
}

func (c *Coordinator) approveDone(ticket uint64, cid string, a *client.Approval, err error) {
	if c.phase != PendingReview || ticket != c.reviewTicket {
		c.logger.Debug("stale approval completion dropped", "correlation_id", cid)
		return
	}

	if err != nil {
		c.logger.Warn("approval failed", "correlation_id", cid, "error", err)
		c.review.fail()
		return
	}

	var recordID int64
	if a != nil {
		recordID = a.RecordID
	}

	c.review = nil
	c.phase = ResultReady
	c.result = newResultStage(cid, recordID)

	if !a.HasRecord() {
		c.logger.Warn("approval response carried no record id", "correlation_id", cid)
		return
	}
	c.logger.Info("document approved", "correlation_id", cid, "record_id", a.RecordID)
	c.fetchResult()
}

func (c *Coordinator) fetchResult() {
	c.resultTicket++
	ticket := c.resultTicket
	id := c.result.recordID
	c.result.loading()

	c.spawn(func(ctx context.Context) {
		r, err := c.transport.GetRecord(ctx, id)
		c.post(ctx, func() { c.resultDone(ticket, id, r, err) })
	})
}

func (c *Coordinator) resultDone(ticket uint64, id int64, r *client.Record, err error) {
	if c.phase != ResultReady || c.result == nil || ticket != c.resultTicket {
		c.logger.Debug("stale record completion dropped", "record_id", id)
		return
	}

	if err != nil {
		c.logger.Warn("record fetch failed", "record_id", id, "error", err)
		c.result.fail()
		return
	}
	c.result.loaded(r)
}

func (c *Coordinator) fetchHistory() {
	counter := c.history.bump()
	c.spawn(func(ctx context.Context) {
		records, err := c.transport.ListRecords(ctx)
		c.post(ctx, func() {
			if err != nil {
				c.logger.Warn("record list failed", "counter", counter, "error", err)
			}
			if !c.history.complete(counter, records, err) {
				c.logger.Debug("stale record list dropped", "counter", counter)
			}
		})
	})
}

// approveWithRetry makes up to cfg.ApproveAttempts calls, waiting
// cfg.ApproveBackoff between them.
func (c *Coordinator) approveWithRetry(ctx context.Context, cid string) (*client.Approval, error) {
	for attempt := 1; ; attempt++ {
		a, err := c.transport.Approve(ctx, cid)
		if err == nil {
			return a, nil
		}
		if attempt >= c.cfg.ApproveAttempts {
			return nil, err
		}

		c.logger.Warn("approve attempt failed", "correlation_id", cid, "attempt", attempt, "error", err)

		timer := time.NewTimer(c.cfg.ApproveBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Coordinator) submit(fn func() error) error {
	reply := make(chan error, 1)
	select {
	case c.requests <- request{apply: fn, reply: reply}:
	case <-c.done:
		return ErrStopped
	}
	return <-reply
}

// spawn runs fn on its own goroutine with the session context.
func (c *Coordinator) spawn(fn func(ctx context.Context)) {
	ctx := c.ctx
	c.inflight.Go(func() { fn(ctx) })
}

// post hands a completion to the event loop, giving up once the session ends.
func (c *Coordinator) post(ctx context.Context, ev func()) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}

func (c *Coordinator) publish() {
	c.version++
	snap := c.snapshot()

	c.snapMu.Lock()
	defer c.snapMu.Unlock()

	c.snap = snap
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (c *Coordinator) closeSubscribers() {
	c.snapMu.Lock()
	defer c.snapMu.Unlock()
	for ch := range c.subs {
		close(ch)
		delete(c.subs, ch)
	}
}
