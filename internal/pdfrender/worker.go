package pdfrender

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prepdeck/mocktest-service/internal/models"
	"github.com/prepdeck/mocktest-service/internal/utils"
)

// CropSource renders diagram crops. Satisfied by *Renderer; tests substitute
// a controllable fake.
type CropSource interface {
	RenderCropPNG(doc *Document, pageNumber int, bbox models.BoundingBox, scale float64) (*EncodedCrop, error)
}

// CropCache stores encoded crops between renders. Satisfied by the cache
// package; nil disables caching.
type CropCache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// CropRequest asks the worker to render a crop for a display target. Target
// identifies the canvas the result is destined for (one per session per
// view, e.g. "<session>/inline" and "<session>/lightbox"); a new request for
// the same target supersedes any in-flight one.
type CropRequest struct {
	Target     string
	DocID      string
	Doc        *Document
	PageNumber int
	BBox       models.BoundingBox
	Scale      float64
}

// CropResult is the latest completed render for a target. Failed marks a
// target whose only render attempt errored: there is no crop to show, but
// the target is settled rather than still loading.
type CropResult struct {
	Token     uint64
	PNG       []byte
	Width     int
	Height    int
	NoDiagram bool
	Failed    bool
}

type cropJob struct {
	req   CropRequest
	token uint64
}

// Worker renders crops asynchronously with last-request-wins semantics.
// Each target carries a generation token; results whose token no longer
// matches the latest request for that target are discarded, never displayed.
// Supersession is discard-by-staleness, not cancellation: a render that has
// started runs to completion and is then thrown away if stale.
type Worker struct {
	src    CropSource
	cache  CropCache
	logger utils.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending map[string]cropJob
	latest  map[string]uint64
	served  map[string]uint64
	results map[string]*CropResult
	closed  bool
}

const cropCacheTTL = 30 * time.Minute

func NewWorker(src CropSource, crops CropCache, logger utils.Logger) *Worker {
	w := &Worker{
		src:     src,
		cache:   crops,
		logger:  logger,
		pending: make(map[string]cropJob),
		latest:  make(map[string]uint64),
		served:  make(map[string]uint64),
		results: make(map[string]*CropResult),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Request enqueues a render for the target and returns its token. A pending
// request for the same target is coalesced away: only the newest ever runs.
func (w *Worker) Request(req CropRequest) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0
	}

	token := w.latest[req.Target] + 1
	w.latest[req.Target] = token
	w.pending[req.Target] = cropJob{req: req, token: token}
	w.cond.Signal()
	return token
}

// Latest returns the newest completed result for the target. pending is
// true while a newer request than the stored result is still in flight, so
// callers can distinguish "still loading" from "no diagram".
func (w *Worker) Latest(target string) (result *CropResult, pending bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.results[target], w.latest[target] > w.served[target]
}

// Forget drops all state for targets belonging to a session, e.g. on retry.
func (w *Worker) Forget(targets ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, t := range targets {
		delete(w.pending, t)
		delete(w.latest, t)
		delete(w.served, t)
		delete(w.results, t)
	}
}

// Close stops the worker after draining nothing: queued jobs are dropped.
func (w *Worker) Close() {
	w.mu.Lock()
	w.closed = true
	w.pending = make(map[string]cropJob)
	w.cond.Broadcast()
	w.mu.Unlock()
}

func (w *Worker) run() {
	for {
		w.mu.Lock()
		for len(w.pending) == 0 && !w.closed {
			w.cond.Wait()
		}
		if w.closed {
			w.mu.Unlock()
			return
		}
		var job cropJob
		for target, j := range w.pending {
			job = j
			delete(w.pending, target)
			break
		}
		w.mu.Unlock()

		w.render(job)
	}
}

func (w *Worker) render(job cropJob) {
	req := job.req
	res := &CropResult{Token: job.token}

	if req.BBox.IsZero() {
		res.NoDiagram = true
		w.deliver(req.Target, job.token, res, nil)
		return
	}

	key := cropKey(req)
	if w.cache != nil {
		if data, err := w.cache.Get(context.Background(), key); err == nil {
			res.PNG = data
			w.deliver(req.Target, job.token, res, nil)
			return
		}
	}

	crop, err := w.src.RenderCropPNG(req.Doc, req.PageNumber, req.BBox, req.Scale)
	if err != nil {
		if errors.Is(err, ErrNoDiagram) {
			res.NoDiagram = true
			w.deliver(req.Target, job.token, res, nil)
			return
		}
		// Render failures leave the last-good crop in place and never
		// block navigation.
		w.deliver(req.Target, job.token, nil, err)
		return
	}

	res.PNG = crop.PNG
	res.Width = crop.Width
	res.Height = crop.Height

	if w.cache != nil {
		if err := w.cache.Set(context.Background(), key, crop.PNG, cropCacheTTL); err != nil {
			w.logger.Warn("Failed to cache crop", "key", key, "error", err)
		}
	}

	w.deliver(req.Target, job.token, res, nil)
}

func (w *Worker) deliver(target string, token uint64, res *CropResult, renderErr error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.served[target] < token {
		w.served[target] = token
	}

	if token != w.latest[target] {
		w.logger.Debug("Discarding stale crop render", "target", target, "token", token)
		return
	}

	if renderErr != nil {
		w.logger.Error("Crop render failed", "target", target, "error", renderErr)
		// A failure keeps the last-good crop. When there is none, store a
		// failed marker so the target settles instead of reading as
		// loading forever.
		if _, ok := w.results[target]; !ok {
			w.results[target] = &CropResult{Token: token, Failed: true}
		}
		return
	}

	w.results[target] = res
}

func cropKey(req CropRequest) string {
	return fmt.Sprintf("crop:%s:%d:%d-%d-%d-%d:%g",
		req.DocID, req.PageNumber, req.BBox[0], req.BBox[1], req.BBox[2], req.BBox[3], req.Scale)
}
