package source

import (
	"net"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/pipeline"
	"github.com/scavenger/screenshot-scavenger/internal/raster"
)

const (
	// DefaultWorkers is the fixed size of the batched downloader's worker pool.
	DefaultWorkers = 2
	// DefaultLowWaterMark is the internal FIFO level that triggers a refill.
	DefaultLowWaterMark = 8
	// DefaultBatchSize is how many download jobs a refill enqueues.
	DefaultBatchSize = 4
	// DefaultFailureThreshold is the consecutive-failure cadence for rate-limit warnings.
	DefaultFailureThreshold = 5
	// DefaultTakeTimeout bounds how long Next() waits on an empty FIFO.
	DefaultTakeTimeout = 10 * time.Second
	// DefaultConnectTimeout bounds TCP connection establishment.
	DefaultConnectTimeout = 1500 * time.Millisecond
	// DefaultReadTimeout bounds the full request/response round trip.
	DefaultReadTimeout = 10 * time.Second
	// DefaultFIFOCapacity is the internal downloaded-image buffer size.
	DefaultFIFOCapacity = 16
	// DefaultUserAgent mimics a common desktop browser, per spec.md §6.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	// DefaultSelector is the well-known element the gallery page exposes.
	DefaultSelector = "img#screenshot-image"
	// DefaultAttr is the attribute on DefaultSelector carrying the image URL.
	DefaultAttr = "src"
	// DefaultBaseURL is the gallery this source scrapes by default.
	DefaultBaseURL = "https://screenshots.example"
)

type downloadedImage struct {
	id      string
	content *raster.Raster
}

// RemoteSource feeds from a public screenshot gallery addressed by
// sequential 6-character base-36 ids (see IdCursor), using a concurrent
// batched downloader to stay ahead of consumption. It is not safe for
// concurrent use by more than the single image-stage goroutine that owns
// it, matching every other Source implementation.
type RemoteSource struct {
	cursor   *IdCursor
	cursorMu sync.Mutex

	page   galleryPage
	client *http.Client

	workers          int
	lowWaterMark     int
	batchSize        int
	failureThreshold int
	takeTimeout      time.Duration

	failures *FailureCounter

	fifo      *pipeline.BoundedQueue[downloadedImage]
	jobs      chan struct{}
	replenish chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	current downloadedImage
}

// RemoteSourceOption configures a RemoteSource at construction time.
type RemoteSourceOption func(*RemoteSource)

// WithSeedID seeds the id cursor instead of starting at "000000".
func WithSeedID(seed string) RemoteSourceOption {
	return func(r *RemoteSource) { r.cursor = NewIdCursor(seed) }
}

// WithBaseURL overrides the gallery base URL.
func WithBaseURL(baseURL string) RemoteSourceOption {
	return func(r *RemoteSource) { r.page.baseURL = baseURL }
}

// WithSelector overrides the CSS selector and attribute used to resolve an
// id's image URL from its gallery page.
func WithSelector(selector, attr string) RemoteSourceOption {
	return func(r *RemoteSource) {
		r.page.selector = selector
		r.page.attr = attr
	}
}

// WithUserAgent overrides the browser-like User-Agent header.
func WithUserAgent(ua string) RemoteSourceOption {
	return func(r *RemoteSource) {
		r.page.userAgent = ua
	}
}

// WithHTTPClient overrides the HTTP client used for both page and image
// fetches. Intended for tests to point the source at an httptest.Server.
func WithHTTPClient(client *http.Client) RemoteSourceOption {
	return func(r *RemoteSource) {
		r.client = client
		r.page.client = client
	}
}

// WithWorkerPool overrides the downloader's worker count, low-water mark and
// batch size.
func WithWorkerPool(workers, lowWaterMark, batchSize int) RemoteSourceOption {
	return func(r *RemoteSource) {
		if workers > 0 {
			r.workers = workers
		}
		if lowWaterMark > 0 {
			r.lowWaterMark = lowWaterMark
		}
		if batchSize > 0 {
			r.batchSize = batchSize
		}
	}
}

// WithFailureThreshold overrides the consecutive-failure warning cadence.
func WithFailureThreshold(k int) RemoteSourceOption {
	return func(r *RemoteSource) {
		if k > 0 {
			r.failureThreshold = k
		}
	}
}

// WithFailureCounter injects a counter, letting tests observe or reset the
// rate-limit state without touching process-global variables.
func WithFailureCounter(c *FailureCounter) RemoteSourceOption {
	return func(r *RemoteSource) { r.failures = c }
}

// WithTakeTimeout overrides how long Next() waits on an empty FIFO before
// failing with ErrNoImageAvailable.
func WithTakeTimeout(d time.Duration) RemoteSourceOption {
	return func(r *RemoteSource) { r.takeTimeout = d }
}

// NewRemoteSource constructs a RemoteSource, starts its worker pool, and
// blocks until an initial image has loaded (or the take-timeout elapses),
// satisfying the Source contract that construction leaves a valid first
// image in place.
func NewRemoteSource(opts ...RemoteSourceOption) (*RemoteSource, error) {
	r := &RemoteSource{
		cursor:           NewIdCursor(""),
		workers:          DefaultWorkers,
		lowWaterMark:     DefaultLowWaterMark,
		batchSize:        DefaultBatchSize,
		failureThreshold: DefaultFailureThreshold,
		takeTimeout:      DefaultTakeTimeout,
		failures:         NewFailureCounter(),
		jobs:             make(chan struct{}, 64),
		replenish:        make(chan struct{}, 1),
		done:             make(chan struct{}),
	}
	r.page = galleryPage{
		baseURL:   DefaultBaseURL,
		selector:  DefaultSelector,
		attr:      DefaultAttr,
		userAgent: DefaultUserAgent,
	}
	r.client = &http.Client{
		Timeout: DefaultReadTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: DefaultConnectTimeout}).DialContext,
		},
	}
	r.page.client = r.client

	for _, opt := range opts {
		opt(r)
	}

	r.fifo = pipeline.NewBoundedQueue[downloadedImage](DefaultFIFOCapacity)

	r.wg.Add(1)
	go r.dispatchLoop()
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.workerLoop()
	}

	// Kick off the first refill immediately rather than waiting for a Take
	// to trigger one.
	r.signalReplenish()

	if err := r.Next(); err != nil {
		r.Shutdown()
		return nil, err
	}
	return r, nil
}

func (r *RemoteSource) nextCursorID() string {
	r.cursorMu.Lock()
	defer r.cursorMu.Unlock()
	return r.cursor.Next()
}

func (r *RemoteSource) signalReplenish() {
	select {
	case r.replenish <- struct{}{}:
	default:
	}
}

func (r *RemoteSource) dispatchLoop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case <-r.replenish:
			if r.fifo.Size() > r.lowWaterMark {
				continue
			}
			for i := 0; i < r.batchSize; i++ {
				select {
				case r.jobs <- struct{}{}:
				case <-r.done:
					return
				default:
				}
			}
		}
	}
}

func (r *RemoteSource) workerLoop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case <-r.jobs:
			r.downloadOne()
		}
	}
}

func (r *RemoteSource) downloadOne() {
	id := r.nextCursorID()

	imgURL, err := r.page.resolveImageURL(id)
	if err != nil {
		r.recordFailure(id, err)
		return
	}

	data, err := fetchImageBytes(r.client, imgURL, r.page.userAgent)
	if err != nil {
		r.recordFailure(id, err)
		return
	}

	img, err := raster.Decode(data)
	if err != nil {
		r.recordFailure(id, err)
		return
	}

	r.failures.Reset()

	if !r.fifo.TryPut(downloadedImage{id: id, content: img}) {
		log.WithField("id", id).Debug("remote source: FIFO full, discarding downloaded image")
		img.Close()
	}
}

func (r *RemoteSource) recordFailure(id string, cause error) {
	count := r.failures.Incr()
	log.WithError(cause).WithField("id", id).Debug("remote source: download job failed")
	if ShouldWarn(count, r.failureThreshold) {
		log.Warnf("remote source: %d consecutive failures, possible rate limiting", count)
	}
}

// Next blocks (bounded by the configured take-timeout) for the next
// downloaded image. It returns ErrNoImageAvailable on timeout or shutdown.
// The previous image's raster is left open: the image stage has already
// handed it on inside an ImageRecord.
func (r *RemoteSource) Next() error {
	select {
	case <-r.done:
		return ErrNoImageAvailable
	default:
	}
	img, ok := r.fifo.TakeTimeout(r.takeTimeout)
	if !ok {
		return ErrNoImageAvailable
	}
	r.current = img
	r.signalReplenish()
	return nil
}

func (r *RemoteSource) CurrentID() string { return r.current.id }

func (r *RemoteSource) CurrentContent() *raster.Raster { return r.current.content }

// Shutdown cancels the worker pool and dispatcher. Idempotent.
func (r *RemoteSource) Shutdown() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}
