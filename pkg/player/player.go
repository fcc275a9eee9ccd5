// Package player drives the comparison render pipeline: a tick-driven
// playback loop that resolves per-stream indices, fetches both frames
// concurrently, composites them and hands the result to the presenter.
package player

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/user/vidcomp/pkg/compare"
	"github.com/user/vidcomp/pkg/ports"
)

// Options configures an Engine.
type Options struct {
	// FetchTimeout bounds a single frame fetch. Zero means 3 seconds.
	FetchTimeout time.Duration

	// FPS overrides the playback rate. Zero means the mean of the two
	// streams' native rates.
	FPS float64

	// SnapshotDir is where snapshots with no explicit path are written.
	SnapshotDir string

	// JPEGQuality is used when exporting .jpg snapshots.
	JPEGQuality int

	Mode   compare.Mode
	Params compare.Params
	Offset int
}

// Engine owns the playback clock and the render pipeline for one pair of
// opened streams. All state transitions are serialized through its mutex;
// the render worker is the only goroutine that touches the frame source
// after open.
type Engine struct {
	source     ports.FrameSource
	compositor *compare.Compositor
	presenter  ports.Presenter
	renderer   ports.Renderer
	fs         ports.FileSystem
	sink       ports.DebugSink
	logger     ports.Logger

	opts Options

	streamA *ports.VideoStream
	streamB *ports.VideoStream

	mu     sync.Mutex
	clock  *compare.Clock
	mode   compare.Mode
	params compare.Params
	offset int

	// lastComposite is the freeze-on-error cache: the most recent frame
	// successfully presented.
	lastComposite *ports.CompositeFrame
	// cachedPair allows re-compositing on mode/parameter changes without
	// re-fetching frames.
	cachedPair *decodedPair

	gen      atomic.Int64
	requests chan renderRequest
	started  atomic.Bool
}

type decodedPair struct {
	indexA, indexB int
	frameA, frameB image.Image
}

type renderRequest struct {
	gen         int64
	masterIndex int
	mode        compare.Mode
	params      compare.Params
	offset      int
	// reuse permits compositing from the cached decoded pair when the
	// resolved indices match (mode or parameter change while paused).
	reuse bool
}

// New creates an Engine. Streams are opened by Open.
func New(
	source ports.FrameSource,
	compositor *compare.Compositor,
	presenter ports.Presenter,
	renderer ports.Renderer,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
	opts Options,
) *Engine {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 3 * time.Second
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 90
	}
	return &Engine{
		source:     source,
		compositor: compositor,
		presenter:  presenter,
		renderer:   renderer,
		fs:         fs,
		sink:       sink,
		logger:     logger.WithComponent("player"),
		opts:       opts,
		mode:       opts.Mode,
		params:     opts.Params,
		offset:     opts.Offset,
		requests:   make(chan renderRequest, 1),
	}
}

// Open probes both video files. Failure to open either stream is fatal to
// the comparison: the engine refuses to start.
func (e *Engine) Open(pathA, pathB string) error {
	streamA, err := e.source.Open(pathA)
	if err != nil {
		return fmt.Errorf("open stream A: %w", err)
	}
	streamB, err := e.source.Open(pathB)
	if err != nil {
		e.source.Close(streamA)
		return fmt.Errorf("open stream B: %w", err)
	}
	if streamA.FrameCount <= 0 || streamB.FrameCount <= 0 {
		e.source.Close(streamA)
		e.source.Close(streamB)
		return fmt.Errorf("%w: unknown stream duration", ports.ErrOpen)
	}

	e.streamA = streamA
	e.streamB = streamB

	rate := e.opts.FPS
	if rate <= 0 {
		rate = (streamA.FrameRate + streamB.FrameRate) / 2.0
	}
	lo, hi := compare.MasterRange(e.offset, streamA.FrameCount, streamB.FrameCount)
	e.clock = compare.NewClock(lo, hi, rate)

	if e.sink.Enabled() {
		if data, err := json.MarshalIndent([]*ports.VideoStream{streamA, streamB}, "", "  "); err == nil {
			e.sink.SaveStreamInfoJSON(data)
		}
	}

	e.logger.Info("Comparison ready: %d frames at %.2f fps", hi-lo+1, rate)
	return nil
}

// Close releases both streams.
func (e *Engine) Close() {
	if e.streamA != nil {
		e.source.Close(e.streamA)
	}
	if e.streamB != nil {
		e.source.Close(e.streamB)
	}
}

// Streams returns the opened stream pair.
func (e *Engine) Streams() (a, b *ports.VideoStream) {
	return e.streamA, e.streamB
}

// Run starts the render worker and the tick loop, renders the first
// frame, and blocks until the context is canceled. Open must have
// succeeded first.
func (e *Engine) Run(ctx context.Context) error {
	if e.clock == nil {
		return fmt.Errorf("%w: engine not opened", ports.ErrOpen)
	}
	if !e.started.CompareAndSwap(false, true) {
		return fmt.Errorf("engine already running")
	}

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		e.renderWorker(ctx)
	}()

	// Initial frame.
	e.mu.Lock()
	e.submitLocked(false)
	interval := time.Duration(float64(time.Second) / e.clock.Rate())
	e.mu.Unlock()

	// Ticks fire at the playback rate regardless of how long a render
	// takes; superseded requests are coalesced in submit.
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			workers.Wait()
			e.logger.Debug("Shutting down")
			return ctx.Err()
		case <-ticker.C:
			e.mu.Lock()
			if e.clock.State() == compare.StatePlaying {
				if e.clock.Tick() {
					e.submitLocked(false)
				}
				if e.clock.State() == compare.StatePaused {
					e.logger.Info("Playback finished")
				}
			}
			e.mu.Unlock()
		}
	}
}

// ---- user-invoked transitions -------------------------------------------

// Play starts playback.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.Play()
}

// Pause pauses playback.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.Pause()
}

// TogglePlay flips between Playing and Paused/Stopped.
func (e *Engine) TogglePlay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.clock.State() == compare.StatePlaying {
		e.clock.Pause()
	} else {
		e.clock.Play()
	}
}

// Step moves the master index by delta frames and pauses. Saturates at
// the timeline edges.
func (e *Engine) Step(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	before := e.clock.MasterIndex()
	e.clock.Step(delta)
	if e.clock.MasterIndex() != before {
		e.submitLocked(false)
	}
}

// Seek moves the master index, clamped to the valid range, preserving the
// playback state.
func (e *Engine) Seek(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.Seek(index)
	e.submitLocked(false)
}

// SeekToStart seeks to the first valid frame.
func (e *Engine) SeekToStart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.SeekToStart()
	e.submitLocked(false)
}

// SeekToEnd seeks to the last valid frame.
func (e *Engine) SeekToEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.SeekToEnd()
	e.submitLocked(false)
}

// SetMode switches the comparison mode and re-renders the current pair
// without re-fetching frames.
func (e *Engine) SetMode(mode compare.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == mode {
		return
	}
	e.mode = mode
	e.logger.Debug("Mode changed to %s", mode)
	e.submitLocked(true)
}

// SetSplit adjusts the side-by-side split position, fraction of width.
func (e *Engine) SetSplit(split float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.Split = split
	e.submitLocked(true)
}

// SetOpacity adjusts the overlay opacity.
func (e *Engine) SetOpacity(opacity float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.Opacity = opacity
	e.submitLocked(true)
}

// Toggle flips which stream is shown in toggle mode.
func (e *Engine) Toggle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.ShowA = !e.params.ShowA
	e.submitLocked(true)
}

// SetOffset sets the frame offset for stream B, reclamps the master
// range, and re-renders. The cached pair is invalid since index B moved.
func (e *Engine) SetOffset(offset int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.offset == offset {
		return
	}
	e.offset = offset
	lo, hi := compare.MasterRange(offset, e.streamA.FrameCount, e.streamB.FrameCount)
	e.clock.SetRange(lo, hi)
	e.cachedPair = nil
	e.logger.Debug("Offset changed to %d", offset)
	e.submitLocked(false)
}

// AdjustOffset changes the frame offset by delta.
func (e *Engine) AdjustOffset(delta int) {
	e.mu.Lock()
	offset := e.offset + delta
	e.mu.Unlock()
	e.SetOffset(offset)
}

// Snapshot exports the current composite frame. An empty path writes a
// uuid-named PNG into the configured snapshot directory. The format
// follows the file extension (.jpg/.jpeg for JPEG, PNG otherwise).
// Export failure never touches playback state.
func (e *Engine) Snapshot(path string) (string, error) {
	e.mu.Lock()
	frame := e.lastComposite
	e.mu.Unlock()

	if frame == nil || frame.Image == nil {
		return "", fmt.Errorf("%w: no composite frame yet", ports.ErrExport)
	}

	if path == "" {
		path = filepath.Join(e.opts.SnapshotDir, fmt.Sprintf("snapshot-%s.png", uuid.NewString()))
	}

	format := ports.FormatPNG
	quality := 0
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		format = ports.FormatJPEG
		quality = e.opts.JPEGQuality
	}

	data, err := e.renderer.EncodeImage(frame.Image, format, quality)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrExport, err)
	}
	if err := e.fs.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrExport, err)
	}

	e.logger.Info("Snapshot saved to %s", path)
	return path, nil
}

// ExportFrame composites the frame at masterIndex and writes it to path
// without starting the playback loop. Used for one-shot exports.
func (e *Engine) ExportFrame(ctx context.Context, masterIndex int, path string) (string, error) {
	if e.clock == nil {
		return "", fmt.Errorf("%w: engine not opened", ports.ErrOpen)
	}

	e.mu.Lock()
	e.clock.Seek(masterIndex)
	req := renderRequest{
		gen:         e.gen.Add(1),
		masterIndex: e.clock.MasterIndex(),
		mode:        e.mode,
		params:      e.params,
		offset:      e.offset,
	}
	e.mu.Unlock()

	indexA, indexB := compare.ResolveIndices(
		req.masterIndex, req.offset, e.streamA.FrameCount, e.streamB.FrameCount)
	pair, err := e.fetchPair(ctx, req, indexA, indexB)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrExport, err)
	}
	img, err := e.compositor.Compose(pair.frameA, pair.frameB, req.mode, req.params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrExport, err)
	}

	e.mu.Lock()
	e.lastComposite = &ports.CompositeFrame{Image: img, IndexA: indexA, IndexB: indexB}
	e.cachedPair = pair
	e.mu.Unlock()

	return e.Snapshot(path)
}

// Status is a snapshot of the playback state for presentation.
type Status struct {
	State       string  `json:"state"`
	MasterIndex int     `json:"masterIndex"`
	IndexA      int     `json:"indexA"`
	IndexB      int     `json:"indexB"`
	FirstIndex  int     `json:"firstIndex"`
	LastIndex   int     `json:"lastIndex"`
	Mode        string  `json:"mode"`
	Split       float64 `json:"split"`
	Opacity     float64 `json:"opacity"`
	ShowA       bool    `json:"showA"`
	Offset      int     `json:"offset"`
	Rate        float64 `json:"rate"`
	CurrentTime string  `json:"currentTime"`
	TotalTime   string  `json:"totalTime"`
}

// Status returns the current playback state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	lo, hi := e.clock.Range()
	rate := e.clock.Rate()
	var totalA, totalB int
	if e.streamA != nil {
		totalA = e.streamA.FrameCount
	}
	if e.streamB != nil {
		totalB = e.streamB.FrameCount
	}
	indexA, indexB := compare.ResolveIndices(e.clock.MasterIndex(), e.offset, totalA, totalB)
	return Status{
		State:       e.clock.State().String(),
		MasterIndex: e.clock.MasterIndex(),
		IndexA:      indexA,
		IndexB:      indexB,
		FirstIndex:  lo,
		LastIndex:   hi,
		Mode:        e.mode.String(),
		Split:       e.params.Split,
		Opacity:     e.params.Opacity,
		ShowA:       e.params.ShowA,
		Offset:      e.offset,
		Rate:        rate,
		CurrentTime: FormatTime(float64(e.clock.MasterIndex()) / rate),
		TotalTime:   FormatTime(float64(hi) / rate),
	}
}

// ---- render pipeline ----------------------------------------------------

// submitLocked queues a render request for the current state, replacing
// any pending request (tick coalescing). Callers hold e.mu.
func (e *Engine) submitLocked(reuse bool) {
	req := renderRequest{
		gen:         e.gen.Add(1),
		masterIndex: e.clock.MasterIndex(),
		mode:        e.mode,
		params:      e.params,
		offset:      e.offset,
		reuse:       reuse,
	}
	select {
	case <-e.requests:
	default:
	}
	e.requests <- req
}

// renderWorker services render requests one at a time, always taking the
// most recent one.
func (e *Engine) renderWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-e.requests:
			e.render(ctx, req)
		}
	}
}

func (e *Engine) render(ctx context.Context, req renderRequest) {
	indexA, indexB := compare.ResolveIndices(
		req.masterIndex, req.offset, e.streamA.FrameCount, e.streamB.FrameCount)

	pair, err := e.fetchPair(ctx, req, indexA, indexB)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// Freeze-on-error: keep showing the last good composite and let
		// playback continue.
		e.logger.Warn("Decode failed at frame %d, freezing last composite", req.masterIndex)
		e.presenter.Notify(fmt.Sprintf("decode failed at frame %d", req.masterIndex))
		e.mu.Lock()
		frozen := e.lastComposite
		e.mu.Unlock()
		if frozen != nil && req.gen == e.gen.Load() {
			e.presenter.Display(*frozen)
		}
		return
	}

	img, err := e.compositor.Compose(pair.frameA, pair.frameB, req.mode, req.params)
	if err != nil {
		e.logger.Warn("Decode failed at frame %d, freezing last composite", req.masterIndex)
		e.presenter.Notify(fmt.Sprintf("compose failed at frame %d", req.masterIndex))
		return
	}

	// Stale-frame suppression: a newer request was issued while this one
	// was in flight; its result must never be presented.
	if req.gen != e.gen.Load() {
		e.logger.Debug("Discarding stale render for frame %d", req.masterIndex)
		return
	}

	frame := ports.CompositeFrame{Image: img, IndexA: indexA, IndexB: indexB}

	e.mu.Lock()
	e.lastComposite = &frame
	e.cachedPair = pair
	e.mu.Unlock()

	if e.sink.Enabled() {
		e.sink.SaveCompositeFrame(req.masterIndex, img)
	}
	e.presenter.Display(frame)
}

// fetchPair fetches both frames concurrently and joins before returning.
// Each fetch is bounded by the configured timeout; a timeout surfaces as
// a decode error, never an indefinite block.
func (e *Engine) fetchPair(ctx context.Context, req renderRequest, indexA, indexB int) (*decodedPair, error) {
	if req.reuse {
		e.mu.Lock()
		cached := e.cachedPair
		e.mu.Unlock()
		if cached != nil && cached.indexA == indexA && cached.indexB == indexB {
			return cached, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.opts.FetchTimeout)
	defer cancel()

	var (
		wg         sync.WaitGroup
		frameA     image.Image
		frameB     image.Image
		errA, errB error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		frameA, errA = e.source.GetFrame(fetchCtx, e.streamA, indexA)
	}()
	go func() {
		defer wg.Done()
		frameB, errB = e.source.GetFrame(fetchCtx, e.streamB, indexB)
	}()
	wg.Wait()

	if errA != nil {
		return nil, errA
	}
	if errB != nil {
		return nil, errB
	}

	if e.sink.Enabled() {
		e.sink.SaveSourceFrame("a", indexA, frameA)
		e.sink.SaveSourceFrame("b", indexB, frameB)
	}

	return &decodedPair{indexA: indexA, indexB: indexB, frameA: frameA, frameB: frameB}, nil
}

// FormatTime formats seconds as MM:SS.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		return "00:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
