package soundengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"
	"time"

	"audio-loader/core/cooked"
	"audio-loader/core/future"
	"audio-loader/core/resource"
	"audio-loader/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned for reads attempted after Close.
var ErrClosed = errors.New("sound engine closed")

// Resident describes one file held in engine memory.
type Resident struct {
	Kind     string    `json:"kind"`
	ID       uint32    `json:"id"`
	Name     string    `json:"name"`
	Key      string    `json:"key"`
	Size     int64     `json:"size"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Stats summarizes the engine state.
type Stats struct {
	Resident int    `json:"resident"`
	Bytes    int64  `json:"bytes"`
	Frames   uint64 `json:"frames"`
	Stops    uint64 `json:"stops"`
	Failures uint64 `json:"failures"`
}

// Engine reads cooked files from object storage into an in-process table
// and drives a fixed rate frame clock. It implements every backend the
// resource manager needs.
type Engine struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	cfg    Config
	sem    *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	resident map[string]Resident
	frames   []*future.Promise[struct{}]
	stats    Stats
	closed   bool
}

// New creates an engine and starts its frame clock. Close stops it.
func New(client storage.Client, bucket string, cfg Config, logger *zap.Logger) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		client:   client,
		bucket:   bucket,
		logger:   logger,
		cfg:      cfg,
		sem:      semaphore.NewWeighted(cfg.maxConcurrentIO()),
		ctx:      ctx,
		cancel:   cancel,
		resident: make(map[string]Resident),
	}

	e.wg.Add(1)
	go e.clock()
	return e
}

// Backends returns the engine as the resource manager's backends.
func (e *Engine) Backends() resource.Backends {
	return resource.Backends{
		SoundBanks:      e,
		Media:           e,
		ExternalSources: e,
		Engine:          e,
	}
}

func (e *Engine) clock() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.frameInterval())
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) tick() {
	e.mu.Lock()
	e.stats.Frames++
	waiting := e.frames
	e.frames = nil
	e.mu.Unlock()

	for _, p := range waiting {
		p.Resolve(struct{}{})
	}
}

// NextFrame resolves once the next frame has been processed. After Close it
// resolves immediately.
func (e *Engine) NextFrame() *future.Future[struct{}] {
	p := future.NewPromise[struct{}]()
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		p.Resolve(struct{}{})
		return p.Future()
	}
	e.frames = append(e.frames, p)
	e.mu.Unlock()
	return p.Future()
}

// StopAll stops every playing voice.
func (e *Engine) StopAll() {
	e.mu.Lock()
	e.stats.Stops++
	e.mu.Unlock()
	e.logger.Info("All voices stopped")
}

// Close stops the frame clock, fails pending reads and waits for them.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	waiting := e.frames
	e.frames = nil
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
	for _, p := range waiting {
		p.Resolve(struct{}{})
	}
}

// Resident lists the files currently held, ordered by key.
func (e *Engine) Resident() []Resident {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Resident, 0, len(e.resident))
	for _, r := range e.resident {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// IsResident reports whether the file at key is held.
func (e *Engine) IsResident(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.resident[key]
	return ok
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.Resident = len(e.resident)
	s.Bytes = 0
	for _, r := range e.resident {
		s.Bytes += r.Size
	}
	return s
}

// ObjectKey is the storage key of file under basePath.
func ObjectKey(basePath, file string) string {
	return path.Join(basePath, file)
}

// load reads the object in the background and registers it on success.
func (e *Engine) load(kind cooked.Kind, id cooked.ShortID, name, key string) *future.Future[bool] {
	p := future.NewPromise[bool]()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.logger.Warn("Load after close", zap.String("key", key))
		p.Resolve(false)
		return p.Future()
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()

		size, err := e.read(key)
		if err != nil {
			e.mu.Lock()
			e.stats.Failures++
			e.mu.Unlock()
			e.logger.Error("Failed to load file",
				zap.String("kind", kind.String()),
				zap.Uint32("id", uint32(id)),
				zap.String("key", key),
				zap.Error(err))
			p.Resolve(false)
			return
		}

		e.mu.Lock()
		e.resident[key] = Resident{
			Kind:     kind.String(),
			ID:       uint32(id),
			Name:     name,
			Key:      key,
			Size:     size,
			LoadedAt: time.Now(),
		}
		e.mu.Unlock()
		e.logger.Debug("File loaded", zap.String("key", key), zap.Int64("size", size))
		p.Resolve(true)
	}()

	return p.Future()
}

func (e *Engine) read(key string) (int64, error) {
	if err := e.sem.Acquire(e.ctx, 1); err != nil {
		return 0, ErrClosed
	}
	defer e.sem.Release(1)

	ctx, cancel := context.WithTimeout(e.ctx, e.cfg.timeout())
	defer cancel()

	info, err := e.client.StatObject(ctx, e.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return 0, fmt.Errorf("object %s does not exist: %w", key, err)
		}
		return 0, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	obj, err := e.client.GetObject(ctx, e.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer obj.Close()

	n, err := io.Copy(io.Discard, obj)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if info.Size > 0 && n != info.Size {
		return 0, fmt.Errorf("short read of %s: %d of %d bytes", key, n, info.Size)
	}
	return n, nil
}

func (e *Engine) unload(key string) *future.Future[struct{}] {
	e.mu.Lock()
	_, ok := e.resident[key]
	delete(e.resident, key)
	e.mu.Unlock()

	if ok {
		e.logger.Debug("File unloaded", zap.String("key", key))
	}
	return future.Resolved(struct{}{})
}

// LoadSoundBank implements resource.SoundBankIO.
func (e *Engine) LoadSoundBank(bank *cooked.SoundBank, basePath string) *future.Future[bool] {
	return e.load(cooked.KindSoundBank, bank.ID, bank.DebugName, ObjectKey(basePath, bank.Path))
}

// UnloadSoundBank implements resource.SoundBankIO.
func (e *Engine) UnloadSoundBank(bank *cooked.SoundBank, basePath string) *future.Future[struct{}] {
	return e.unload(ObjectKey(basePath, bank.Path))
}

// LoadMedia implements resource.MediaIO.
func (e *Engine) LoadMedia(media *cooked.Media, basePath string) *future.Future[bool] {
	return e.load(cooked.KindMedia, media.ID, media.DebugName, ObjectKey(basePath, media.Path))
}

// UnloadMedia implements resource.MediaIO.
func (e *Engine) UnloadMedia(media *cooked.Media, basePath string) *future.Future[struct{}] {
	return e.unload(ObjectKey(basePath, media.Path))
}

// LoadExternalSource implements resource.ExternalSourceIO.
func (e *Engine) LoadExternalSource(source *cooked.ExternalSource, basePath string) *future.Future[bool] {
	return e.load(cooked.KindExternalSource, source.Cookie, source.DebugName, ObjectKey(basePath, source.Path))
}

// UnloadExternalSource implements resource.ExternalSourceIO.
func (e *Engine) UnloadExternalSource(source *cooked.ExternalSource, basePath string) *future.Future[struct{}] {
	return e.unload(ObjectKey(basePath, source.Path))
}
