package resources

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"audio-loader/core/cooked"
	"audio-loader/core/future"
	"audio-loader/core/resource"
	"audio-loader/feature/soundengine"

	"go.uber.org/zap"
)

var (
	// ErrNotLoaded is returned when unloading something the service does not hold.
	ErrNotLoaded = errors.New("resource is not loaded")
	// ErrUnknownLanguage is returned for languages the init bank does not declare.
	ErrUnknownLanguage = errors.New("language not declared by the init bank")
)

// Source supplies cooked records.
type Source interface {
	Record(ctx context.Context, kind cooked.Kind, id cooked.ShortID) (cooked.Record, error)
	InitBank(ctx context.Context) (*cooked.InitBank, error)
}

// EngineStats reports the state of the physical side.
type EngineStats interface {
	Stats() soundengine.Stats
}

// Stats combines manager and engine counters.
type Stats struct {
	resource.Stats
	Engine *soundengine.Stats `json:"engine,omitempty"`
	Held   int                `json:"held"`
}

type key struct {
	kind cooked.Kind
	id   cooked.ShortID
}

func (k key) String() string {
	return fmt.Sprintf("%s:%d", k.kind, k.id)
}

// Service loads catalog records on request and keeps one handle per record.
type Service struct {
	manager *resource.Manager
	source  Source
	engine  EngineStats
	policy  resource.LanguagePolicy
	logger  *zap.Logger

	mu    sync.Mutex
	slots map[key]*resource.Slot[cooked.Record]
}

// NewService creates a new resources service. engine may be nil.
func NewService(manager *resource.Manager, source Source, engine EngineStats, policy resource.LanguagePolicy, logger *zap.Logger) *Service {
	return &Service{
		manager: manager,
		source:  source,
		engine:  engine,
		policy:  policy,
		logger:  logger,
		slots:   make(map[key]*resource.Slot[cooked.Record]),
	}
}

func (s *Service) slot(k key) *resource.Slot[cooked.Record] {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[k]
	if !ok {
		sl = resource.NewSlot[cooked.Record](s.manager)
		s.slots[k] = sl
	}
	return sl
}

// Language looks up a cooked language by name.
func (s *Service) Language(ctx context.Context, name string) (cooked.Language, error) {
	if name == "" || name == cooked.SFX.Name {
		return cooked.SFX, nil
	}
	bank, err := s.source.InitBank(ctx)
	if err != nil {
		return cooked.Language{}, err
	}
	lang, ok := bank.FindLanguage(name)
	if !ok {
		return cooked.Language{}, fmt.Errorf("%q: %w", name, ErrUnknownLanguage)
	}
	return lang, nil
}

// Load loads the record kind/id, optionally pinned to language. Loading a
// record that is already held replaces the held handle.
func (s *Service) Load(ctx context.Context, kind cooked.Kind, id cooked.ShortID, language string) (*resource.RecordHandle, error) {
	rec, err := s.source.Record(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	var override *cooked.Language
	if language != "" {
		lang, err := s.Language(ctx, language)
		if err != nil {
			return nil, err
		}
		override = &lang
	}

	h, err := s.manager.LoadRecordSync(ctx, rec, override)
	if err != nil {
		return nil, err
	}

	k := key{kind, rec.ShortID()}
	if _, err := s.slot(k).Replace(future.Resolved(h)).Wait(ctx, s.manager.Done()); err != nil {
		return nil, err
	}
	s.logger.Info("Resource loaded", zap.Stringer("resource", k), zap.String("slot", h.Slot().String()))
	return h, nil
}

// Unload releases the held handle of kind/id.
func (s *Service) Unload(ctx context.Context, kind cooked.Kind, id cooked.ShortID) error {
	k := key{kind, id}
	s.mu.Lock()
	sl, ok := s.slots[k]
	if ok {
		delete(s.slots, k)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s: %w", k, ErrNotLoaded)
	}

	prev, err := sl.Take().Wait(ctx, s.manager.Done())
	if err != nil {
		return err
	}
	if prev == nil {
		return fmt.Errorf("%s: %w", k, ErrNotLoaded)
	}
	if _, err := s.manager.UnloadRecord(prev).Wait(ctx, s.manager.Done()); err != nil {
		return err
	}
	s.logger.Info("Resource unloaded", zap.Stringer("resource", k))
	return nil
}

// Held lists the records the service holds a handle for.
func (s *Service) Held() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.slots))
	for k := range s.slots {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out
}

// SetLanguage switches the current language. An empty policy uses the
// configured one.
func (s *Service) SetLanguage(ctx context.Context, name, policy string) error {
	lang, err := s.Language(ctx, name)
	if err != nil {
		return err
	}
	p := s.policy
	if policy != "" {
		if p, err = resource.ParseLanguagePolicy(policy); err != nil {
			return err
		}
	}
	return s.manager.SetLanguageSync(ctx, lang, p)
}

// Snapshot lists every object attached to the manager.
func (s *Service) Snapshot(ctx context.Context) ([]resource.NodeInfo, error) {
	return s.manager.SnapshotSync(ctx)
}

// Stats returns manager and engine counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	ms, err := s.manager.StatsSync(ctx)
	if err != nil {
		return Stats{}, err
	}
	out := Stats{Stats: ms, Held: len(s.Held())}
	if s.engine != nil {
		es := s.engine.Stats()
		out.Engine = &es
	}
	return out, nil
}

// LoadInitBank loads the project's init bank. It has to be loaded before
// any other bank.
func (s *Service) LoadInitBank(ctx context.Context) error {
	_, err := s.Load(ctx, cooked.KindInitBank, 0, "")
	return err
}

// UnloadAll releases every held handle.
func (s *Service) UnloadAll(ctx context.Context) error {
	s.mu.Lock()
	keys := make([]key, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	// The init bank goes last.
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].kind != cooked.KindInitBank && keys[j].kind == cooked.KindInitBank
	})

	var errs []error
	for _, k := range keys {
		if err := s.Unload(ctx, k.kind, k.id); err != nil && !errors.Is(err, ErrNotLoaded) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
