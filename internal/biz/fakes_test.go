package biz

import (
	"context"
	"io"
	"sync"
	"time"

	"demoengine/internal/pkg/llm"

	"github.com/go-kratos/kratos/v2/log"
	goredis "github.com/redis/go-redis/v9"
)

func testLogger() log.Logger {
	return log.NewStdLogger(io.Discard)
}

// fakeBlockRepo is an in-memory BlockEntryRepo.
type fakeBlockRepo struct {
	mu      sync.Mutex
	entries map[string]*BlockEntry
	failAll bool
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{entries: make(map[string]*BlockEntry)}
}

func (r *fakeBlockRepo) Get(_ context.Context, term string) (*BlockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[term]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeBlockRepo) Upsert(_ context.Context, e *BlockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	cp.UpdatedAt = time.Now()
	if old, ok := r.entries[e.Term]; ok {
		cp.CreatedAt = old.CreatedAt
	} else {
		cp.CreatedAt = cp.UpdatedAt
	}
	r.entries[e.Term] = &cp
	return nil
}

func (r *fakeBlockRepo) Delete(_ context.Context, term string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[term]; !ok {
		return false, nil
	}
	delete(r.entries, term)
	return true, nil
}

func (r *fakeBlockRepo) ListAll(_ context.Context) ([]*BlockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*BlockEntry, 0, len(r.entries))
	for _, e := range r.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBlockRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.entries))
	r.entries = make(map[string]*BlockEntry)
	return n, nil
}

func (r *fakeBlockRepo) IncrementHit(_ context.Context, term string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[term]; ok {
		e.HitCount++
	}
	return nil
}

// fakeCache is an in-memory stand-in for the Redis cache. Bloom script calls
// report a miss, which is safe: the automaton is authoritative.
type fakeCache struct {
	mu   sync.Mutex
	ints map[string]int64
	strs map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{ints: make(map[string]int64), strs: make(map[string]string)}
}

func (c *fakeCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strs[key] = value
	return nil
}

func (c *fakeCache) GetString(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.strs[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (c *fakeCache) SetInt64(_ context.Context, key string, value int64, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ints[key] = value
	return nil
}

func (c *fakeCache) GetInt64(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.ints[key]
	if !ok {
		return 0, goredis.Nil
	}
	return v, nil
}

func (c *fakeCache) IncrBy(_ context.Context, key string, delta int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ints[key] += delta
	return c.ints[key], nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, si := c.strs[key]
	_, ii := c.ints[key]
	return si || ii, nil
}

func (c *fakeCache) ScriptRun(_ context.Context, _ *goredis.Script, _ []string, _ ...any) (any, error) {
	return int64(0), nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.ints[k]; ok {
			delete(c.ints, k)
			n++
		}
		if _, ok := c.strs[k]; ok {
			delete(c.strs, k)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) Expire(_ context.Context, _ string, _ int) (bool, error) {
	return true, nil
}

// fakeJudge is a scripted ModerationJudge.
type fakeJudge struct {
	mu       sync.Mutex
	judgment *llm.Judgment
	err      error
	calls    int
}

func (j *fakeJudge) Judge(_ context.Context, _ string) (*llm.Judgment, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls++
	if j.err != nil {
		return nil, j.err
	}
	return j.judgment, nil
}

func (j *fakeJudge) callCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.calls
}

// fakeDemoRepo is an in-memory DemoRepo.
type fakeDemoRepo struct {
	mu             sync.Mutex
	demos          []*Demo
	err            error
	byCategoryHits int
}

func (r *fakeDemoRepo) Create(_ context.Context, d *Demo) (*Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	cp := *d
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.demos = append(r.demos, &cp)
	return &cp, nil
}

func (r *fakeDemoRepo) FindByID(_ context.Context, id string) (*Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.demos {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrDemoNotFound
}

func (r *fakeDemoRepo) ListActive(_ context.Context) ([]*Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*Demo, 0, len(r.demos))
	for _, d := range r.demos {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDemoRepo) ListActiveByCategory(_ context.Context, category string) ([]*Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.byCategoryHits++
	out := make([]*Demo, 0, len(r.demos))
	for _, d := range r.demos {
		if d.IsActive && d.CategorySlug == category {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDemoRepo) Random(_ context.Context, category string) (*Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.demos {
		if d.IsActive && (category == "" || d.CategorySlug == category) {
			return d, nil
		}
	}
	return nil, ErrDemoNotFound
}

func (r *fakeDemoRepo) ListVideosByCategory(_ context.Context, category string) ([]*Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Demo, 0)
	for _, d := range r.demos {
		if d.IsActive && d.CategorySlug == category && d.VideoURL != "" {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDemoRepo) CountVideosByCategory(ctx context.Context, category string) (int64, error) {
	demos, err := r.ListVideosByCategory(ctx, category)
	return int64(len(demos)), err
}

func (r *fakeDemoRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.demos {
		if d.ID == id {
			d.IsActive = false
		}
	}
	return nil
}

func (r *fakeDemoRepo) DeactivateOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, d := range r.demos {
		expired := d.ExpiresAt != nil && d.ExpiresAt.Before(time.Now())
		if d.IsActive && (d.CreatedAt.Before(cutoff) || expired) {
			d.IsActive = false
			n++
		}
	}
	return n, nil
}

// fakeImageGen counts calls and returns a fixed URL.
type fakeImageGen struct {
	mu    sync.Mutex
	calls int
	url   string
	err   error
}

func (g *fakeImageGen) GenerateImageAndWait(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.url, g.err
}

func (g *fakeImageGen) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeAnimator struct {
	calls int
	url   string
	err   error
}

func (a *fakeAnimator) GenerateAndWait(_ context.Context, _, _ string, _ int) (string, error) {
	a.calls++
	return a.url, a.err
}

type fakeEnhancer struct {
	calls int
	url   string
	err   error
}

func (e *fakeEnhancer) EnhanceVideoAndWait(_ context.Context, _, _, _ string) (string, error) {
	e.calls++
	return e.url, e.err
}
