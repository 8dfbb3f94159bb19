package booking

import (
	"context"
	"sync"
	"time"

	"sokoni/models"
)

// SlotPicker guards one customer's slot view against out-of-order results. Each
// Select supersedes the previous one: the older query is cancelled and its result
// is discarded with ErrStaleSelection.
type SlotPicker struct {
	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	lastUsed time.Time
}

type SlotQuery func(ctx context.Context) (*models.SlotsResponse, error)

func (p *SlotPicker) Select(ctx context.Context, query SlotQuery) (*models.SlotsResponse, error) {
	p.mu.Lock()
	p.gen++
	mine := p.gen
	if p.cancel != nil {
		p.cancel()
	}
	qctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.lastUsed = time.Now()
	p.mu.Unlock()

	resp, err := query(qctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != mine {
		return nil, ErrStaleSelection
	}
	cancel()
	p.cancel = nil
	return resp, err
}

// Generation is the number of selections made so far.
func (p *SlotPicker) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

func (p *SlotPicker) idleSince(t time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel == nil && p.lastUsed.Before(t)
}

// PickerRegistry holds one SlotPicker per (session, provider, service).
type PickerRegistry struct {
	mu      sync.Mutex
	pickers map[string]*SlotPicker
	ttl     time.Duration
}

func NewPickerRegistry(ttl time.Duration) *PickerRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &PickerRegistry{pickers: make(map[string]*SlotPicker), ttl: ttl}
}

func PickerKey(sessionID, providerID, serviceID string) string {
	return sessionID + "|" + providerID + "|" + serviceID
}

// Picker returns the picker for key, creating it on first use.
func (r *PickerRegistry) Picker(key string) *SlotPicker {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pickers[key]
	if !ok {
		p = &SlotPicker{lastUsed: time.Now()}
		r.pickers[key] = p
	}
	return p
}

// Sweep drops pickers that have been idle longer than the registry TTL.
func (r *PickerRegistry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for k, p := range r.pickers {
		if p.idleSince(cutoff) {
			delete(r.pickers, k)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is done.
func (r *PickerRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// Len is the number of live pickers.
func (r *PickerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pickers)
}
