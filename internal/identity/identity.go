package identity

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/zapdash/tap-rewards/internal/storage"
)

// storageKey holds the visitor token inside the visitor's namespace.
const storageKey = "user_id"

// Identity is the stable opaque token for one visitor. Created once, then
// loaded forever; the app never regenerates or deletes it.
type Identity struct {
	ID string
}

// Provider loads or creates the visitor identity. Call GetOrCreate once at
// session start; the result is cached so repeat calls skip storage entirely.
type Provider struct {
	kv     storage.KV
	log    *slog.Logger
	now    func() time.Time
	cached *Identity
}

// NewProvider creates a Provider backed by kv. A nil now means time.Now.
func NewProvider(kv storage.KV, log *slog.Logger, now func() time.Time) *Provider {
	if now == nil {
		now = time.Now
	}
	return &Provider{
		kv:  kv,
		log: log,
		now: now,
	}
}

// GetOrCreate returns the stored identity, synthesizing and persisting a new
// one on first run. A failing store degrades to a session-only identity
// rather than an error: the visitor still gets a working session, it just
// won't survive a restart.
func (p *Provider) GetOrCreate() Identity {
	if p.cached != nil {
		return *p.cached
	}

	if stored, err := p.kv.Get(storageKey); err == nil && stored != "" {
		p.cached = &Identity{ID: stored}
		return *p.cached
	}

	id := Identity{ID: fmt.Sprintf("user_%d", p.now().UnixMilli())}
	if err := p.kv.Set(storageKey, id.ID); err != nil {
		p.log.Warn("persist identity, continuing session-only", "error", err)
	}

	p.cached = &id
	return id
}

// ReferralLink builds the shareable link for an identity. Pure: same identity,
// same link. The token carries no secret, it is a sharing convenience only.
func ReferralLink(origin string, id Identity) string {
	return fmt.Sprintf("%s?referral=%s", origin, id.ID)
}
