package richtext

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bluesky-social/indigo/xrpc"
	"github.com/golang/groupcache/lru"

	"github.com/riverfjs/richtext-go/internal/identity"
	"github.com/riverfjs/richtext-go/internal/types"
)

var (
	// ErrHandleNotFound marks a handle that does not resolve. Resolvers
	// should wrap it; Finalize skips such mentions instead of failing.
	ErrHandleNotFound = types.ErrHandleNotFound

	// ErrNoResolver is returned by Finalize when the text has mentions but
	// no resolver was given.
	ErrNoResolver = types.ErrNoResolver
)

// XRPCError is a failed call reported by an XRPC server. Its Wrapped error
// holds the decoded *xrpc.XRPCError body when there was one.
type XRPCError = xrpc.Error

// Resolver resolves a handle to a stable identifier (a DID).
type Resolver interface {
	ResolveHandle(ctx context.Context, handle string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, handle string) (string, error)

// ResolveHandle calls f.
func (f ResolverFunc) ResolveHandle(ctx context.Context, handle string) (string, error) {
	return f(ctx, handle)
}

// StaticResolver resolves handles from a fixed table. Lookups ignore case.
type StaticResolver map[string]string

// ResolveHandle implements Resolver.
func (s StaticResolver) ResolveHandle(_ context.Context, handle string) (string, error) {
	if did, ok := s[strings.ToLower(handle)]; ok {
		return did, nil
	}
	for h, did := range s {
		if strings.EqualFold(h, handle) {
			return did, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrHandleNotFound, handle)
}

// NewXRPCResolver resolves handles through com.atproto.identity.resolveHandle
// on serviceURL. An empty serviceURL uses the public AppView.
//
// InvalidRequest answers and 404s are reported as ErrHandleNotFound.
func NewXRPCResolver(serviceURL string, timeout time.Duration) Resolver {
	return identity.NewResolver(serviceURL, timeout)
}

// NewResolverFromConfig builds the XRPC resolver described by cfg, wrapped
// in a cache when cache_size is positive.
func NewResolverFromConfig(cfg *Config) Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	r := NewXRPCResolver(cfg.Resolver.ServiceURL, cfg.Resolver.Timeout)
	if cfg.Resolver.CacheSize > 0 {
		return NewCachingResolver(r, cfg.Resolver.CacheSize)
	}
	return r
}

// CachingResolver remembers successful resolutions in a bounded LRU.
// Failures, including unknown handles, are never cached.
// It is safe for concurrent use.
type CachingResolver struct {
	next Resolver

	mu    sync.Mutex
	cache *lru.Cache
}

// NewCachingResolver wraps next with an LRU of at most size entries.
func NewCachingResolver(next Resolver, size int) *CachingResolver {
	return &CachingResolver{
		next:  next,
		cache: lru.New(size),
	}
}

// ResolveHandle implements Resolver.
func (c *CachingResolver) ResolveHandle(ctx context.Context, handle string) (string, error) {
	key := strings.ToLower(handle)

	c.mu.Lock()
	v, ok := c.cache.Get(key)
	c.mu.Unlock()
	if ok {
		return v.(string), nil
	}

	did, err := c.next.ResolveHandle(ctx, handle)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.cache.Add(key, did)
	c.mu.Unlock()
	return did, nil
}

// Len returns the number of cached handles.
func (c *CachingResolver) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}
