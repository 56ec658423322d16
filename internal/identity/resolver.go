// Package identity resolves handles to DIDs over XRPC.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/xrpc"

	"github.com/riverfjs/richtext-go/internal/types"
)

// DefaultHost serves unauthenticated identity queries.
const DefaultHost = "https://public.api.bsky.app"

const userAgent = "richtext-go"

// Resolver calls com.atproto.identity.resolveHandle on a single host.
type Resolver struct {
	Client *xrpc.Client
}

// NewResolver creates a resolver for host. An empty host uses DefaultHost and
// a non-positive timeout leaves the HTTP client without a deadline.
func NewResolver(host string, timeout time.Duration) *Resolver {
	if host == "" {
		host = DefaultHost
	}
	hc := &http.Client{}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	ua := userAgent
	return &Resolver{
		Client: &xrpc.Client{
			Client:    hc,
			Host:      strings.TrimRight(host, "/"),
			UserAgent: &ua,
		},
	}
}

// ResolveHandle resolves a handle to its DID.
//
// Answers that mean the handle does not exist are reported as
// types.ErrHandleNotFound; every other failure is returned as is.
func (r *Resolver) ResolveHandle(ctx context.Context, handle string) (string, error) {
	out, err := atproto.IdentityResolveHandle(ctx, r.Client, handle)
	if err != nil {
		if IsNotFound(err) {
			return "", fmt.Errorf("%w: %s: %v", types.ErrHandleNotFound, handle, err)
		}
		return "", err
	}
	if !strings.HasPrefix(out.Did, "did:") {
		return "", fmt.Errorf("identity: resolveHandle returned malformed did %q", out.Did)
	}
	return out.Did, nil
}

// IsNotFound reports whether err is an XRPC answer meaning the handle does not
// resolve: an InvalidRequest error body with any status, or a 404.
func IsNotFound(err error) bool {
	var xe *xrpc.Error
	if !errors.As(err, &xe) {
		return false
	}
	if xe.StatusCode == http.StatusNotFound {
		return true
	}
	var body *xrpc.XRPCError
	return errors.As(xe.Wrapped, &body) && body.ErrStr == "InvalidRequest"
}
