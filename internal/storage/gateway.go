package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"reviewapi/internal/model"
)

var (
	// ErrEmptyUpload is returned when an upload carries no content.
	ErrEmptyUpload = errors.New("empty upload")
	// ErrInvalidRef is returned when a media reference cannot be resolved to an object key.
	ErrInvalidRef = errors.New("invalid media reference")
)

// Gateway uploads and releases media objects and hands out opaque references
// that only the gateway itself knows how to resolve.
type Gateway interface {
	// Upload stores u and returns its media reference.
	Upload(ctx context.Context, u model.Upload) (string, error)
	// Release deletes the object behind ref. Releasing an object that no longer
	// exists is not an error.
	Release(ctx context.Context, ref string) error
}

// GatewayOptions configure a media gateway.
type GatewayOptions struct {
	// PublicURL is the base URL references are built from, e.g. http://minio:9000/media.
	PublicURL string
	// Prefix is prepended to every object key.
	Prefix string
	// Timeout bounds every call to the object store; zero means no extra bound.
	Timeout time.Duration
}

type mediaGateway struct {
	store ObjectStore
	base  string
	opts  GatewayOptions
	ops   *prometheus.CounterVec
}

// NewGateway builds a Gateway over store and registers its metrics on reg.
func NewGateway(store ObjectStore, opts GatewayOptions, reg prometheus.Registerer) (Gateway, error) {
	ops := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_operations_total",
			Help: "Media store operations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	if err := reg.Register(ops); err != nil {
		return nil, err
	}
	return &mediaGateway{
		store: store,
		base:  strings.TrimRight(opts.PublicURL, "/"),
		opts:  opts,
		ops:   ops,
	}, nil
}

func (g *mediaGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.opts.Timeout)
}

// Upload streams u to the object store under <prefix>/<uuid><ext>.
func (g *mediaGateway) Upload(ctx context.Context, u model.Upload) (string, error) {
	if u.Empty() {
		g.ops.WithLabelValues("upload", "rejected").Inc()
		return "", ErrEmptyUpload
	}

	key := path.Join(g.opts.Prefix, uuid.NewString()+strings.ToLower(path.Ext(u.Filename)))
	contentType := u.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	info, err := g.store.PutObject(ctx, key, u.Body, PutOptions{
		Size:        u.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": u.Filename,
		},
	})
	if err != nil {
		g.ops.WithLabelValues("upload", "error").Inc()
		return "", fmt.Errorf("upload %s: %w", u.Filename, err)
	}

	g.ops.WithLabelValues("upload", "ok").Inc()
	return g.base + "/" + info.Key, nil
}

// Release removes the object behind ref.
func (g *mediaGateway) Release(ctx context.Context, ref string) error {
	key, err := g.keyOf(ref)
	if err != nil {
		g.ops.WithLabelValues("release", "rejected").Inc()
		return err
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	if err := g.store.RemoveObject(ctx, key); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			g.ops.WithLabelValues("release", "missing").Inc()
			return nil
		}
		g.ops.WithLabelValues("release", "error").Inc()
		return fmt.Errorf("release %s: %w", key, err)
	}

	g.ops.WithLabelValues("release", "ok").Inc()
	return nil
}

// keyOf resolves a reference back to its object key. References minted by this
// gateway carry the public base URL; foreign URLs fall back to their path from the
// key prefix onwards, and anything else is taken as a bare key.
func (g *mediaGateway) keyOf(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrInvalidRef
	}
	if g.base != "" && strings.HasPrefix(ref, g.base+"/") {
		return g.nonEmpty(strings.TrimPrefix(ref, g.base+"/"))
	}
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		p := strings.TrimPrefix(u.Path, "/")
		if g.opts.Prefix != "" {
			if i := strings.Index(p, g.opts.Prefix+"/"); i >= 0 {
				return g.nonEmpty(p[i:])
			}
		}
		return g.nonEmpty(p)
	}
	return g.nonEmpty(strings.TrimPrefix(ref, "/"))
}

func (g *mediaGateway) nonEmpty(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidRef
	}
	return key, nil
}
