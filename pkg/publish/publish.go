// Package publish validates artifacts and records them: canonical bytes go
// to the artifact store and a receipt goes to the catalog.
package publish

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/artifact"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/artifactstore"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/canonicalize"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/catalog"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/registry"
)

const tracerName = "segaudit/publish"

// Span attribute keys.
const (
	AttrKind          = attribute.Key("segaudit.artifact.kind")
	AttrSchemaVersion = attribute.Key("segaudit.artifact.schema_version")
	AttrBlobHash      = attribute.Key("segaudit.artifact.blob_hash")
	AttrSource        = attribute.Key("segaudit.artifact.source")
)

// Publisher wires a Store and a Catalog together.
type Publisher struct {
	store   artifactstore.Store
	catalog *catalog.Catalog
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithTracerProvider takes spans from tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Publisher) { p.tracer = tp.Tracer(tracerName) }
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) { p.logger = l.With("component", "publish") }
}

// New returns a Publisher. Spans go to the global tracer provider unless
// WithTracerProvider says otherwise.
func New(store artifactstore.Store, cat *catalog.Catalog, opts ...Option) *Publisher {
	p := &Publisher{
		store:   store,
		catalog: cat,
		tracer:  otel.Tracer(tracerName),
		logger:  slog.Default().With("component", "publish"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish validates payload as kind, stores its canonical bytes and records
// a receipt. source is free text, usually the originating file path.
// Contract failures are returned unchanged as *contract.Violation.
func (p *Publisher) Publish(ctx context.Context, kind string, payload jsonvalue.Value, source string) (catalog.Entry, error) {
	ctx, span := p.tracer.Start(ctx, "publish.Publish",
		trace.WithAttributes(AttrKind.String(kind), AttrSource.String(source)))
	defer span.End()

	a, err := registry.Decode(payload, kind)
	if err != nil {
		return catalog.Entry{}, fail(span, err)
	}
	span.SetAttributes(AttrSchemaVersion.String(a.SchemaVersion().String()))

	digest, err := artifact.Digest(a)
	if err != nil {
		return catalog.Entry{}, fail(span, fmt.Errorf("publish: digest: %w", err))
	}
	blob, err := p.store.Put(ctx, a.CanonicalJSON())
	if err != nil {
		return catalog.Entry{}, fail(span, fmt.Errorf("publish: store: %w", err))
	}
	span.SetAttributes(AttrBlobHash.String(blob))

	entry, err := p.catalog.Record(ctx, catalog.Entry{
		Kind:          a.Kind().String(),
		SchemaVersion: a.SchemaVersion().String(),
		BlobHash:      blob,
		ContentDigest: digest,
		Source:        source,
	})
	if err != nil {
		return catalog.Entry{}, fail(span, fmt.Errorf("publish: catalog: %w", err))
	}

	p.logger.InfoContext(ctx, "artifact published",
		"kind", entry.Kind, "blob_hash", entry.BlobHash, "receipt_id", entry.ReceiptID)
	return entry, nil
}

// PublishFile reads path and publishes it as kind, recording path as the
// source.
func (p *Publisher) PublishFile(ctx context.Context, path, kind string) (catalog.Entry, error) {
	payload, err := registry.ReadFile(path)
	if err != nil {
		return catalog.Entry{}, err
	}
	return p.Publish(ctx, kind, payload, path)
}

// Fetch loads a published artifact by blob hash, checks its bytes against
// the hash and decodes it again as the recorded kind.
func (p *Publisher) Fetch(ctx context.Context, blobHash string) (artifact.Artifact, catalog.Entry, error) {
	ctx, span := p.tracer.Start(ctx, "publish.Fetch",
		trace.WithAttributes(AttrBlobHash.String(blobHash)))
	defer span.End()

	entry, err := p.catalog.Lookup(ctx, blobHash)
	if err != nil {
		return nil, catalog.Entry{}, fail(span, fmt.Errorf("publish: %w", err))
	}
	span.SetAttributes(AttrKind.String(entry.Kind))

	data, err := p.store.Get(ctx, blobHash)
	if err != nil {
		return nil, entry, fail(span, fmt.Errorf("publish: load blob: %w", err))
	}
	if got := canonicalize.HashBytes(data); got != blobHash {
		return nil, entry, fail(span, fmt.Errorf("publish: blob %s is corrupt: content hashes to %s", blobHash, got))
	}

	v, err := jsonvalue.Parse(data)
	if err != nil {
		return nil, entry, fail(span, fmt.Errorf("publish: parse blob %s: %w", blobHash, err))
	}
	a, err := registry.Decode(v, entry.Kind)
	if err != nil {
		return nil, entry, fail(span, err)
	}
	return a, entry, nil
}

// List returns catalog receipts newest first; see catalog.Catalog.List.
func (p *Publisher) List(ctx context.Context, kind string, limit int) ([]catalog.Entry, error) {
	return p.catalog.List(ctx, kind, limit)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
