package highlight

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/quill/internal/annotation"
	"github.com/zjrosen/quill/internal/cachemanager"
	"github.com/zjrosen/quill/internal/log"
	"github.com/zjrosen/quill/internal/tracing"
)

// DefaultOwner tags annotations produced by a Highlighter unless WithOwner
// overrides it.
const DefaultOwner annotation.Owner = "highlight"

// Options select which optional patterns a registry contains and the colors
// they use.
type Options struct {
	Palette        Palette
	TabSize        int
	HexColors      bool
	LineEnding     bool
	BiggerHeadings bool
	MonospaceCode  bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Palette:        DarkPalette(),
		TabSize:        4,
		HexColors:      true,
		BiggerHeadings: true,
		MonospaceCode:  true,
	}
}

// RegistryFor returns the ordered patterns of dialect d. Dialect patterns
// come first and the general patterns (tabs, hex colors, URLs) last.
func RegistryFor(d Dialect, opts Options) Registry {
	var patterns []Pattern
	switch d {
	case Markdown:
		patterns = markdownPatterns(opts)
	case TodoTxt:
		patterns = todoTxtPatterns(opts)
	case KeyValue:
		patterns = keyValuePatterns(opts)
	case CSV:
		patterns = csvPatterns(opts)
	case Orgmode:
		patterns = orgmodePatterns(opts)
	}
	return NewRegistry(patterns...).Append(generalPatterns(opts)...)
}

// Target is a text buffer a pass annotates.
type Target interface {
	ID() string
	Text() string
	Annotations() *annotation.Set
}

// Fingerprint identifies a cached pass result: owner, dialect, options and
// buffer contents.
type Fingerprint string

// PassCache stores the annotations of previous passes by fingerprint.
type PassCache = cachemanager.CacheManager[Fingerprint, []annotation.Annotation]

// NewPassCache returns an in-memory pass cache.
func NewPassCache(ttl time.Duration) *cachemanager.InMemoryCacheManager[Fingerprint, []annotation.Annotation] {
	return cachemanager.NewInMemoryCacheManager[Fingerprint, []annotation.Annotation]("highlight", ttl, cachemanager.DefaultCleanupInterval)
}

// Result describes one pass. Err collects pattern failures and recovered
// panics; the pass itself never fails.
type Result struct {
	Annotations int
	CacheHit    bool
	Err         error
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithOwner sets the owner tag of the produced annotations.
func WithOwner(owner annotation.Owner) Option {
	return func(h *Highlighter) {
		h.owner = owner
	}
}

// WithTracer records a span per pass.
func WithTracer(tracer trace.Tracer) Option {
	return func(h *Highlighter) {
		h.tracer = tracer
	}
}

// WithCache reuses the annotations of an identical earlier pass.
func WithCache(cache PassCache, ttl time.Duration) Option {
	return func(h *Highlighter) {
		h.cacheManager = cache
		h.cacheTTL = ttl
	}
}

// WithRegistry replaces the dialect's default registry.
func WithRegistry(r Registry) Option {
	return func(h *Highlighter) {
		h.registry = r
	}
}

// Highlighter runs the patterns of one dialect over a buffer.
type Highlighter struct {
	dialect  Dialect
	owner    annotation.Owner
	registry Registry
	variant  uint64

	tracer trace.Tracer

	cacheManager PassCache
	cacheTTL     time.Duration
	cache        *cachemanager.ReadThroughCache[Fingerprint, []annotation.Annotation, passInput]
}

// passInput carries what a cache miss needs to run the patterns.
type passInput struct {
	text string
	span trace.Span
	emit func([]annotation.Annotation)
}

// New creates a Highlighter for dialect d.
func New(d Dialect, opts Options, options ...Option) *Highlighter {
	h := &Highlighter{
		dialect:  d,
		owner:    DefaultOwner,
		registry: RegistryFor(d, opts),
		variant:  xxhash.Sum64String(fmt.Sprintf("%+v", opts)),
		tracer:   noop.NewTracerProvider().Tracer("quill"),
	}
	for _, opt := range options {
		opt(h)
	}
	if h.cacheManager != nil {
		h.cache = cachemanager.NewReadThroughCache(h.cacheManager, h.scan, false)
	}
	return h
}

// Dialect returns the dialect the highlighter was built for.
func (h *Highlighter) Dialect() Dialect {
	return h.dialect
}

// Owner returns the owner tag of the produced annotations.
func (h *Highlighter) Owner() annotation.Owner {
	return h.owner
}

// Registry returns the patterns in pass order.
func (h *Highlighter) Registry() Registry {
	return h.registry
}

// Highlight clears the annotations this highlighter owns on t and adds
// fresh ones. Annotations from other owners are left alone.
//
// A pattern that fails (for example by hitting the match timeout) is logged
// and skipped. A panic inside a pattern ends the pass early; annotations of
// the patterns that completed before it are kept.
func (h *Highlighter) Highlight(ctx context.Context, t Target) (res Result) {
	set := t.Annotations()
	set.ClearOwner(h.owner)

	text := t.Text()
	if text == "" {
		return res
	}

	ctx, span := tracing.StartPass(ctx, h.tracer, string(h.dialect), t.ID(), utf8.RuneCountInString(text))
	defer func() {
		if r := recover(); r != nil {
			res.Err = errors.Join(res.Err, fmt.Errorf("highlight pass: panic: %v", r))
			log.Warn(log.CatHighlight, "Highlight pass recovered", "dialect", h.dialect, "buffer", t.ID(), "panic", r)
		}
		tracing.EndPass(span, res.Annotations, res.CacheHit, res.Err)
	}()

	computed := false
	emit := func(anns []annotation.Annotation) {
		computed = true
		set.Add(anns...)
		res.Annotations += len(anns)
	}

	if h.cache == nil {
		res.Err = h.run(span, text, emit)
		return res
	}

	cached, err := h.cache.Get(ctx, h.fingerprint(text), passInput{text: text, span: span, emit: emit}, h.cacheTTL)
	res.Err = err
	if !computed {
		res.CacheHit = true
		set.Add(cached...)
		res.Annotations = len(cached)
	}
	return res
}

func (h *Highlighter) fingerprint(text string) Fingerprint {
	return Fingerprint(fmt.Sprintf("%s:%s:%016x:%016x", h.owner, h.dialect, h.variant, xxhash.Sum64String(text)))
}

// scan is the read-through function of the pass cache.
func (h *Highlighter) scan(_ context.Context, in passInput) ([]annotation.Annotation, error) {
	var all []annotation.Annotation
	err := h.run(in.span, in.text, func(anns []annotation.Annotation) {
		in.emit(anns)
		all = append(all, anns...)
	})
	return all, err
}

// run applies every pattern in order, handing each pattern's annotations to
// emit as soon as the pattern completes.
func (h *Highlighter) run(span trace.Span, text string, emit func([]annotation.Annotation)) error {
	var errs []error
	for _, p := range h.registry.Patterns() {
		spans, err := p.Scan(text)
		if err != nil {
			errs = append(errs, err)
			tracing.PatternFailed(span, p.Name, err)
			log.Warn(log.CatHighlight, "Pattern failed", "dialect", h.dialect, "pattern", p.Name, "error", err)
		}
		anns := make([]annotation.Annotation, 0, len(spans))
		for _, s := range spans {
			anns = append(anns, annotation.Annotation{
				Start:      s.Start,
				End:        s.End,
				Decoration: s.Decoration,
				Owner:      h.owner,
			})
		}
		emit(anns)
	}
	return errors.Join(errs...)
}
