// Package xbrl is a small offline XBRL 2.1 processor. It loads an instance document,
// discovers its DTS through a Resolver (schemas, imports, label linkbases), validates
// facts against the discovered concepts and exposes them with their labels.
//
// The engine never reaches the network. Remote references resolve only through a
// local mirror; anything else becomes a validation message on the model.
package xbrl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed is returned by Load after Close.
var ErrClosed = errors.New("xbrl: engine closed")

// ErrNotInstance is returned when the document root is not xbrli:xbrl.
var ErrNotInstance = errors.New("xbrl: document is not an XBRL instance")

// Options configures an Engine.
type Options struct {
	// Validate rejects facts for undeclared concepts and runs instance checks.
	Validate bool
	// Resolver defaults to a FileResolver without a mirror.
	Resolver Resolver
	Logger   *zap.Logger
}

// Engine loads instance documents. An Engine and every Model it returns must be
// released with Close. Engines are independent; use one per concurrent caller.
type Engine struct {
	opts Options

	mu     sync.Mutex
	models map[*Model]struct{}
	closed bool
}

// NewEngine creates an engine.
func NewEngine(opts Options) *Engine {
	if opts.Resolver == nil {
		opts.Resolver = NewFileResolver(nil)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{opts: opts, models: make(map[*Model]struct{})}
}

// Load reads the instance at path and its DTS. Problems inside the DTS are reported
// as validation messages on the model; only an unreadable or non-instance document,
// or a canceled context, returns an error.
func (e *Engine) Load(ctx context.Context, path string) (*Model, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path of %s: %w", path, err)
	}

	m := newModel(abs)
	l := newLoader(ctx, e.opts.Resolver, e.opts.Logger, m)
	doc, err := l.read(abs)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root.Tag != "xbrl" || elementName(root).Space != NSInstance {
		return nil, fmt.Errorf("%w: root element is %s", ErrNotInstance, root.FullTag())
	}
	m.documents = append(m.documents, abs)

	if err := l.instance(root, e.opts.Validate); err != nil {
		return nil, err
	}
	if e.opts.Validate {
		validateFacts(m)
	}

	for _, v := range m.errs {
		e.opts.Logger.Debug("Validation message",
			zap.String("code", v.Code),
			zap.Stringer("severity", v.Severity),
			zap.String("message", v.Message),
		)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	e.models[m] = struct{}{}
	return m, nil
}

// Close releases every model loaded by the engine. It is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	for m := range e.models {
		m.Close()
	}
	e.models = nil
	return nil
}
