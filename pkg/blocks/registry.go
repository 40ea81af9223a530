package blocks

import (
	"fmt"
	"strings"

	"github.com/campaignbridge/campaignbridge/pkg/logger"
)

// Handler renders one block (and, by recursing through the session, its
// subtree) into an HTML fragment. Handlers never return errors: a missing
// or malformed attribute falls back to its documented default, so the
// conversion pipeline always produces a string.
type Handler interface {
	Render(block Block, sess *RenderSession, rctx *RenderContext) string
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(block Block, sess *RenderSession, rctx *RenderContext) string

func (f HandlerFunc) Render(block Block, sess *RenderSession, rctx *RenderContext) string {
	return f(block, sess, rctx)
}

// RenderContext carries post data inherited from an ancestor container
// (post-card or a resolved slot) down to context-consuming blocks. It is
// read-only for descendants; containers replace it at their boundary.
type RenderContext struct {
	PostID      int64
	PostType    string
	ShowImage   bool
	ShowExcerpt bool
}

// Options configures one conversion run.
type Options struct {
	// Debug enables logging of degraded paths (unknown blocks).
	Debug bool
	// Logger receives debug events. Nil is fine; events are dropped.
	Logger logger.Logger
	// Content resolves post data for slots and context-consuming blocks.
	// When nil, the campaignbridge post blocks emit merge tokens instead
	// of resolved content.
	Content ContentAccessor
	// Structure carries scaffold dimensions used by emitters that need
	// the content width (images, columns).
	Structure StructureOptions
}

// Registry maps (namespace, kind) to a Handler. Built-in emitters are
// registered by NewRegistry; callers may register additional handlers or
// override built-ins before rendering.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a registry with the built-in core and
// campaignbridge emitters registered.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	registerCoreBlocks(r)
	registerCampaignBridgeBlocks(r)
	return r
}

// Register installs a handler for a fully qualified block name such as
// "core/paragraph". Later registrations replace earlier ones.
func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

// RegisterFunc is a convenience wrapper around Register.
func (r *Registry) RegisterFunc(name string, f HandlerFunc) {
	r.Register(name, f)
}

// Handler looks up the handler for a block name.
func (r *Registry) Handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// RenderSession is the per-render state threaded through the recursive
// walk: the registry, the options, the slot→post map, and the fallback
// slot key counter. A new session is constructed for every top-level
// render so no state leaks between renders.
type RenderSession struct {
	registry *Registry
	opts     Options
	slotMap  map[string]int64
	slotSeq  int
}

// NewRenderSession builds a fresh session. slotMap may be nil when the
// caller renders content that contains no slots.
func NewRenderSession(registry *Registry, slotMap map[string]int64, opts Options) *RenderSession {
	return &RenderSession{
		registry: registry,
		opts:     opts,
		slotMap:  slotMap,
	}
}

// Options exposes the session options to handlers.
func (s *RenderSession) Options() Options {
	return s.opts
}

// SlotPost resolves a slot key through the caller-supplied slot map.
func (s *RenderSession) SlotPost(key string) (int64, bool) {
	if s.slotMap == nil {
		return 0, false
	}
	id, ok := s.slotMap[key]
	return id, ok
}

// NextSlotKey assigns the next sequential fallback key for a slot block
// without an explicit slotId. Keys are 1-based and monotonic across the
// whole session, so nested and top-level slots share one sequence in
// pre-order encounter order.
func (s *RenderSession) NextSlotKey() string {
	s.slotSeq++
	return fmt.Sprintf("slot_%d", s.slotSeq)
}

// Render converts one block to an HTML fragment.
//
// Dispatch: an empty name is an invisible structural node and yields an
// empty fragment; a registered name goes to its handler; anything else,
// including unregistered kinds inside known namespaces, degrades to the
// unknown-block placeholder. No path returns an error.
func (s *RenderSession) Render(block Block, rctx *RenderContext) string {
	if block.Name == "" {
		return ""
	}
	if h, ok := s.registry.Handler(block.Name); ok {
		return h.Render(block, s, rctx)
	}
	return s.renderUnknown(block)
}

// RenderAll renders a list of blocks and concatenates the fragments.
func (s *RenderSession) RenderAll(list []Block, rctx *RenderContext) string {
	var sb strings.Builder
	for i := range list {
		sb.WriteString(s.Render(list[i], rctx))
	}
	return sb.String()
}

func (s *RenderSession) renderUnknown(block Block) string {
	if s.opts.Debug && s.opts.Logger != nil {
		s.opts.Logger.WithField("block", block.Name).Debug("unknown block type, emitting placeholder")
	}
	return fmt.Sprintf("<!-- Unknown block: %s -->", escapeHTML(block.Name))
}

// ConvertBlocksToHTML converts a block list into a bare concatenated
// fragment with no document scaffold. Used for the content region of a
// full document and for rendering nested layouts.
func ConvertBlocksToHTML(list []Block, opts Options) string {
	sess := NewRenderSession(NewRegistry(), nil, opts)
	return sess.RenderAll(list, nil)
}
