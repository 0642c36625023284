package markdown

import (
	"sort"
	"strings"
	"sync"
)

// TaggedNode is a rendered leaf tagged with the source line it came from.
type TaggedNode struct {
	Tag        string `json:"tag"`
	SourceLine int    `json:"source_line"` // 1-indexed line within the parsed text (0 if unknown)
	Content    string `json:"content"`     // raw leaf text
	Display    string `json:"display"`     // leaf text decorated for plain-text display
}

// HasSourceLine reports whether the renderer knows where the leaf came from.
func (n TaggedNode) HasSourceLine() bool {
	return n.SourceLine > 0
}

// LeafTagger turns a leaf of one tag type into a TaggedNode.
type LeafTagger interface {
	TagLeaf(sourceLine int, content string) TaggedNode
}

// TaggerFunc adapts a function to the LeafTagger interface.
type TaggerFunc func(sourceLine int, content string) TaggedNode

// TagLeaf implements LeafTagger.
func (f TaggerFunc) TagLeaf(sourceLine int, content string) TaggedNode {
	return f(sourceLine, content)
}

// PrefixTagger tags leaves with a fixed tag and a display prefix.
func PrefixTagger(tag, prefix string) LeafTagger {
	return TaggerFunc(func(sourceLine int, content string) TaggedNode {
		return TaggedNode{
			Tag:        tag,
			SourceLine: sourceLine,
			Content:    content,
			Display:    prefix + content,
		}
	})
}

// Registry maps tag names ("p", "h1", "li", "code", ...) to their taggers.
type Registry struct {
	mu       sync.RWMutex
	taggers  map[string]LeafTagger
	fallback LeafTagger
}

// NewRegistry creates an empty registry. Tags without a registered tagger are
// handled by a tagger that keeps the content as is.
func NewRegistry() *Registry {
	return &Registry{
		taggers: make(map[string]LeafTagger),
	}
}

// DefaultRegistry returns a registry with taggers for every tag Parse emits.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for level := 1; level <= 6; level++ {
		r.Register(headingTag(level), PrefixTagger(headingTag(level), strings.Repeat("#", level)+" "))
	}
	r.Register(TagParagraph, PrefixTagger(TagParagraph, ""))
	r.Register(TagListItem, PrefixTagger(TagListItem, "• "))
	r.Register(TagBlockquote, PrefixTagger(TagBlockquote, "│ "))
	r.Register(TagCode, PrefixTagger(TagCode, "  "))
	r.Register(TagHTML, PrefixTagger(TagHTML, ""))
	r.Register(TagTableHeader, PrefixTagger(TagTableHeader, ""))
	r.Register(TagTableRow, PrefixTagger(TagTableRow, ""))
	r.Register(TagThematicBreak, TaggerFunc(func(sourceLine int, _ string) TaggedNode {
		return TaggedNode{Tag: TagThematicBreak, SourceLine: sourceLine, Display: "───"}
	}))
	return r
}

// Register sets the tagger for tag, replacing any previous one.
func (r *Registry) Register(tag string, t LeafTagger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.taggers[tag] = t
}

// Tags returns the registered tag names in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.taggers))
	for tag := range r.taggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Tag dispatches a leaf to the tagger registered for tag.
func (r *Registry) Tag(tag string, sourceLine int, content string) TaggedNode {
	r.mu.RLock()
	t, ok := r.taggers[tag]
	fallback := r.fallback
	r.mu.RUnlock()

	if ok {
		return t.TagLeaf(sourceLine, content)
	}
	if fallback != nil {
		return fallback.TagLeaf(sourceLine, content)
	}
	return TaggedNode{Tag: tag, SourceLine: sourceLine, Content: content, Display: content}
}

// SetFallback sets the tagger used for tags without a registered tagger.
func (r *Registry) SetFallback(t LeafTagger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = t
}
