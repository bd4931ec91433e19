// Package rendering binds the personalization applier to HTML fragments.
//
// The attribute contract with the surrounding page: content blocks carry
// data-category-id, clickable content carries data-content-id and
// data-content-name, and the highlight marker is a CSS class so no
// unrelated styling is mutated.
package rendering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/glowup/beacon/internal/domain/personalize"
)

// Default binding configuration constants.
const (
	defaultHighlightClass = "beacon-highlight"
	categoryAttr          = "data-category-id"
)

// HTMLBinding implements personalize.Binding over a parsed HTML fragment.
type HTMLBinding struct {
	doc            *goquery.Document
	highlightClass string

	blocks map[string]*goquery.Selection
	links  map[string]*goquery.Selection

	blockOrder []personalize.Block
	linkOrder  []personalize.Link
}

// Option applies a configuration option to the HTMLBinding.
type Option func(*HTMLBinding)

// WithHighlightClass sets the CSS class attached to highlighted links.
func WithHighlightClass(class string) Option {
	return func(b *HTMLBinding) {
		if class != "" {
			b.highlightClass = class
		}
	}
}

// NewHTMLBinding parses fragment and indexes its tagged elements.
func NewHTMLBinding(fragment string, opts ...Option) (*HTMLBinding, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	b := &HTMLBinding{
		doc:            doc,
		highlightClass: defaultHighlightClass,
		blocks:         make(map[string]*goquery.Selection),
		links:          make(map[string]*goquery.Selection),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.index()
	return b, nil
}

// index walks the document once, assigning opaque refs in document order.
func (b *HTMLBinding) index() {
	b.doc.Find("[" + categoryAttr + "]").Each(func(i int, s *goquery.Selection) {
		categoryID, err := strconv.Atoi(s.AttrOr(categoryAttr, ""))
		if err != nil {
			return // untagged or malformed, not a ranked block
		}
		ref := "block-" + strconv.Itoa(i)
		b.blocks[ref] = s
		b.blockOrder = append(b.blockOrder, personalize.Block{Ref: ref, CategoryID: categoryID})
	})

	b.doc.Find("a").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		ref := "link-" + strconv.Itoa(i)
		b.links[ref] = s
		b.linkOrder = append(b.linkOrder, personalize.Link{Ref: ref, Text: text})
	})
}

// CategoryBlocks returns the category-tagged blocks in document order.
func (b *HTMLBinding) CategoryBlocks() []personalize.Block {
	return append([]personalize.Block(nil), b.blockOrder...)
}

// ReorderBlocks reinserts the blocks under their shared parent in the
// given order. Appending moves each node, so the final child order matches
// refs.
func (b *HTMLBinding) ReorderBlocks(refs []string) error {
	if len(refs) == 0 {
		return nil
	}

	first, ok := b.blocks[refs[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRef, refs[0])
	}
	parent := first.Parent()

	for _, ref := range refs {
		sel, ok := b.blocks[ref]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRef, ref)
		}
		parent.AppendSelection(sel)
	}
	return nil
}

// Links returns the text-bearing link elements in document order.
func (b *HTMLBinding) Links() []personalize.Link {
	return append([]personalize.Link(nil), b.linkOrder...)
}

// Highlight attaches the marker class to a link. AddClass never
// duplicates, keeping the operation idempotent.
func (b *HTMLBinding) Highlight(ref string) error {
	sel, ok := b.links[ref]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRef, ref)
	}
	sel.AddClass(b.highlightClass)
	return nil
}

// HTML renders the transformed fragment (the body inner HTML of the
// parsed document).
func (b *HTMLBinding) HTML() (string, error) {
	out, err := b.doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("render fragment: %w", err)
	}
	return out, nil
}
