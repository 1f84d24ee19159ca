package processor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/gomt"
	"golang.org/x/net/html"
)

// TranslatableAttrs are attributes whose values are shown to readers.
var TranslatableAttrs = []string{"alt", "title", "placeholder", "aria-label"}

// HTMLProcessor translates the text nodes and user-visible attributes of an
// HTML document.
//
// Content inside ignored tags, or inside elements marked with
// data-no-translate or translate="no", is left untouched.
type HTMLProcessor struct {
	ignoredTags map[string]bool
	attrs       map[string]bool
}

// HTMLOption configures an HTMLProcessor.
type HTMLOption func(*HTMLProcessor)

// WithIgnoredTags replaces the default set of ignored tags.
func WithIgnoredTags(tags ...string) HTMLOption {
	return func(p *HTMLProcessor) {
		p.ignoredTags = lowerSet(tags)
	}
}

// WithAttributes replaces the set of translated attributes. Pass none to
// translate text nodes only.
func WithAttributes(attrs ...string) HTMLOption {
	return func(p *HTMLProcessor) {
		p.attrs = lowerSet(attrs)
	}
}

// NewHTMLProcessor creates an HTML processor.
func NewHTMLProcessor(opts ...HTMLOption) *HTMLProcessor {
	p := &HTMLProcessor{
		ignoredTags: gomt.IgnoredTags,
		attrs:       lowerSet(TranslatableAttrs),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewHTMLProcessorWithIgnoredTags creates an HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	return NewHTMLProcessor(WithIgnoredTags(tags...))
}

type parsedHTML struct {
	doc *goquery.Document
}

// segment is one translatable string in the document. set replaces it.
type segment struct {
	text     string
	nodeType string
	tag      string
	attr     string
	set      func(string)
}

// Extract parses HTML and returns one node per distinct translatable text.
func (p *HTMLProcessor) Extract(content string) (interface{}, []gomt.TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &gomt.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var nodes []gomt.TextNode
	seen := make(map[string]bool)
	p.segments(doc, func(s segment) {
		hash := gomt.HashText(s.text)
		if seen[hash] {
			return
		}
		seen[hash] = true

		meta := map[string]string{}
		if s.tag != "" {
			meta["parent_tag"] = s.tag
		}
		if s.attr != "" {
			meta["attribute"] = s.attr
		}
		nodes = append(nodes, gomt.TextNode{
			ID:       fmt.Sprintf("node-%d", len(nodes)),
			Text:     s.text,
			Hash:     hash,
			NodeType: s.nodeType,
			Metadata: meta,
		})
	})

	return &parsedHTML{doc: doc}, nodes, nil
}

// Apply writes translations, keyed by text hash, back into the document.
// Every occurrence of a text receives its translation.
func (p *HTMLProcessor) Apply(parsed interface{}, nodes []gomt.TextNode, translations map[string]string) (string, error) {
	ph, ok := parsed.(*parsedHTML)
	if !ok {
		return "", &gomt.ProcessorError{
			Message:     fmt.Sprintf("unexpected parsed content %T", parsed),
			ContentType: "html",
		}
	}

	p.segments(ph.doc, func(s segment) {
		if t, ok := translations[gomt.HashText(s.text)]; ok {
			s.set(t)
		}
	})

	out, err := ph.doc.Html()
	if err != nil {
		return "", &gomt.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}
	return out, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return "html"
}

// segments calls fn for every non-blank translatable string in document order.
func (p *HTMLProcessor) segments(doc *goquery.Document, fn func(segment)) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if p.skip(n) {
				return
			}
			for i := range n.Attr {
				a := &n.Attr[i]
				if !p.attrs[strings.ToLower(a.Key)] {
					continue
				}
				if text := strings.TrimSpace(a.Val); text != "" {
					fn(segment{
						text:     text,
						nodeType: NodeTypeHTMLAttr,
						tag:      n.Data,
						attr:     a.Key,
						set:      func(t string) { a.Val = t },
					})
				}
			}
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				s := segment{
					text:     text,
					nodeType: NodeTypeHTMLText,
					set:      func(t string) { n.Data = preserveWhitespace(n.Data, t) },
				}
				if n.Parent != nil && n.Parent.Type == html.ElementNode {
					s.tag = n.Parent.Data
				}
				fn(s)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}

	for _, n := range doc.Nodes {
		visit(n)
	}
}

func (p *HTMLProcessor) skip(n *html.Node) bool {
	if p.ignoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, a := range n.Attr {
		switch {
		case a.Key == "data-no-translate":
			return true
		case a.Key == "translate" && strings.EqualFold(a.Val, "no"):
			return true
		}
	}
	return false
}

// preserveWhitespace keeps the leading and trailing whitespace of original
// around translated.
func preserveWhitespace(original, translated string) string {
	const ws = " \t\n\r"
	start := len(original) - len(strings.TrimLeft(original, ws))
	if start == len(original) {
		return original
	}
	end := len(strings.TrimRight(original, ws))
	return original[:start] + translated + original[end:]
}

func lowerSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[strings.ToLower(s)] = true
	}
	return m
}

// Verify HTMLProcessor implements ContentProcessor
var _ ContentProcessor = (*HTMLProcessor)(nil)
