package processor

import (
	"strings"
	"testing"

	"github.com/ZaguanLabs/gomt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(nodes []gomt.TextNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Text
	}
	return out
}

// translateAll extracts content and applies dict, keyed by source text.
func translateAll(t *testing.T, p *HTMLProcessor, content string, dict map[string]string) string {
	t.Helper()
	parsed, nodes, err := p.Extract(content)
	require.NoError(t, err)

	translations := make(map[string]string)
	for _, n := range nodes {
		if tr, ok := dict[n.Text]; ok {
			translations[n.Hash] = tr
		}
	}
	out, err := p.Apply(parsed, nodes, translations)
	require.NoError(t, err)
	return out
}

func TestHTMLProcessor_Extract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "text in document order",
			content: `<div><h1>Hello World</h1><p>Welcome to our site.</p></div>`,
			want:    []string{"Hello World", "Welcome to our site."},
		},
		{
			name: "ignored tags",
			content: `<div><p>Translate me</p><script>run();</script><style>p{}</style>
				<code>x := 1</code><pre>raw</pre><textarea>input</textarea></div>`,
			want: []string{"Translate me"},
		},
		{
			name:    "data-no-translate",
			content: `<div><p data-no-translate>Keep <b>all</b> of this</p><p>Translate this</p></div>`,
			want:    []string{"Translate this"},
		},
		{
			name:    "translate=no",
			content: `<div><span translate="NO">Zaguan</span><p>Good morning</p></div>`,
			want:    []string{"Good morning"},
		},
		{
			name:    "duplicates collapse",
			content: `<ul><li>Hello</li><li> Hello </li><li>Hello</li></ul>`,
			want:    []string{"Hello"},
		},
		{
			name:    "attributes",
			content: `<form><img src="a.png" alt="A cat"><input placeholder="Your name" name="n"><p title="Tip">Body</p></form>`,
			want:    []string{"A cat", "Your name", "Tip", "Body"},
		},
		{
			name:    "blank",
			content: `<div>   </div><img alt=" ">`,
			want:    []string{},
		},
		{
			name:    "unclosed tags",
			content: `<div>unclosed`,
			want:    []string{"unclosed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, nodes, err := NewHTMLProcessor().Extract(tt.content)
			require.NoError(t, err)
			assert.NotNil(t, parsed)
			assert.Equal(t, tt.want, texts(nodes))
		})
	}
}

func TestHTMLProcessor_Extract_Metadata(t *testing.T) {
	_, nodes, err := NewHTMLProcessor().Extract(`<nav><button aria-label="Start">Run</button></nav>`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	attr, text := nodes[0], nodes[1]

	assert.Equal(t, NodeTypeHTMLAttr, attr.NodeType)
	assert.Equal(t, "aria-label", attr.Metadata["attribute"])
	assert.Equal(t, "button", attr.Metadata["parent_tag"])

	assert.Equal(t, NodeTypeHTMLText, text.NodeType)
	assert.Equal(t, "button", text.Metadata["parent_tag"])
	assert.Equal(t, gomt.HashText("Run"), text.Hash)
	assert.Equal(t, "node-1", text.ID)
}

func TestHTMLProcessor_Options(t *testing.T) {
	p := NewHTMLProcessor(WithIgnoredTags("ASIDE"), WithAttributes())

	_, nodes, err := p.Extract(`<div><aside>Sidebar</aside><code title="Snippet">x := 1</code></div>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"x := 1"}, texts(nodes))

	_, nodes, err = NewHTMLProcessorWithIgnoredTags([]string{"p"}).Extract(`<p>a</p><span>b</span>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, texts(nodes))
}

func TestHTMLProcessor_Apply(t *testing.T) {
	dict := map[string]string{"Hello": "Hallo", "World": "Welt", "A cat": "Eine Katze"}

	tests := []struct {
		name    string
		content string
		want    []string
		notWant []string
	}{
		{
			name:    "text nodes",
			content: `<div><p>Hello</p><p>World</p></div>`,
			want:    []string{"<p>Hallo</p>", "<p>Welt</p>"},
			notWant: []string{"Hello", "World"},
		},
		{
			name:    "every occurrence",
			content: `<div><p>Hello</p><span>Hello</span></div>`,
			want:    []string{"<p>Hallo</p>", "<span>Hallo</span>"},
		},
		{
			name:    "whitespace kept",
			content: `<p>  Hello  </p>`,
			want:    []string{"<p>  Hallo  </p>"},
		},
		{
			name:    "ignored content untouched",
			content: `<div><p>Hello</p><code>Hello</code><b translate="no">World</b></div>`,
			want:    []string{"<p>Hallo</p>", "<code>Hello</code>", `<b translate="no">World</b>`},
		},
		{
			name:    "attribute",
			content: `<img src="cat.png" alt="A cat"/>`,
			want:    []string{`alt="Eine Katze"`, `src="cat.png"`},
		},
		{
			name:    "untranslated left alone",
			content: `<p>Goodbye</p>`,
			want:    []string{"<p>Goodbye</p>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := translateAll(t, NewHTMLProcessor(), tt.content, dict)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestHTMLProcessor_Apply_InvalidParsed(t *testing.T) {
	_, err := NewHTMLProcessor().Apply("not parsed", nil, nil)

	var perr *gomt.ProcessorError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "html", perr.ContentType)
	assert.True(t, strings.Contains(perr.Message, "string"))
}

func TestHTMLProcessor_ContentType(t *testing.T) {
	assert.Equal(t, "html", NewHTMLProcessor().ContentType())
}

func TestPreserveWhitespace(t *testing.T) {
	tests := []struct{ original, translated, want string }{
		{"Hello", "Hallo", "Hallo"},
		{"  Hello", "Hallo", "  Hallo"},
		{"Hello  ", "Hallo", "Hallo  "},
		{"\n\tHello\n", "Hallo", "\n\tHallo\n"},
		{"   ", "Hallo", "   "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, preserveWhitespace(tt.original, tt.translated), "original %q", tt.original)
	}
}
