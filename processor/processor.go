// Package processor extracts translatable text from structured content and
// writes translations back into it.
package processor

import "github.com/ZaguanLabs/gomt"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = gomt.ContentProcessor

// TextNode is an alias to the main package type.
type TextNode = gomt.TextNode

// NodeType values reported by HTMLProcessor.
const (
	NodeTypeHTMLText = "html_text"
	NodeTypeHTMLAttr = "html_attr"
)
