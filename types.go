package gomt

// TaskTranslation is the pipeline task name requested from factories.
const TaskTranslation = "translation"

// DeviceCPU selects CPU inference in a LoadRequest.
const DeviceCPU = -1

// Pair is an ordered (source, target) combination of language labels.
type Pair struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Request is a single translation request as collected from a user.
type Request struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Output is one record produced by a pipeline.
type Output struct {
	TranslationText string `json:"translation_text"`
}

// LoadRequest describes the pipeline a Factory should create.
type LoadRequest struct {
	Task   string // Pipeline task, always TaskTranslation here
	Model  string // Model identifier, e.g. "Helsinki-NLP/opus-mt-en-de"
	Device int    // Compute device selector, DeviceCPU by default
}

// Status is the outcome of a translation request.
type Status string

const (
	// StatusDone means the translation completed.
	StatusDone Status = "done"
	// StatusEmptyInput means the text was empty or whitespace only.
	StatusEmptyInput Status = "empty_input"
	// StatusUnsupported means no model is mapped for the language pair.
	StatusUnsupported Status = "unsupported"
	// StatusFailed means loading the model or running it failed.
	StatusFailed Status = "failed"
)

// Result is the outcome of Translator.Translate.
type Result struct {
	Status Status
	Text   string // Translated text, set when Status is StatusDone
	Model  string // Model identifier used, empty if none was resolved
	Source string
	Target string
	Cached bool  // Whether Text came from the result cache
	Err    error // Failure reason, nil when Status is StatusDone
}

// OK reports whether the translation completed.
func (r Result) OK() bool {
	return r.Status == StatusDone
}

// Message returns the user-visible banner text for the result.
func (r Result) Message() string {
	switch r.Status {
	case StatusDone:
		return "Translation completed!"
	case StatusEmptyInput:
		return "Please enter text to translate."
	case StatusUnsupported:
		return (&UnsupportedPairError{Source: r.Source, Target: r.Target}).Error()
	default:
		detail := "unknown error"
		if r.Err != nil {
			detail = r.Err.Error()
		}
		return "An error occurred during translation: " + detail
	}
}

// TextNode represents a translatable unit of structured content.
type TextNode struct {
	ID       string            // Unique identifier within the document
	Text     string            // Original text content (trimmed)
	Hash     string            // SHA-256 hash of Text
	NodeType string            // "html_text" or "html_attr"
	Metadata map[string]string // Additional info (parent tag, etc.)
}

// ContentResult is the outcome of Translator.TranslateContent.
type ContentResult struct {
	Result
	Content         string // Content with translations applied
	TranslatedCount int    // Number of newly translated nodes
	CachedCount     int    // Number of cache hits
	TotalNodes      int    // Total translatable nodes found
}

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}
