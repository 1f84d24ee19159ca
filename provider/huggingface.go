package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ZaguanLabs/gomt"
	"github.com/go-resty/resty/v2"
)

// HuggingFaceFactory loads opus-mt and other translation models served by
// the Hugging Face Inference API.
type HuggingFaceFactory struct {
	client       *resty.Client
	baseURL      string
	inferenceURL string
}

// HuggingFaceConfig holds configuration for the Hugging Face backend.
type HuggingFaceConfig struct {
	Token        string        // API token (optional for public models)
	BaseURL      string        // Hub API base URL (default: "https://huggingface.co")
	InferenceURL string        // Inference API base URL (default: "https://api-inference.huggingface.co")
	Timeout      time.Duration // Per-request timeout (default: 60s)
}

// NewHuggingFaceFactory creates a new Hugging Face factory.
func NewHuggingFaceFactory(cfg HuggingFaceConfig) *HuggingFaceFactory {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://huggingface.co"
	}

	inferenceURL := cfg.InferenceURL
	if inferenceURL == "" {
		inferenceURL = "https://api-inference.huggingface.co"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", gomt.UserAgent())
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &HuggingFaceFactory{
		client:       client,
		baseURL:      strings.TrimRight(baseURL, "/"),
		inferenceURL: strings.TrimRight(inferenceURL, "/"),
	}
}

// modelInfo is the subset of the Hub model metadata we check on load.
type modelInfo struct {
	ID          string `json:"id"`
	PipelineTag string `json:"pipeline_tag"`
}

// Load confirms the model exists on the Hub and serves translation.
func (f *HuggingFaceFactory) Load(ctx context.Context, req LoadRequest) (Pipeline, error) {
	if req.Task != "" && req.Task != gomt.TaskTranslation {
		return nil, &gomt.LoadError{Model: req.Model, Cause: fmt.Errorf("unsupported task %q", req.Task)}
	}

	var info modelInfo
	resp, err := f.client.R().
		SetContext(ctx).
		SetResult(&info).
		Get(f.baseURL + "/api/models/" + req.Model)
	if err != nil {
		return nil, &gomt.LoadError{Model: req.Model, Cause: err}
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, &gomt.LoadError{Model: req.Model, Cause: errors.New("model not found")}
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, &gomt.LoadError{Model: req.Model, Cause: fmt.Errorf("access denied: %s", resp.Status())}
	case resp.IsError():
		return nil, &gomt.LoadError{Model: req.Model, Cause: fmt.Errorf("hub returned %s", resp.Status())}
	}

	if info.PipelineTag != "" && !strings.HasPrefix(info.PipelineTag, gomt.TaskTranslation) {
		return nil, &gomt.LoadError{Model: req.Model, Cause: fmt.Errorf("model pipeline is %q, not translation", info.PipelineTag)}
	}

	return &huggingFacePipeline{
		client: f.client,
		model:  req.Model,
		url:    f.inferenceURL + "/models/" + req.Model,
	}, nil
}

// huggingFacePipeline runs one model through the Inference API.
type huggingFacePipeline struct {
	client *resty.Client
	model  string
	url    string
}

type inferenceRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type inferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// Translate posts the text and returns the model's translation records.
func (p *huggingFacePipeline) Translate(ctx context.Context, text string) ([]Output, error) {
	var out []Output
	var apiErr inferenceError

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(inferenceRequest{
			Inputs:  text,
			Options: inferenceOptions{WaitForModel: true},
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post(p.url)
	if err != nil {
		return nil, &gomt.ProviderError{
			Message:   "inference request failed",
			Cause:     err,
			Retryable: ctx.Err() == nil,
		}
	}

	if resp.IsError() {
		var cause error
		if apiErr.Error != "" {
			cause = errors.New(apiErr.Error)
		}
		return nil, &gomt.ProviderError{
			Message:    fmt.Sprintf("inference for %s returned %s", p.model, resp.Status()),
			Cause:      cause,
			Retryable:  isRetryableStatus(resp.StatusCode()),
			RetryAfter: retryAfter(resp.Header().Get("Retry-After"), apiErr.EstimatedTime),
		}
	}

	return out, nil
}

// retryAfter reads the backend's hint for the next attempt: the Retry-After
// header in seconds, or the estimated model warm-up time from the body.
func retryAfter(header string, estimated float64) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if estimated > 0 {
		return time.Duration(estimated * float64(time.Second))
	}
	return 0
}

// isRetryableStatus reports whether an HTTP status is worth retrying.
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Verify HuggingFaceFactory implements Factory
var _ Factory = (*HuggingFaceFactory)(nil)
