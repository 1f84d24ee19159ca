package web

import (
	"encoding/json"
	"net/http"

	"github.com/ZaguanLabs/gomt"
)

// banner is the status message shown above the translated text.
type banner struct {
	Kind    string // "success", "warning" or "error"
	Message string
}

type pageData struct {
	Title      string
	Version    string
	Text       string
	Source     string
	Target     string
	Sources    []string
	Targets    []string
	Banner     *banner
	Done       bool
	Translated string
	Dir        string
	TargetCode string
}

// TranslateRequest is the JSON body of POST /api/translate.
type TranslateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format,omitempty"` // "text" (default) or "html"
}

// TranslateResponse is the JSON reply of POST /api/translate.
type TranslateResponse struct {
	Status  gomt.Status `json:"status"`
	Message string      `json:"message"`
	Text    string      `json:"text,omitempty"`
	Model   string      `json:"model,omitempty"`
	Cached  bool        `json:"cached"`
}

// LanguagesResponse is the JSON reply of GET /api/languages.
type LanguagesResponse struct {
	Sources []string         `json:"sources"`
	Targets []string         `json:"targets"`
	Pairs   []gomt.PairEntry `json:"pairs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.newPage(), http.StatusOK)
}

func (s *Server) handleFormTranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	data := s.newPage()
	data.Text = r.PostForm.Get("text")
	if v := r.PostForm.Get("source"); v != "" {
		data.Source = v
	}
	if v := r.PostForm.Get("target"); v != "" {
		data.Target = v
	}

	res := s.translator.Translate(r.Context(), gomt.Request{
		Text:   data.Text,
		Source: data.Source,
		Target: data.Target,
	})

	data.Banner = &banner{Kind: bannerKind(res.Status), Message: res.Message()}
	if res.OK() {
		data.Done = true
		data.Translated = res.Text
		if code, ok := gomt.LanguageCode(data.Target); ok {
			data.TargetCode = code
			data.Dir = gomt.GetDirection(code)
		} else {
			data.Dir = "ltr"
		}
	}

	s.render(w, r, data, http.StatusOK)
}

func (s *Server) handleAPITranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req TranslateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	greq := gomt.Request{Text: req.Text, Source: req.Source, Target: req.Target}

	var res gomt.Result
	switch req.Format {
	case "", "text":
		res = s.translator.Translate(r.Context(), greq)
	case "html":
		res = s.translator.TranslateHTML(r.Context(), greq).Result
	default:
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "unknown format " + req.Format})
		return
	}

	s.writeJSON(w, r, httpStatus(res.Status), TranslateResponse{
		Status:  res.Status,
		Message: res.Message(),
		Text:    res.Text,
		Model:   res.Model,
		Cached:  res.Cached,
	})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	pairs := s.translator.Pairs()
	s.writeJSON(w, r, http.StatusOK, LanguagesResponse{
		Sources: pairs.Sources(),
		Targets: pairs.Targets(),
		Pairs:   pairs.Entries(),
	})
}

func (s *Server) newPage() pageData {
	pairs := s.translator.Pairs()
	data := pageData{
		Title:   "AI-Powered Translator",
		Version: gomt.Name + " " + gomt.FullVersion(),
		Sources: pairs.Sources(),
		Targets: pairs.Targets(),
	}
	if len(data.Sources) > 0 {
		data.Source = data.Sources[0]
	}
	if len(data.Targets) > 0 {
		data.Target = data.Targets[0]
	}
	return data
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, data pageData, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", "request_id", RequestID(r.Context()), "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "request_id", RequestID(r.Context()), "error", err)
	}
}

func bannerKind(status gomt.Status) string {
	switch status {
	case gomt.StatusDone:
		return "success"
	case gomt.StatusEmptyInput:
		return "warning"
	default:
		return "error"
	}
}

func httpStatus(status gomt.Status) int {
	switch status {
	case gomt.StatusDone:
		return http.StatusOK
	case gomt.StatusEmptyInput, gomt.StatusUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
