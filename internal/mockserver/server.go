// Package mockserver emulates the key service and the verification service
// for development and end-to-end tests. Verdict scripting gives tests full
// control over the validation sequence the pipeline observes.
package mockserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Verdict scripts one validation response.
type Verdict struct {
	InfoCode  string
	Validated bool
	Side      string
	Country   string
	Blur      *float64
}

// Options configures the emulation.
type Options struct {
	// UserKey is the accepted credential; empty accepts any key.
	UserKey string
	// AccessTokenTTL controls how quickly tokens expire; defaults to 5m.
	AccessTokenTTL time.Duration
	// SigningKey signs access tokens; defaults to a fixed dev key.
	SigningKey string
	// Script is consumed one verdict per validation call; when exhausted the
	// server keeps answering with an accepted single-sided capture.
	Script []Verdict
	// ExtractionFields populates the canned extraction response, keyed by
	// the service's PascalCase field names. Each is returned read=true.
	ExtractionFields map[string]string
}

// Server implements both remote services behind one router. The key service
// lives under /ks/, the verification service under /ss/, mirroring the
// hosted deployment layout.
type Server struct {
	opts   Options
	issuer *tokenIssuer

	mu            sync.Mutex
	refreshTokens map[string]string
	scriptPos     int
	validations   int
	extractions   int
	refreshes     int
}

func New(opts Options) *Server {
	if opts.AccessTokenTTL == 0 {
		opts.AccessTokenTTL = 5 * time.Minute
	}
	if opts.SigningKey == "" {
		opts.SigningKey = "scandoc-mock-signing-key"
	}
	return &Server{
		opts:          opts,
		issuer:        &tokenIssuer{signingKey: []byte(opts.SigningKey), ttl: opts.AccessTokenTTL},
		refreshTokens: make(map[string]string),
	}
}

// Handler returns the combined router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/ks/authenticate/", s.handleAuthenticate)
	r.Post("/ks/authenticate/refresh", s.handleRefresh)
	r.Post("/ss/validation/", s.withToken(s.handleValidation))
	r.Post("/ss/extraction/", s.withToken(s.handleExtraction))
	return r
}

// Counts reports how many validation, extraction and refresh calls the
// server has seen.
func (s *Server) Counts() (validations, extractions, refreshes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validations, s.extractions, s.refreshes
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserKey   string `json:"user_key"`
		SubClient string `json:"sub_client"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if s.opts.UserKey != "" && req.UserKey != s.opts.UserKey {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	access, err := s.issuer.issue(req.SubClient)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	refresh := uuid.NewString()
	s.mu.Lock()
	s.refreshTokens[refresh] = req.SubClient
	s.mu.Unlock()

	writeJSON(w, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	subClient, known := s.refreshTokens[req.RefreshToken]
	if known {
		s.refreshes++
	}
	s.mu.Unlock()
	if !known {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	access, err := s.issuer.issue(subClient)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"access_token": access})
}

// withToken enforces the verification service's auth scheme: the raw access
// token in the Authorization header, no scheme prefix.
func (s *Server) withToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.issuer.validate(r.Header.Get("Authorization")); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AcceptTermsAndConditions bool `json:"AcceptTermsAndConditions"`
		DataFields               struct {
			Images     []string  `json:"Images"`
			BlurValues []float64 `json:"BlurValues"`
		} `json:"DataFields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.DataFields.Images) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.validations++
	verdict := Verdict{InfoCode: "1000", Validated: true}
	if s.scriptPos < len(s.opts.Script) {
		verdict = s.opts.Script[s.scriptPos]
		s.scriptPos++
	}
	s.mu.Unlock()

	body := map[string]any{
		"InfoCode":  verdict.InfoCode,
		"Validated": verdict.Validated,
	}
	if verdict.Side != "" {
		body["Side"] = verdict.Side
	}
	if verdict.Country != "" {
		body["Country"] = verdict.Country
	}
	if verdict.Blur != nil {
		body["DetectedBlurValue"] = *verdict.Blur
	}
	writeJSON(w, body)
}

func (s *Server) handleExtraction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DataFields struct {
			FrontImage string  `json:"FrontImage"`
			BackImage  *string `json:"BackImage"`
		} `json:"DataFields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DataFields.FrontImage == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.extractions++
	s.mu.Unlock()

	data := make(map[string]any, len(s.opts.ExtractionFields))
	for name, value := range s.opts.ExtractionFields {
		data[name] = map[string]any{
			"Read":             true,
			"Validated":        true,
			"RecommendedValue": value,
		}
	}
	writeJSON(w, map[string]any{
		"InfoCode": "0",
		"Data":     data,
		"ImageData": map[string]any{
			// Echo the submitted capture back as the segmented document.
			"Documents": []string{req.DataFields.FrontImage},
		},
	})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
