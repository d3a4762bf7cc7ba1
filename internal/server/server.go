package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/hyperifyio/goarticle/internal/app"
	"github.com/hyperifyio/goarticle/internal/article"
	"github.com/hyperifyio/goarticle/internal/brief"
	"github.com/hyperifyio/goarticle/internal/export"
	"github.com/hyperifyio/goarticle/internal/keywords"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 64 << 10

// Generator produces an article for a validated request. *app.App satisfies it.
type Generator interface {
	Generate(ctx context.Context, req brief.Request) (app.Result, error)
}

// BuildInfo is reported by the health endpoint.
type BuildInfo struct {
	Version string
	Commit  string
}

type Server struct {
	gen     Generator
	logger  zerolog.Logger
	build   BuildInfo
	timeout time.Duration
}

// New returns a server for gen. timeout bounds each generation; zero means
// only the client's context applies.
func New(gen Generator, logger zerolog.Logger, build BuildInfo, timeout time.Duration) (*Server, error) {
	if gen == nil {
		return nil, errors.New("generator required")
	}
	return &Server{gen: gen, logger: logger, build: build, timeout: timeout}, nil
}

// Routes returns the HTTP handler with logging and panic recovery applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/export/pdf", s.handleExportPDF)
	mux.HandleFunc("/api/export/html", s.handleExportHTML)
	mux.HandleFunc("/healthz", s.handleHealth)

	var h http.Handler = mux
	h = recoverMiddleware(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.NewHandler(s.logger)(h)
	return h
}

type generateResponse struct {
	HTML      string       `json:"html"`
	Keywords  keywords.Set `json:"keywords"`
	Meta      article.Meta `json:"meta"`
	WordCount int          `json:"wordCount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		HTML:      res.Article.HTML,
		Keywords:  res.Keywords,
		Meta:      res.Article.Meta,
		WordCount: res.Article.WordCount,
	})
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, res.Article); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("pdf export failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteHTML(&buf, res.Article); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("html export failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.HTMLFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.build.Version, Commit: s.build.Commit})
}

// generate decodes and validates the body and runs the generator. It writes
// the error response itself and reports whether the caller should continue.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (app.Result, bool) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return app.Result{}, false
	}
	req, err := brief.Decode(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("rejected request")
		writeError(w, statusFor(err), err.Error())
		return app.Result{}, false
	}
	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res, err := s.gen.Generate(ctx, req)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("field", req.Field).Msg("generation failed")
		writeError(w, statusFor(err), err.Error())
		return app.Result{}, false
	}
	return res, true
}

// statusFor maps validation errors to 400 and everything else to 500.
func statusFor(err error) int {
	var ve *brief.ValidationError
	if errors.Is(err, brief.ErrFieldRequired) || errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// recoverMiddleware turns a panic in a handler into a logged 500.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				hlog.FromRequest(r).Error().Interface("panic", v).Msg("handler panic")
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
