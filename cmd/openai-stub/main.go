package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// openai-stub is a minimal OpenAI-compatible server for running the planner
// without a real model.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}
	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newMux(model)); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func newMux(model string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"object": "list",
			"data":   []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sys, user := "", ""
		if len(req.Messages) > 0 {
			sys = req.Messages[0].Content
		}
		if len(req.Messages) > 1 {
			user = req.Messages[1].Content
		}
		if !strings.Contains(sys, "Respond with strict JSON only") || !strings.Contains(sys, `"keywords"`) {
			http.Error(w, "unexpected system", http.StatusBadRequest)
			return
		}
		b, _ := json.Marshal(planFor(user))
		writeJSON(w, map[string]any{
			"id":     "stub",
			"object": "chat.completion",
			"model":  model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": string(b)}},
			},
		})
	})
	return mux
}

// planFor echoes the prompt's field, topic and location into a plan.
func planFor(user string) map[string]any {
	values := map[string]string{}
	for _, line := range strings.Split(user, "\n") {
		if k, v, ok := strings.Cut(line, ":"); ok {
			values[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	subject := values["Topic"]
	if subject == "" {
		subject = values["Field"]
	}
	query := strings.TrimSpace(subject + " " + values["Location"] + " latest trends")
	return map[string]any{
		"query":    query,
		"keywords": []string{subject + " checklist", subject + " costs", "customer reviews"},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
