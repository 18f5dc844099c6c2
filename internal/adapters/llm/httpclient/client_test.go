package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguist/internal/ports"
)

func TestExtractTranslation(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"json", `{"translation":"출력 엔진:"}`, "출력 엔진:", false},
		{"fenced", "```json\n{\"translation\": \"Форма\"}\n```", "Форма", false},
		{"embedded", `Sure! {"translation":"Formular"} hope this helps`, "Formular", false},
		{"escaped", `{"translation":"a \"b\"`, `a "b"`, false},
		{"labelled", "Translation: Formulaire", "Formulaire", false},
		{"plain", "Formulaire", "Formulaire", false},
		{"broken object", `{"answer": 1}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractTranslation(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenRouterURL(t *testing.T) {
	assert.Equal(t, "https://openrouter.ai/api/v1/models", openRouterURL("https://openrouter.ai", "/models"))
	assert.Equal(t, "https://openrouter.ai/api/v1/models", openRouterURL("https://openrouter.ai/api/v1/", "/models"))
}

func TestOllamaTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "qwen", body["model"])
		assert.Equal(t, false, body["stream"])
		_, _ = w.Write([]byte(`{"message":{"content":"{\"translation\":\"출력 엔진:\"}"}}`))
	}))
	defer srv.Close()

	c := New(TypeOllama, "", srv.URL, "qwen")
	res, err := c.Translate(context.Background(), ports.Segment{Text: "Output Engine:"}, ports.TranslateParams{SystemPrompt: "s", UserPrompt: "u"})
	require.NoError(t, err)
	assert.Equal(t, "출력 엔진:", res.Translation)
}

func TestChatFallsBackToJSONObject(t *testing.T) {
	var formats []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var body struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-x", body.Model)
		formats = append(formats, body.ResponseFormat.Type)
		if body.ResponseFormat.Type == "json_schema" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"response_format not supported"}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"translation\":\"Форма\"}"}}]}`))
	}))
	defer srv.Close()

	c := New(TypeOpenAI, "secret", srv.URL+"/v1", "default")
	res, err := c.Translate(context.Background(), ports.Segment{}, ports.TranslateParams{Model: "gpt-x"})
	require.NoError(t, err)
	assert.Equal(t, "Форма", res.Translation)
	assert.Equal(t, []string{"json_schema", "json_object"}, formats)
}

func TestChatError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	_, err := New(TypeOpenRouter, "k", srv.URL, "m").Translate(context.Background(), ports.Segment{}, ports.TranslateParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"qwen2.5:7b"},{"name":"llama3"}]}`))
		case "/api/v1/models":
			_, _ = w.Write([]byte(`{"data":[{"id":"openai/gpt-4o","name":"GPT-4o","context_length":128000},{"id":"x/y"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	models, err := New(TypeOllama, "", srv.URL, "").ListModels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ports.ModelInfo{{Name: "qwen2.5:7b"}, {Name: "llama3"}}, models)

	models, err = New(TypeOpenRouter, "", srv.URL, "").ListModels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ports.ModelInfo{
		{Name: "openai/gpt-4o", Description: "GPT-4o", ContextTokens: 128000},
		{Name: "x/y", Description: "x/y"},
	}, models)

	require.Error(t, New(TypeOpenAI, "", srv.URL, "").Test(ctx))
}

func TestUnsupportedType(t *testing.T) {
	_, err := New("bard", "", "", "").ListModels(context.Background())
	require.Error(t, err)
}
