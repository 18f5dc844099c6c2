package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"linguist/internal/ports"
)

// Provider types served by Client.
const (
	TypeOllama     = "ollama"
	TypeOpenRouter = "openrouter"
	TypeOpenAI     = "openai"
)

// Types lists the supported provider types.
func Types() []string { return []string{TypeOllama, TypeOpenAI, TypeOpenRouter} }

const defaultTimeout = 60 * time.Second

type Client struct {
	ProviderType string
	APIKey       string
	BaseURL      string
	Model        string
	http         *resty.Client
}

func New(providerType, apiKey, baseURL, model string) *Client {
	c := resty.New().SetTimeout(defaultTimeout)
	return &Client{ProviderType: strings.ToLower(providerType), APIKey: apiKey, BaseURL: baseURL, Model: model, http: c}
}

// SetTimeout bounds every request of the client.
func (c *Client) SetTimeout(d time.Duration) *Client {
	c.http.SetTimeout(d)
	return c
}

func (c *Client) Translate(ctx context.Context, seg ports.Segment, p ports.TranslateParams) (ports.TranslateResult, error) {
	switch c.ProviderType {
	case TypeOpenRouter, TypeOpenAI:
		return c.translateChat(ctx, p)
	case TypeOllama:
		return c.translateOllama(ctx, p)
	default:
		return ports.TranslateResult{}, fmt.Errorf("unsupported provider: %s", c.ProviderType)
	}
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	switch c.ProviderType {
	case TypeOllama:
		var resp struct {
			Models []struct {
				Name string `json:"name"`
			} `json:"models"`
		}
		r, err := c.http.R().SetContext(ctx).SetResult(&resp).Get(c.ollamaURL("/api/tags"))
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("ollama list models: %s; body: %s", r.Status(), abbreviate(r.String(), 500))
		}
		out := make([]ports.ModelInfo, 0, len(resp.Models))
		for _, m := range resp.Models {
			out = append(out, ports.ModelInfo{Name: m.Name})
		}
		return out, nil
	case TypeOpenRouter, TypeOpenAI:
		var resp struct {
			Data []struct {
				ID            string `json:"id"`
				Name          string `json:"name"`
				ContextLength int    `json:"context_length"`
			} `json:"data"`
		}
		r, err := c.authed(ctx).SetResult(&resp).Get(c.chatURL("/models"))
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("%s list models: %s; body: %s", c.ProviderType, r.Status(), abbreviate(r.String(), 500))
		}
		out := make([]ports.ModelInfo, 0, len(resp.Data))
		for _, d := range resp.Data {
			label := d.Name
			if label == "" {
				label = d.ID
			}
			out = append(out, ports.ModelInfo{Name: d.ID, Description: label, ContextTokens: d.ContextLength})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", c.ProviderType)
	}
}

func (c *Client) Test(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

func (c *Client) authed(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx).SetHeader("Content-Type", "application/json")
	if c.APIKey != "" {
		r.SetHeader("Authorization", "Bearer "+c.APIKey)
	}
	if c.ProviderType == TypeOpenRouter {
		r.SetHeader("X-Title", "linguist")
	}
	return r
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// translateChat speaks the OpenAI chat completions dialect. A strict JSON
// schema is asked for first; servers that reject it with 400 get json_object.
func (c *Client) translateChat(ctx context.Context, p ports.TranslateParams) (ports.TranslateResult, error) {
	url := c.chatURL("/chat/completions")
	model := p.Model
	if model == "" {
		model = c.Model
	}
	body := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": p.SystemPrompt},
			{"role": "user", "content": p.UserPrompt},
		},
		"temperature": p.Temperature,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "translation",
				"strict": true,
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"translation": map[string]any{"type": "string"},
					},
					"required":             []string{"translation"},
					"additionalProperties": false,
				},
			},
		},
	}
	var resp chatResponse
	rr, err := c.authed(ctx).SetBody(body).SetResult(&resp).Post(url)
	if err != nil {
		return ports.TranslateResult{}, err
	}
	if rr.StatusCode() == http.StatusBadRequest {
		body["response_format"] = map[string]string{"type": "json_object"}
		resp = chatResponse{}
		if rr, err = c.authed(ctx).SetBody(body).SetResult(&resp).Post(url); err != nil {
			return ports.TranslateResult{}, err
		}
	}
	if rr.IsError() {
		return ports.TranslateResult{}, fmt.Errorf("%s translate: %s; body: %s", c.ProviderType, rr.Status(), abbreviate(rr.String(), 500))
	}
	if len(resp.Choices) == 0 {
		return ports.TranslateResult{}, fmt.Errorf("no choices returned")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	tr, err := extractTranslation(content)
	if err != nil {
		return ports.TranslateResult{}, err
	}
	return ports.TranslateResult{Translation: tr, Raw: content}, nil
}

func (c *Client) translateOllama(ctx context.Context, p ports.TranslateParams) (ports.TranslateResult, error) {
	model := p.Model
	if model == "" {
		model = c.Model
	}
	body := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": p.SystemPrompt},
			{"role": "user", "content": p.UserPrompt},
		},
		"stream":  false,
		"format":  "json",
		"options": map[string]any{"temperature": p.Temperature},
	}
	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	rr, err := c.http.R().SetContext(ctx).SetHeader("Content-Type", "application/json").SetBody(body).SetResult(&resp).Post(c.ollamaURL("/api/chat"))
	if err != nil {
		return ports.TranslateResult{}, err
	}
	if rr.IsError() {
		return ports.TranslateResult{}, fmt.Errorf("ollama translate: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500))
	}
	content := strings.TrimSpace(resp.Message.Content)
	tr, err := extractTranslation(content)
	if err != nil {
		return ports.TranslateResult{}, err
	}
	return ports.TranslateResult{Translation: tr, Raw: content}, nil
}

func (c *Client) ollamaURL(tail string) string {
	base := c.BaseURL
	if base == "" {
		base = "http://localhost:11434"
	}
	return strings.TrimRight(base, "/") + tail
}

func (c *Client) chatURL(tail string) string {
	if c.ProviderType == TypeOpenRouter {
		base := c.BaseURL
		if base == "" {
			base = "https://openrouter.ai"
		}
		return openRouterURL(base, tail)
	}
	base := c.BaseURL
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return strings.TrimRight(base, "/") + tail
}

var translationRE = regexp.MustCompile(`(?s)"translation"\s*:\s*"(.*?)"`)

// extractTranslation pulls the translation out of a model reply. Models do
// not always honour JSON mode, so fenced blocks, embedded objects and
// labelled plain text are accepted too.
func extractTranslation(content string) (string, error) {
	s := strings.TrimSpace(content)
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := strings.TrimPrefix(s[idx+3:], "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}
	if t, ok := decodeTranslation(s); ok {
		return t, nil
	}
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			if t, ok := decodeTranslation(s[i : j+1]); ok {
				return t, nil
			}
		}
	}
	if !strings.Contains(s, "{") {
		lower := strings.ToLower(s)
		for _, k := range []string{"translation:", "translated:", "result:", "output:"} {
			if pos := strings.Index(lower, k); pos >= 0 && pos < 80 {
				if cand := strings.TrimSpace(s[pos+len(k):]); cand != "" {
					return cand, nil
				}
			}
		}
		if s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("failed to parse translation JSON; content: %s", abbreviate(s, 2000))
}

func decodeTranslation(s string) (string, bool) {
	var obj struct {
		Translation string `json:"translation"`
	}
	if err := json.Unmarshal([]byte(s), &obj); err == nil && obj.Translation != "" {
		return obj.Translation, true
	}
	if m := translationRE.FindStringSubmatch(s); len(m) == 2 {
		t := strings.ReplaceAll(m[1], `\n`, "\n")
		return strings.ReplaceAll(t, `\"`, `"`), true
	}
	return "", false
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// openRouterURL builds a URL for OpenRouter whether base contains /api/v1 or not.
func openRouterURL(base, tail string) string {
	b := strings.TrimRight(base, "/")
	if idx := strings.Index(b, "/api/v1"); idx >= 0 {
		return b[:idx+len("/api/v1")] + tail
	}
	return b + "/api/v1" + tail
}
