// Package lyrics fetches song lyrics from a chat-completions service.
package lyrics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
)

const (
	// DefaultBaseURL is the OpenRouter API base URL.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is the model asked for lyrics.
	DefaultModel = "google/gemini-2.5-flash"
	// DefaultAPIKeyEnv names the environment variable holding the API key.
	DefaultAPIKeyEnv = "LYRICTYPE_API_KEY"
)

const systemInstruction = "You are a song lyrics assistant. Find the exact lyrics of the requested song and " +
	"return them as plain text. Remove all titles, artist names and structural labels such as " +
	"'[Chorus]' or '[Verse]'. Return only the lyrics."

var (
	// ErrNotFound is returned when the service answers without lyrics.
	ErrNotFound = errors.New("no lyrics found, try another song")
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("lyrics API key is not configured")
)

var headerPattern = regexp.MustCompile(`(?i)^\s*(lyrics|lời bài hát)\s*:\s*\n`)

// HTTPDoer abstracts HTTP clients used by the lyrics client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Source is a web page the service cited for the lyrics.
type Source struct {
	URL   string
	Title string
}

// Result is a lyrics answer.
type Result struct {
	Title   string
	Model   string
	Lyrics  string
	Sources []Source
	Cached  bool
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  HTTPDoer
}

// ClientFromEnv builds a client reading the API key from the named variable.
func ClientFromEnv(keyEnv, model, baseURL string, client HTTPDoer) (*Client, error) {
	if strings.TrimSpace(keyEnv) == "" {
		keyEnv = DefaultAPIKeyEnv
	}
	apiKey := strings.TrimSpace(os.Getenv(keyEnv))
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, keyEnv)
	}
	return NewClient(model, apiKey, baseURL, client)
}

// NewClient constructs a lyrics client with explicit settings.
func NewClient(model, apiKey, baseURL string, client HTTPDoer) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  client,
	}, nil
}

type chatMessage struct {
	Role        string           `json:"role"`
	Content     string           `json:"content"`
	Annotations []chatAnnotation `json:"annotations,omitempty"`
}

type chatAnnotation struct {
	Type        string `json:"type"`
	URLCitation struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"url_citation"`
}

type chatPlugin struct {
	ID string `json:"id"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Plugins  []chatPlugin  `json:"plugins,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Fetch asks the service for the lyrics of a song title.
func (c *Client) Fetch(ctx context.Context, title string) (Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Result{}, fmt.Errorf("song title is empty")
	}
	requestBody := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: fmt.Sprintf("Lyrics for the song %q. Output only the lyrics, without any introduction.", title)},
		},
		Plugins: []chatPlugin{{ID: "web"}},
	}
	payload, err := json.Marshal(requestBody)
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("lyrics service unavailable, try again later: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("lyrics service error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return Result{}, ErrNotFound
	}
	msg := decoded.Choices[0].Message
	text := CleanLyrics(msg.Content)
	if text == "" {
		return Result{}, ErrNotFound
	}
	return Result{
		Title:   title,
		Model:   c.Model,
		Lyrics:  text,
		Sources: sourcesFrom(msg.Annotations),
	}, nil
}

// CleanLyrics strips a leading "Lyrics:" header and surrounding whitespace.
func CleanLyrics(text string) string {
	text = headerPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func sourcesFrom(annotations []chatAnnotation) []Source {
	var sources []Source
	seen := map[string]struct{}{}
	for _, a := range annotations {
		if a.Type != "url_citation" || a.URLCitation.URL == "" {
			continue
		}
		if _, ok := seen[a.URLCitation.URL]; ok {
			continue
		}
		seen[a.URLCitation.URL] = struct{}{}
		sources = append(sources, Source{URL: a.URLCitation.URL, Title: a.URLCitation.Title})
	}
	return sources
}
