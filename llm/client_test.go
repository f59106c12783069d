package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Endpoint: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func reply(w http.ResponseWriter, texts ...string) {
	var resp messagesResponse
	for _, t := range texts {
		resp.Content = append(resp.Content, contentBlock{Type: "text", Text: t})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// ============================================================================
// Client tests
// ============================================================================

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("NewClient() error = %v, want ErrNoAPIKey", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != DefaultModel || c.MaxAttempts() != 2 {
		t.Errorf("defaults = %q, %d", c.Model(), c.MaxAttempts())
	}
}

func TestComplete(t *testing.T) {
	var got messagesRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("X-Api-Key = %q", r.Header.Get("X-Api-Key"))
		}
		if r.Header.Get("Anthropic-Version") == "" {
			t.Error("missing Anthropic-Version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		reply(w, "first", "second")
	})

	text, err := c.Complete(context.Background(), Request{
		System: "sys",
		Text:   "hello",
		Image:  &Image{MediaType: "image/png", Data: []byte{1, 2, 3}},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "first\nsecond" {
		t.Errorf("Complete() = %q, want %q", text, "first\nsecond")
	}

	if got.System != "sys" || got.Model != DefaultModel || got.MaxTokens != 2048 {
		t.Errorf("request = %+v", got)
	}
	if len(got.Messages) != 1 || len(got.Messages[0].Content) != 2 {
		t.Fatalf("messages = %+v", got.Messages)
	}
	img := got.Messages[0].Content[0]
	if img.Type != "image" || img.Source == nil || img.Source.Data != base64.StdEncoding.EncodeToString([]byte{1, 2, 3}) {
		t.Errorf("image block = %+v", img)
	}
	if txt := got.Messages[0].Content[1]; txt.Type != "text" || txt.Text != "hello" {
		t.Errorf("text block = %+v", txt)
	}
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			check: func(err error) bool { return errors.Is(err, ErrRateLimited) },
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			},
			check: func(err error) bool {
				var se *StatusError
				return errors.As(err, &se) && se.StatusCode == 500 && se.Message == "boom"
			},
		},
		{
			name: "no text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				reply(w)
			},
			check: func(err error) bool { return errors.Is(err, ErrEmptyResponse) },
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			check: func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.Complete(context.Background(), Request{Text: "x"})
			if !tt.check(err) {
				t.Errorf("Complete() error = %v", err)
			}
		})
	}
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, Request{Text: "x"})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Complete() error = %v, want ErrTimeout", err)
	}
}

func TestNewTransport_Proxy(t *testing.T) {
	tr := newTransport("http://proxy.local:8080")
	req := httptest.NewRequest(http.MethodPost, "https://api.example.com/v1/messages", nil)
	u, err := tr.Proxy(req)
	if err != nil {
		t.Fatal(err)
	}
	if u == nil || u.Host != "proxy.local:8080" {
		t.Errorf("Proxy() = %v, want proxy.local:8080", u)
	}
}

// ============================================================================
// JSON extraction tests
// ============================================================================

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"plain fence", "here:\n```\n{\"a\": 1}\n```\nthanks", `{"a": 1}`, true},
		{"json fence preferred", "```\nnope\n```\n```json\n{}\n```", `{}`, true},
		{"unclosed", "```json\n{\"a\": 1}", "", false},
		{"no fence", `{"a": 1}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractJSON() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

type scripted struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scripted) Complete(ctx context.Context, req Request) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", ErrEmptyResponse
}

func TestAskJSON(t *testing.T) {
	type payload struct {
		Factor float64 `json:"scale_factor"`
	}

	t.Run("retry after malformed reply", func(t *testing.T) {
		s := &scripted{replies: []string{"I think it is 1/4 inch", "```json\n{\"scale_factor\": 48}\n```"}}
		var p payload
		if err := AskJSON(context.Background(), s, Request{}, 2, &p); err != nil {
			t.Fatalf("AskJSON() error = %v", err)
		}
		if p.Factor != 48 || s.calls != 2 {
			t.Errorf("Factor = %v after %d calls, want 48 after 2", p.Factor, s.calls)
		}
	})

	t.Run("budget exhausted", func(t *testing.T) {
		s := &scripted{replies: []string{"nope", "```json\n{bad\n```", "```json\n{}\n```"}}
		var p payload
		err := AskJSON(context.Background(), s, Request{}, 2, &p)
		if err == nil || !IsMalformed(err) {
			t.Errorf("AskJSON() error = %v, want malformed", err)
		}
		if s.calls != 2 {
			t.Errorf("calls = %d, want 2", s.calls)
		}
	})

	t.Run("transport error not retried", func(t *testing.T) {
		s := &scripted{errs: []error{ErrTimeout}}
		var p payload
		if err := AskJSON(context.Background(), s, Request{}, 3, &p); !errors.Is(err, ErrTimeout) {
			t.Errorf("AskJSON() error = %v, want ErrTimeout", err)
		}
		if s.calls != 1 {
			t.Errorf("calls = %d, want 1", s.calls)
		}
	})
}
