package openaiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tidwall/sjson"
)

const (
	// DefaultBaseURL is the OpenAI endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DashScopeBaseURL is the DashScope OpenAI-compatible endpoint.
	DashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

	// DefaultChatModel is used for OpenAI when no model is configured.
	DefaultChatModel = "gpt-4o-mini"
	// DefaultDashScopeModel is used for DashScope when no model is configured.
	DefaultDashScopeModel = "qwen-plus"

	// DefaultMaxRetries is the number of retries on transient HTTP errors.
	DefaultMaxRetries = 2
)

// ErrEmptyResponse is returned when the API returns no choices.
var ErrEmptyResponse = errors.New("empty response")

// Client is a chat completions client for OpenAI-compatible endpoints.
type Client struct {
	Model    string
	Provider llms.ProviderType

	baseURL string
	api     openai.Client
}

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns a new client.
func New(provider llms.ProviderType, model, token, baseURL, organization string, httpClient Doer) (*Client, error) {
	if token == "" {
		return nil, errors.New("missing API token")
	}
	c := &Client{
		Model:    model,
		Provider: provider,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
		if provider == llms.ProviderDashScope {
			c.baseURL = DashScopeBaseURL
		}
	}
	if c.Model == "" {
		c.Model = DefaultChatModel
		if provider == llms.ProviderDashScope {
			c.Model = DefaultDashScopeModel
		}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(token),
		option.WithBaseURL(c.baseURL),
		option.WithMaxRetries(DefaultMaxRetries),
	}
	if organization != "" {
		opts = append(opts, option.WithOrganization(organization))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	c.api = openai.NewClient(opts...)
	return c, nil
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateChat sends a chat completions request.
func (c *Client) CreateChat(ctx context.Context, r *ChatRequest) (*ChatCompletionResponse, error) {
	if r.Model == "" {
		r.Model = c.Model
	}

	body, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}
	// DashScope accepts sampling and thinking switches outside the OpenAI schema
	if c.Provider == llms.ProviderDashScope {
		if r.TopK > 0 {
			if body, err = sjson.SetBytes(body, "top_k", r.TopK); err != nil {
				return nil, errors.Wrap(err, "failed to set top_k")
			}
		}
		if body, err = sjson.SetBytes(body, "enable_thinking", r.EnableThinking); err != nil {
			return nil, errors.Wrap(err, "failed to set enable_thinking")
		}
	}

	var resp ChatCompletionResponse
	if err = c.api.Post(ctx, "chat/completions", body, &resp); err != nil {
		return nil, errors.WithMessagef(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return &resp, nil
}

// ChatRequest is a request to complete a chat completion.
type ChatRequest struct {
	Model       string         `json:"model"`
	Messages    []*ChatMessage `json:"messages"`
	Temperature float64        `json:"temperature"`
	TopP        float64        `json:"top_p,omitempty"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	StopWords   []string       `json:"stop,omitempty"`
	Seed        int            `json:"seed,omitempty"`

	Tools      []llms.Tool `json:"tools,omitempty"`
	ToolChoice any         `json:"tool_choice,omitempty"`

	ResponseFormat *llms.ResponseFormat `json:"response_format,omitempty"`
	Metadata       map[string]any       `json:"metadata,omitempty"`

	// TopK and EnableThinking are provider extensions
	TopK           int  `json:"-"`
	EnableThinking bool `json:"-"`
}

// ChatMessage is a message in a chat request or response.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`

	// ReasoningContent is returned by reasoning models.
	ReasoningContent string `json:"reasoning_content,omitempty"`
}

// ToolCall is a call to a tool.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction is the function of a tool call.
type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatCompletionChoice is a choice in a chat response.
type ChatCompletionChoice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

// ChatUsage is the token usage of a chat response.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is a response to a chat request.
type ChatCompletionResponse struct {
	ID      string                  `json:"id"`
	Model   string                  `json:"model"`
	Created int64                   `json:"created"`
	Choices []*ChatCompletionChoice `json:"choices"`
	Usage   ChatUsage               `json:"usage"`
}
