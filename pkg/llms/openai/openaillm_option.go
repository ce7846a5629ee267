package openai

import (
	"os"

	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/lvchiyang/aiteacher/pkg/llms/openai/internal/openaiclient"
)

const (
	tokenEnvVarName          = "OPENAI_API_KEY"    //nolint:gosec
	dashScopeTokenEnvVarName = "DASHSCOPE_API_KEY" //nolint:gosec
	modelEnvVarName          = "OPENAI_MODEL"
	baseURLEnvVarName        = "OPENAI_BASE_URL"
	organizationEnvVarName   = "OPENAI_ORGANIZATION"
)

// Default endpoints
const (
	DefaultBaseURL   = openaiclient.DefaultBaseURL
	DashScopeBaseURL = openaiclient.DashScopeBaseURL
)

type options struct {
	token        string
	model        string
	baseURL      string
	organization string
	provider     llms.ProviderType
	httpClient   openaiclient.Doer
}

// Option is a functional option for the OpenAI client.
type Option func(*options)

// WithToken passes the API token to the client. If not set, the token
// is read from the DASHSCOPE_API_KEY environment variable for DashScope,
// or OPENAI_API_KEY otherwise.
func WithToken(token string) Option {
	return func(opts *options) {
		opts.token = token
	}
}

// WithModel passes the model to the client. If not set, the model
// is read from the OPENAI_MODEL environment variable.
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithBaseURL passes the base url to the client. If not set, the base url
// is read from the OPENAI_BASE_URL environment variable, then defaults
// to the endpoint of the provider.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithOrganization passes the OpenAI organization to the client. If not set, the
// organization is read from the OPENAI_ORGANIZATION.
func WithOrganization(organization string) Option {
	return func(opts *options) {
		opts.organization = organization
	}
}

// WithProvider sets the provider type. If not set, the default value
// is llms.ProviderOpenAI.
func WithProvider(provider llms.ProviderType) Option {
	return func(opts *options) {
		opts.provider = provider
	}
}

// WithHTTPClient allows setting a custom HTTP client. If not set, the default value
// is http.DefaultClient.
func WithHTTPClient(client openaiclient.Doer) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

func newOptions(opts ...Option) *options {
	o := &options{
		provider: llms.ProviderOpenAI,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.token == "" {
		if o.provider == llms.ProviderDashScope {
			o.token = os.Getenv(dashScopeTokenEnvVarName)
		} else {
			o.token = os.Getenv(tokenEnvVarName)
		}
	}
	if o.model == "" {
		o.model = os.Getenv(modelEnvVarName)
	}
	if o.baseURL == "" && o.provider == llms.ProviderOpenAI {
		o.baseURL = os.Getenv(baseURLEnvVarName)
	}
	if o.organization == "" && o.provider == llms.ProviderOpenAI {
		o.organization = os.Getenv(organizationEnvVarName)
	}
	return o
}
