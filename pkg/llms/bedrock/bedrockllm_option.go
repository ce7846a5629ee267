package bedrock

import (
	"github.com/lvchiyang/aiteacher/pkg/llms/bedrock/internal/bedrockclient"
)

// Model IDs of Claude on Bedrock.
const (
	ModelAnthropicClaudeSonnet45 = "us.anthropic.claude-sonnet-4-5-20250929-v1:0"
	ModelAnthropicClaudeHaiku45  = "us.anthropic.claude-haiku-4-5-20251001-v1:0"
)

// Client is the part of the Bedrock runtime client used to call models.
type Client = bedrockclient.InvokeModelAPI

// Options are the client settings.
type Options struct {
	ModelID string
	Region  string
	// AccessKeyID and SecretAccessKey are static credentials,
	// the default AWS credential chain is used if empty.
	AccessKeyID     string
	SecretAccessKey string
	Client          Client
}

// Option is a functional option for the Bedrock client.
type Option func(*Options)

// WithModel sets the Bedrock model ID or inference profile.
func WithModel(modelID string) Option {
	return func(o *Options) {
		o.ModelID = modelID
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *Options) {
		o.Region = region
	}
}

// WithCredentials sets static AWS credentials.
func WithCredentials(accessKeyID, secretAccessKey string) Option {
	return func(o *Options) {
		o.AccessKeyID = accessKeyID
		o.SecretAccessKey = secretAccessKey
	}
}

// WithClient passes a configured Bedrock runtime client.
func WithClient(client Client) Option {
	return func(o *Options) {
		o.Client = client
	}
}
