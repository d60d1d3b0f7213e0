package openai

import (
	"github.com/rxcheck/ddi/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// OpenAIClient talks to an OpenAI compatible API. It keeps separate SDK
// clients for chat completions and embeddings so both can point at
// different endpoints.
//
// An OpenAIClient should be created using NewOpenAIClient.
type OpenAIClient struct {
	embeddingModel string
	chatModel      string
	embeddingDim   int

	reqLock *semaphore.Weighted
	usage   ai.UsageObserver

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewOpenAIClientParams defines the configuration parameters for creating
// a new OpenAIClient.
//
// EmbeddingDim truncates or pads returned vectors; zero keeps the model's
// native size. MaxRetries is passed to the SDK; zero disables its retries so
// callers control the attempt budget. MaxConcurrentRequests bounds chat and
// embedding calls together. Usage, when set, receives per-call token counts.
type NewOpenAIClientParams struct {
	EmbeddingModel string
	ChatModel      string
	EmbeddingDim   int

	EmbeddingURL string
	EmbeddingKey string
	ChatURL      string
	ChatKey      string

	MaxRetries            int
	MaxConcurrentRequests int64

	Usage ai.UsageObserver
}

// NewOpenAIClient creates and returns a new OpenAIClient configured with
// the provided parameters. Clients whose key is empty stay nil and the
// matching operations fail with an error.
//
// Example:
//
//	client := openai.NewOpenAIClient(openai.NewOpenAIClientParams{
//		EmbeddingModel: "text-embedding-3-small",
//		ChatModel:      "gpt-4o-mini",
//		ChatKey:        os.Getenv("OPENAI_API_KEY"),
//		EmbeddingKey:   os.Getenv("OPENAI_API_KEY"),
//	})
func NewOpenAIClient(
	params NewOpenAIClientParams,
) *OpenAIClient {
	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = 1
	}

	return &OpenAIClient{
		embeddingModel: params.EmbeddingModel,
		chatModel:      params.ChatModel,
		embeddingDim:   params.EmbeddingDim,

		reqLock: semaphore.NewWeighted(params.MaxConcurrentRequests),
		usage:   params.Usage,

		ChatClient:      newOpenaiClient(params.ChatURL, params.ChatKey, params.MaxRetries),
		EmbeddingClient: newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey, params.MaxRetries),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
	maxRetries int,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(maxRetries),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

// Name identifies the backend.
func (c *OpenAIClient) Name() string { return "openai" }
