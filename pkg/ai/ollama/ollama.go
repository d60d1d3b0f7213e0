package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/rxcheck/ddi/pkg/ai"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
	"golang.org/x/sync/semaphore"
)

// OllamaClient implements ai.Client on top of a local or remote Ollama server.
type OllamaClient struct {
	embeddingModel string
	chatModel      string
	embeddingDim   int

	reqLock *semaphore.Weighted
	usage   ai.UsageObserver

	countTokens func(string) int

	Client *api.Client
}

// NewOllamaClientParams contains configuration options for creating a new OllamaClient.
type NewOllamaClientParams struct {
	EmbeddingModel string
	ChatModel      string
	EmbeddingDim   int

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64

	Usage ai.UsageObserver
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewOllamaClient creates a new Ollama-based AI client. Without a BaseURL the
// server address is taken from OLLAMA_HOST.
func NewOllamaClient(
	params NewOllamaClientParams,
) (*OllamaClient, error) {
	var cli *api.Client
	if params.BaseURL == "" {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
		cli = c
	} else {
		u, err := url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}

		httpClient := http.DefaultClient
		if params.ApiKey != "" {
			httpClient = &http.Client{
				Transport: &headerTransport{
					headers: map[string]string{
						"Authorization": "Bearer " + params.ApiKey,
					},
					rt: http.DefaultTransport,
				},
			}
		}
		cli = api.NewClient(u, httpClient)
	}

	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = 1
	}

	return &OllamaClient{
		embeddingModel: params.EmbeddingModel,
		chatModel:      params.ChatModel,
		embeddingDim:   params.EmbeddingDim,

		reqLock: semaphore.NewWeighted(params.MaxConcurrentRequests),
		usage:   params.Usage,

		countTokens: newTokenCounter(),

		Client: cli,
	}, nil
}

// Name identifies the backend.
func (c *OllamaClient) Name() string { return "ollama" }

const tokenEncodingName = "cl100k_base"

var (
	encodingOnce  sync.Once
	tokenEncoding *tiktoken.Tiktoken
)

// newTokenCounter sizes prompts with the cl100k_base encoding, read once from
// the BPE ranks embedded in the binary. If the encoding cannot be built it
// falls back to four characters per token.
func newTokenCounter() func(string) int {
	encodingOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
		enc, err := tiktoken.GetEncoding(tokenEncodingName)
		if err != nil {
			return
		}
		tokenEncoding = enc
	})

	enc := tokenEncoding
	if enc == nil {
		return func(text string) int { return len(text) / 4 }
	}
	return func(text string) int { return len(enc.Encode(text, nil, nil)) }
}
