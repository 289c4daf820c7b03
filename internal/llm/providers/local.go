// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Message is a single chat turn exchanged with a provider.
type Message struct {
	Role    string
	Content string
}

// Provider abstracts the hosted language model used for prose generation and
// query embeddings.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Embed(ctx context.Context, input []string) ([][]float32, error)
	Name() string
}

// ErrNoEmbeddings signals that the active provider cannot produce vectors and
// callers should use their lexical fallback.
var ErrNoEmbeddings = errors.New("embeddings not supported by local provider")

// LocalProvider is the offline fallback used when no OpenAI key is present.
// Chat responses echo the assembled analysis so the CLI and tests stay usable
// without network access.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := strings.TrimSpace(messages[len(messages)-1].Content)
	return "[offline analysis]\n" + last, nil
}

func (l *LocalProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	return nil, ErrNoEmbeddings
}

func (l *LocalProvider) Name() string {
	return "local"
}
