package response

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"ai-legalchat-be/pkg/cancel"
	"ai-legalchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type fakeLLM struct {
	answer string
	err    error
	block  bool

	gotHistory []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.gotHistory = history
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.answer, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestGenerateReturnsProviderAnswer(t *testing.T) {
	provider := &fakeLLM{answer: "  L'article 12 s'applique.  "}
	generator := NewGenerator(provider, testLogger())

	registry := cancel.NewRegistry()
	token := registry.CreateToken("s1")

	answer, err := generator.Generate(context.Background(), "Que dit l'article 12 ?", "Article 12...", "", token)

	assert.NoError(t, err)
	assert.Equal(t, "L'article 12 s'applique.", answer)
	assert.Len(t, provider.gotHistory, 2)
	assert.Equal(t, "system", provider.gotHistory[0].Role)
	assert.Contains(t, provider.gotHistory[1].Content, "Que dit l'article 12 ?")
	assert.Contains(t, provider.gotHistory[1].Content, "Article 12...")
}

func TestGenerateSkipsWhenAlreadyCancelled(t *testing.T) {
	provider := &fakeLLM{answer: "never"}
	generator := NewGenerator(provider, testLogger())

	registry := cancel.NewRegistry()
	token := registry.CreateToken("s1")
	registry.Signal("s1")

	_, err := generator.Generate(context.Background(), "question", "ctx", "", token)

	assert.ErrorIs(t, err, cancel.ErrCancelled)
	assert.Nil(t, provider.gotHistory)
}

func TestGenerateAbortsInFlightOnSignal(t *testing.T) {
	provider := &fakeLLM{block: true}
	generator := NewGenerator(provider, testLogger())

	registry := cancel.NewRegistry()
	token := registry.CreateToken("s1")

	go func() {
		time.Sleep(20 * time.Millisecond)
		registry.Signal("s1")
	}()

	_, err := generator.Generate(context.Background(), "question", "ctx", "", token)

	assert.ErrorIs(t, err, cancel.ErrCancelled)
}

func TestGenerateProviderErrorIsNotCancellation(t *testing.T) {
	provider := &fakeLLM{err: errors.New("upstream 500")}
	generator := NewGenerator(provider, testLogger())

	registry := cancel.NewRegistry()
	token := registry.CreateToken("s1")

	_, err := generator.Generate(context.Background(), "question", "ctx", "", token)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, cancel.ErrCancelled)
}

func TestGenerateIncludesHistoryBlock(t *testing.T) {
	provider := &fakeLLM{answer: "ok"}
	generator := NewGenerator(provider, testLogger())

	_, err := generator.Generate(context.Background(), "suite ?", "ctx", "user: bonjour\nassistant: salut", nil)

	assert.NoError(t, err)
	assert.Contains(t, provider.gotHistory[1].Content, "user: bonjour")
}
