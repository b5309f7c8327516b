package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-legalchat-be/internal/constant"
	"ai-legalchat-be/pkg/cancel"
	"ai-legalchat-be/pkg/llm"
)

// Generator turns a question plus retrieved legal context into the final
// answer. Generation honours the turn's cancellation token: it checks the
// token before calling the provider and derives a context from it so an
// in-flight HTTP call aborts when the token fires.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewGenerator creates a new response generator
func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate produces the answer for one chat turn. contextBlock carries the
// shaped legal excerpts, historyBlock the recent conversation as
// "role: content" lines. A signalled token surfaces as an error wrapping
// cancel.ErrCancelled.
func (g *Generator) Generate(
	ctx context.Context,
	question string,
	contextBlock string,
	historyBlock string,
	token *cancel.Token,
) (string, error) {

	if token != nil && token.Cancelled() {
		return "", fmt.Errorf("generation skipped: %w", cancel.ErrCancelled)
	}

	genCtx := ctx
	if token != nil {
		var cancelFn context.CancelFunc
		genCtx, cancelFn = context.WithCancel(ctx)
		defer cancelFn()

		go func() {
			select {
			case <-token.Done():
				cancelFn()
			case <-genCtx.Done():
			}
		}()
	}

	prompt := g.buildPrompt(question, contextBlock, historyBlock)
	g.logger.Printf("[GENERATION] Prompt built (%d characters)", len(prompt))

	answer, err := g.llmProvider.Chat(genCtx, []llm.Message{
		{Role: "system", Content: constant.ChatSystemPromptV1},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		if token != nil && token.Cancelled() {
			return "", fmt.Errorf("generation aborted: %w", cancel.ErrCancelled)
		}
		return "", fmt.Errorf("llm generation failed: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

func (g *Generator) buildPrompt(question, contextBlock, historyBlock string) string {
	var prompt strings.Builder

	prompt.WriteString("<contexte_juridique>\n")
	prompt.WriteString("Extraits de lois béninoises, classés par pertinence:\n\n")
	prompt.WriteString(contextBlock)
	prompt.WriteString("\n</contexte_juridique>\n\n")

	if historyBlock != "" {
		prompt.WriteString("<historique>\n")
		prompt.WriteString(historyBlock)
		prompt.WriteString("\n</historique>\n\n")
	}

	prompt.WriteString("Question: ")
	prompt.WriteString(question)

	return prompt.String()
}
