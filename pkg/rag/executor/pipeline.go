package executor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-legalchat-be/internal/constant"
	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/pkg/cancel"
	"ai-legalchat-be/pkg/rag/docshape"
	"ai-legalchat-be/pkg/rag/search"
	"ai-legalchat-be/pkg/store"

	"github.com/google/uuid"
)

// ConversationLog is the slice of the history store the pipeline needs.
type ConversationLog interface {
	EnsureConversation(ctx context.Context, sessionId uuid.UUID, userId uuid.UUID) (*entity.Conversation, error)
	Append(ctx context.Context, sessionId uuid.UUID, role, content string, metadata map[string]interface{}) error
	GetRecent(ctx context.Context, sessionId uuid.UUID, n int) ([]*entity.ConversationMessage, error)
}

// AnswerGenerator produces the final answer from question, context and
// history, honouring the turn's cancellation token.
type AnswerGenerator interface {
	Generate(ctx context.Context, question, contextBlock, historyBlock string, token *cancel.Token) (string, error)
}

// ChatTurnResult is the outcome of one completed chat turn.
type ChatTurnResult struct {
	Answer            string
	RelevantDocuments []store.Document
	Sources           []store.Source
	SessionID         string
	Timestamp         time.Time
}

// PipelineExecutor runs the retrieval-augmented chat turn: persist the
// inbound message, short-circuit greetings, retrieve and shape legal
// chunks, generate the answer, deduplicate sources and persist the
// outbound message. Cancellation is cooperative: the token is consulted
// before retrieval and before generation, and the generation adapter
// aborts mid-flight when the token fires.
type PipelineExecutor struct {
	history   ConversationLog
	searcher  search.Searcher
	shaper    *docshape.Shaper
	generator AnswerGenerator
	logger    *log.Logger
}

func NewPipelineExecutor(
	history ConversationLog,
	searcher search.Searcher,
	generator AnswerGenerator,
	logger *log.Logger,
) *PipelineExecutor {
	return &PipelineExecutor{
		history:   history,
		searcher:  searcher,
		shaper:    docshape.NewShaper(),
		generator: generator,
		logger:    logger,
	}
}

// Execute runs one chat turn for the session. The caller owns the token's
// registry lifecycle and releases it on every exit path.
func (p *PipelineExecutor) Execute(
	ctx context.Context,
	userId uuid.UUID,
	sessionId uuid.UUID,
	question string,
	token *cancel.Token,
) (*ChatTurnResult, error) {

	if sessionId == uuid.Nil {
		return nil, ErrSessionMissing
	}
	sessionIdStr := sessionId.String()

	// 1. Record inbound. History failures never block the answer.
	if _, err := p.history.EnsureConversation(ctx, sessionId, userId); err != nil {
		p.logger.Printf("[WARN] ensure conversation failed for %s: %v", sessionIdStr, err)
	} else if err := p.history.Append(ctx, sessionId, constant.ChatMessageRoleUser, question, nil); err != nil {
		p.logger.Printf("[WARN] persist inbound failed for %s: %v", sessionIdStr, err)
	}

	// 2. Greeting short-circuit.
	if isGreeting(question) {
		p.logger.Printf("[PIPELINE] Greeting detected for %s, skipping retrieval", sessionIdStr)
		return p.result(sessionIdStr, constant.GreetingAnswer, nil, nil), nil
	}

	// 3. Checkpoint before retrieval.
	if token != nil && token.Cancelled() {
		return nil, &CancelledError{SessionID: sessionIdStr}
	}

	// 4. Retrieve. Provider failure degrades to zero results.
	documents, err := p.searcher.Search(ctx, question, constant.RetrievalTopK)
	if err != nil {
		p.logger.Printf("[WARN] retrieval failed for %s: %v", sessionIdStr, err)
		documents = nil
	}

	// 5. Shape. Nothing usable means a canned answer without persistence.
	shaped := p.shaper.Shape(documents)
	if len(shaped) == 0 {
		p.logger.Printf("[PIPELINE] No usable documents for %s", sessionIdStr)
		return p.result(sessionIdStr, constant.NoDocumentAnswer, nil, nil), nil
	}

	// 6. Checkpoint before generation.
	if token != nil && token.Cancelled() {
		return nil, &CancelledError{SessionID: sessionIdStr}
	}

	// 7. Generate.
	contextBlock := docshape.ContextBlock(shaped, constant.DocumentSeparator)
	historyBlock := p.loadHistoryBlock(ctx, sessionId)

	answer, err := p.generator.Generate(ctx, question, contextBlock, historyBlock, token)
	if err != nil {
		if token != nil && token.Cancelled() {
			return nil, &CancelledError{SessionID: sessionIdStr}
		}
		p.logger.Printf("[WARN] generation failed for %s, using excerpt fallback: %v", sessionIdStr, err)
		// The excerpts themselves travel in RelevantDocuments; the answer
		// stays the fixed sentence.
		answer = constant.ExcerptsFallback
	}

	// 8. Deduplicate sources.
	sources := DeduplicateSources(shaped)

	// 9. Record outbound.
	metadata := map[string]interface{}{"sources": sources}
	if err := p.history.Append(ctx, sessionId, constant.ChatMessageRoleAssistant, answer, metadata); err != nil {
		p.logger.Printf("[WARN] persist outbound failed for %s: %v", sessionIdStr, err)
	}

	return p.result(sessionIdStr, answer, shaped, sources), nil
}

func (p *PipelineExecutor) result(sessionId, answer string, documents []store.Document, sources []store.Source) *ChatTurnResult {
	if documents == nil {
		documents = []store.Document{}
	}
	if sources == nil {
		sources = []store.Source{}
	}
	return &ChatTurnResult{
		Answer:            answer,
		RelevantDocuments: documents,
		Sources:           sources,
		SessionID:         sessionId,
		Timestamp:         time.Now(),
	}
}

// loadHistoryBlock renders the recent conversation as "role: content"
// lines. A failed read yields an empty block, never an error.
func (p *PipelineExecutor) loadHistoryBlock(ctx context.Context, sessionId uuid.UUID) string {
	messages, err := p.history.GetRecent(ctx, sessionId, constant.HistoryWindow)
	if err != nil {
		p.logger.Printf("[WARN] history load failed for %s: %v", sessionId, err)
		return ""
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// DeduplicateSources extracts citations from document metadata. A source
// needs url, titre and numero_loi all present; duplicates collapse by url
// with the first occurrence winning.
func DeduplicateSources(documents []store.Document) []store.Source {
	sources := make([]store.Source, 0, len(documents))
	seen := make(map[string]bool)

	for _, doc := range documents {
		url, _ := doc.Metadata[store.MetaURL].(string)
		titre, _ := doc.Metadata[store.MetaTitre].(string)
		numeroLoi, _ := doc.Metadata[store.MetaNumeroLoi].(string)

		if url == "" || titre == "" || numeroLoi == "" {
			continue
		}
		if seen[url] {
			continue
		}
		seen[url] = true
		sources = append(sources, store.Source{
			URL:       url,
			Titre:     titre,
			NumeroLoi: numeroLoi,
		})
	}
	return sources
}
