package executor

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-legalchat-be/internal/constant"
	"ai-legalchat-be/internal/entity"
	"ai-legalchat-be/pkg/cancel"
	"ai-legalchat-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeLog struct {
	ensureErr error
	appendErr error
	recent    []*entity.ConversationMessage

	appended []struct {
		role     string
		content  string
		metadata map[string]interface{}
	}
}

func (f *fakeLog) EnsureConversation(ctx context.Context, sessionId, userId uuid.UUID) (*entity.Conversation, error) {
	if f.ensureErr != nil {
		return nil, f.ensureErr
	}
	return &entity.Conversation{Id: uuid.New(), SessionId: sessionId, UserId: userId}, nil
}

func (f *fakeLog) Append(ctx context.Context, sessionId uuid.UUID, role, content string, metadata map[string]interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, struct {
		role     string
		content  string
		metadata map[string]interface{}
	}{role, content, metadata})
	return nil
}

func (f *fakeLog) GetRecent(ctx context.Context, sessionId uuid.UUID, n int) ([]*entity.ConversationMessage, error) {
	return f.recent, nil
}

type fakeSearcher struct {
	documents []store.Document
	err       error
	called    bool
	gotK      int

	// signalOnSearch cancels the session after retrieval returns, to
	// exercise the checkpoint between retrieval and generation.
	signalOnSearch func()
}

func (f *fakeSearcher) Search(ctx context.Context, query string, k int) ([]store.Document, error) {
	f.called = true
	f.gotK = k
	if f.signalOnSearch != nil {
		f.signalOnSearch()
	}
	return f.documents, f.err
}

type fakeGenerator struct {
	answer string
	err    error
	called bool

	gotContext string
	gotHistory string

	// onGenerate lets a test signal the token while generation runs.
	onGenerate func()
}

func (f *fakeGenerator) Generate(ctx context.Context, question, contextBlock, historyBlock string, token *cancel.Token) (string, error) {
	f.called = true
	f.gotContext = contextBlock
	f.gotHistory = historyBlock
	if f.onGenerate != nil {
		f.onGenerate()
	}
	return f.answer, f.err
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func legalDoc(id, text, url, titre, numeroLoi string) store.Document {
	return store.Document{
		ID:   id,
		Text: text,
		Metadata: map[string]interface{}{
			store.MetaURL:       url,
			store.MetaTitre:     titre,
			store.MetaNumeroLoi: numeroLoi,
			store.MetaContenu:   text,
		},
	}
}

func TestExecuteRejectsMissingSession(t *testing.T) {
	hist := &fakeLog{}
	p := NewPipelineExecutor(hist, &fakeSearcher{}, &fakeGenerator{}, discardLogger())

	_, err := p.Execute(context.Background(), uuid.New(), uuid.Nil, "question", nil)

	assert.ErrorIs(t, err, ErrSessionMissing)
	assert.Empty(t, hist.appended)
}

func TestExecuteGreetingShortCircuit(t *testing.T) {
	hist := &fakeLog{}
	searcher := &fakeSearcher{}
	gen := &fakeGenerator{}
	p := NewPipelineExecutor(hist, searcher, gen, discardLogger())

	result, err := p.Execute(context.Background(), uuid.New(), uuid.New(), "Bonjour !", nil)

	assert.NoError(t, err)
	assert.Equal(t, constant.GreetingAnswer, result.Answer)
	assert.Empty(t, result.RelevantDocuments)
	assert.Empty(t, result.Sources)
	assert.False(t, searcher.called)
	assert.False(t, gen.called)
	// Only the inbound user message is persisted.
	assert.Len(t, hist.appended, 1)
	assert.Equal(t, constant.ChatMessageRoleUser, hist.appended[0].role)
}

func TestExecuteFullTurn(t *testing.T) {
	hist := &fakeLog{
		recent: []*entity.ConversationMessage{
			{Role: "user", Content: "bonjour"},
			{Role: "assistant", Content: "salut"},
		},
	}
	searcher := &fakeSearcher{
		documents: []store.Document{
			legalDoc("a", "Article 1.", "https://lois.bj/1", "Code foncier", "2013-01"),
			legalDoc("b", "Article 2.", "https://lois.bj/2", "Code du travail", "1998-04"),
		},
	}
	gen := &fakeGenerator{answer: "Réponse fondée sur les articles."}
	p := NewPipelineExecutor(hist, searcher, gen, discardLogger())

	sessionId := uuid.New()
	result, err := p.Execute(context.Background(), uuid.New(), sessionId, "Que dit le code foncier ?", nil)

	assert.NoError(t, err)
	assert.Equal(t, constant.RetrievalTopK, searcher.gotK)
	assert.Equal(t, "Réponse fondée sur les articles.", result.Answer)
	assert.Equal(t, sessionId.String(), result.SessionID)
	assert.Len(t, result.RelevantDocuments, 2)
	assert.Equal(t, 0, result.RelevantDocuments[0].Rank)
	assert.Equal(t, 1, result.RelevantDocuments[1].Rank)
	assert.Len(t, result.Sources, 2)
	assert.False(t, result.Timestamp.IsZero())

	assert.Equal(t, "Article 1.\n\nArticle 2.", gen.gotContext)
	assert.Equal(t, "user: bonjour\nassistant: salut", gen.gotHistory)

	// Inbound then outbound, with sources recorded on the reply.
	assert.Len(t, hist.appended, 2)
	assert.Equal(t, constant.ChatMessageRoleAssistant, hist.appended[1].role)
	assert.NotNil(t, hist.appended[1].metadata["sources"])
}

func TestExecuteRetrievalFailureDegradesToNoDocuments(t *testing.T) {
	hist := &fakeLog{}
	searcher := &fakeSearcher{err: errors.New("pgvector down")}
	gen := &fakeGenerator{}
	p := NewPipelineExecutor(hist, searcher, gen, discardLogger())

	result, err := p.Execute(context.Background(), uuid.New(), uuid.New(), "question juridique", nil)

	assert.NoError(t, err)
	assert.Equal(t, constant.NoDocumentAnswer, result.Answer)
	assert.False(t, gen.called)
	// No outbound message for the canned no-document answer.
	assert.Len(t, hist.appended, 1)
}

func TestExecuteZeroResultsCannedAnswer(t *testing.T) {
	p := NewPipelineExecutor(&fakeLog{}, &fakeSearcher{}, &fakeGenerator{}, discardLogger())

	result, err := p.Execute(context.Background(), uuid.New(), uuid.New(), "question inconnue", nil)

	assert.NoError(t, err)
	assert.Equal(t, constant.NoDocumentAnswer, result.Answer)
	assert.Empty(t, result.Sources)
}

func TestExecuteCancelledBeforeRetrieval(t *testing.T) {
	registry := cancel.NewRegistry()
	sessionId := uuid.New()
	token := registry.CreateToken(sessionId.String())
	registry.Signal(sessionId.String())

	searcher := &fakeSearcher{}
	p := NewPipelineExecutor(&fakeLog{}, searcher, &fakeGenerator{}, discardLogger())

	_, err := p.Execute(context.Background(), uuid.New(), sessionId, "question", token)

	var cancelled *CancelledError
	assert.ErrorAs(t, err, &cancelled)
	assert.Equal(t, sessionId.String(), cancelled.SessionID)
	assert.False(t, searcher.called)
}

func TestExecuteCancelledBetweenRetrievalAndGeneration(t *testing.T) {
	registry := cancel.NewRegistry()
	sessionId := uuid.New()
	token := registry.CreateToken(sessionId.String())

	searcher := &fakeSearcher{
		documents: []store.Document{
			legalDoc("a", "Article 1.", "https://lois.bj/1", "Code foncier", "2013-01"),
		},
		signalOnSearch: func() { registry.Signal(sessionId.String()) },
	}
	gen := &fakeGenerator{}
	p := NewPipelineExecutor(&fakeLog{}, searcher, gen, discardLogger())

	_, err := p.Execute(context.Background(), uuid.New(), sessionId, "question", token)

	var cancelled *CancelledError
	assert.ErrorAs(t, err, &cancelled)
	assert.True(t, searcher.called)
	assert.False(t, gen.called)
}

func TestExecuteGenerationCancellationPropagates(t *testing.T) {
	registry := cancel.NewRegistry()
	sessionId := uuid.New()
	token := registry.CreateToken(sessionId.String())

	searcher := &fakeSearcher{
		documents: []store.Document{
			legalDoc("a", "Article 1.", "https://lois.bj/1", "Code foncier", "2013-01"),
		},
	}
	// The token fires while the provider call is in flight.
	gen := &fakeGenerator{
		err:        cancel.ErrCancelled,
		onGenerate: func() { registry.Signal(sessionId.String()) },
	}
	hist := &fakeLog{}
	p := NewPipelineExecutor(hist, searcher, gen, discardLogger())

	_, err := p.Execute(context.Background(), uuid.New(), sessionId, "question", token)

	var cancelled *CancelledError
	assert.ErrorAs(t, err, &cancelled)
	assert.True(t, gen.called)
	// No outbound message once the turn is cancelled.
	assert.Len(t, hist.appended, 1)
}

func TestExecuteGenerationFailureFallsBackToExcerpts(t *testing.T) {
	hist := &fakeLog{}
	searcher := &fakeSearcher{
		documents: []store.Document{
			legalDoc("a", "Article 7 de la loi.", "https://lois.bj/7", "Code pénal", "2018-16"),
		},
	}
	gen := &fakeGenerator{err: errors.New("llm timeout")}
	p := NewPipelineExecutor(hist, searcher, gen, discardLogger())

	result, err := p.Execute(context.Background(), uuid.New(), uuid.New(), "question", nil)

	assert.NoError(t, err)
	assert.Equal(t, constant.ExcerptsFallback, result.Answer)
	// The excerpts stay out of the answer; they ride along as documents.
	assert.Len(t, result.RelevantDocuments, 1)
	assert.Equal(t, "Article 7 de la loi.", result.RelevantDocuments[0].Text)
	assert.Len(t, result.Sources, 1)
	// The fallback answer is still persisted as the reply.
	assert.Len(t, hist.appended, 2)
}

func TestExecuteHistoryFailuresAreSwallowed(t *testing.T) {
	hist := &fakeLog{ensureErr: errors.New("db down"), appendErr: errors.New("db down")}
	searcher := &fakeSearcher{
		documents: []store.Document{
			legalDoc("a", "Article 1.", "https://lois.bj/1", "Code foncier", "2013-01"),
		},
	}
	gen := &fakeGenerator{answer: "réponse"}
	p := NewPipelineExecutor(hist, searcher, gen, discardLogger())

	result, err := p.Execute(context.Background(), uuid.New(), uuid.New(), "question", nil)

	assert.NoError(t, err)
	assert.Equal(t, "réponse", result.Answer)
}

func TestDeduplicateSourcesFirstSeenWins(t *testing.T) {
	documents := []store.Document{
		legalDoc("a", "x", "https://lois.bj/1", "Code foncier", "2013-01"),
		legalDoc("b", "y", "https://lois.bj/1", "Code foncier (bis)", "2013-01"),
		legalDoc("c", "z", "https://lois.bj/2", "Code du travail", "1998-04"),
	}

	sources := DeduplicateSources(documents)

	assert.Len(t, sources, 2)
	assert.Equal(t, "Code foncier", sources[0].Titre)
	assert.Equal(t, "https://lois.bj/2", sources[1].URL)
}

func TestDeduplicateSourcesRequiresAllFields(t *testing.T) {
	documents := []store.Document{
		{Metadata: map[string]interface{}{store.MetaURL: "https://lois.bj/1", store.MetaTitre: "T"}},
		{Metadata: map[string]interface{}{store.MetaURL: "https://lois.bj/2", store.MetaNumeroLoi: "2013-01"}},
		legalDoc("ok", "x", "https://lois.bj/3", "Code", "2013-01"),
	}

	sources := DeduplicateSources(documents)

	assert.Len(t, sources, 1)
	assert.Equal(t, "https://lois.bj/3", sources[0].URL)
}

func TestIsGreeting(t *testing.T) {
	cases := []struct {
		question string
		want     bool
	}{
		{"Bonjour", true},
		{"Bonjour !", true},
		{"  salut tout le monde", true},
		{"HELLO there", true},
		{"merci beaucoup", true},
		{"hey, ça va ?", true},
		{"Que dit la loi sur le foncier ?", false},
		{"", false},
		{"le bonjour n'est pas en préfixe", false},
		// A greeting word as a prefix of a longer word is not a greeting.
		{"Histoire de la constitution béninoise ?", false},
		{"Hier, quelle loi a été votée ?", false},
		{"Salutations, que dit le code foncier ?", false},
		{"Merciful n'est pas merci", false},
	}

	for _, tc := range cases {
		t.Run(tc.question, func(t *testing.T) {
			assert.Equal(t, tc.want, isGreeting(tc.question))
		})
	}
}
