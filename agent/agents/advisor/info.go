package advisor

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/techflow/ai-recruiter/agent/contract"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

const (
	defaultTopK            = 3
	defaultSimilarityFloor = 0.35
	infoHistoryWindow      = 6
)

var questionIndicators = []string{
	"?", "what", "how", "which", "when", "where", "who", "why",
	"tell me", "explain", "describe", "requirements", "salary",
	"benefits", "stack", "technology", "company", "team",
	"responsibilities", "experience needed",
}

type infoAdvisor struct {
	embedder        contractx.Embedder
	retriever       contractx.Retriever
	answerRunner    compose.Runnable[map[string]any, *schema.Message]
	topK            int
	similarityFloor float64
}

func newInfoAdvisor(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	embedder contractx.Embedder,
	retriever contractx.Retriever,
) (*infoAdvisor, error) {
	runner, err := compileTextLLMGraph(ctx, chatModel, systemPrompt, "info.answer_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile info answer graph: %v", contractx.ErrModelInvoke, err)
	}
	return &infoAdvisor{
		embedder:        embedder,
		retriever:       retriever,
		answerRunner:    runner,
		topK:            defaultTopK,
		similarityFloor: defaultSimilarityFloor,
	}, nil
}

// NeedsRetrieval reports whether a message looks like a question about the
// position rather than a screening answer.
func (a *infoAdvisor) NeedsRetrieval(message string) bool {
	lower := strings.ToLower(message)
	for _, indicator := range questionIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func (a *infoAdvisor) Answer(ctx context.Context, question string, history []statex.Turn) (contractx.Answer, error) {
	embedding, err := a.embedder.Embed(ctx, question)
	if err != nil {
		return contractx.Answer{}, fmt.Errorf("%w: embed question: %v", contractx.ErrRetrievalUnavailable, err)
	}

	passages, err := a.retrieve(ctx, embedding)
	if err != nil {
		return contractx.Answer{}, err
	}

	relevant := make([]contractx.Passage, 0, len(passages))
	for _, p := range passages {
		if p.Score >= a.similarityFloor {
			relevant = append(relevant, p)
		}
	}
	if len(relevant) == 0 {
		return contractx.Answer{}, fmt.Errorf("%w: question=%q", contractx.ErrNoRelevantPassages, question)
	}

	var sb strings.Builder
	sb.WriteString("Job description passages:\n")
	sources := make([]string, 0, len(relevant))
	for _, p := range relevant {
		sb.WriteString("- ")
		sb.WriteString(p.Text)
		sb.WriteString("\n")
		sources = append(sources, p.ID)
	}
	sb.WriteString("\nConversation History:\n")
	sb.WriteString(transcript(history, infoHistoryWindow))
	sb.WriteString("\n\nCandidate Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer:")

	msg, err := a.answerRunner.Invoke(ctx, map[string]any{"input": sb.String()})
	if err != nil {
		return contractx.Answer{}, fmt.Errorf("%w: info answer invoke: %v", contractx.ErrModelInvoke, err)
	}
	text := ""
	if msg != nil {
		text = strings.TrimSpace(msg.Content)
	}
	if text == "" {
		return contractx.Answer{}, fmt.Errorf("%w: info answer is empty", contractx.ErrSchemaViolation)
	}

	return contractx.Answer{Text: text, Sources: sources}, nil
}

// retrieve runs the similarity query, retrying once on a transient failure.
func (a *infoAdvisor) retrieve(ctx context.Context, embedding []float32) ([]contractx.Passage, error) {
	passages, err := a.retriever.Query(ctx, embedding, a.topK)
	if err == nil {
		return passages, nil
	}
	log.Warn().Err(err).Msg("passage retrieval failed, retrying once")

	passages, retryErr := a.retriever.Query(ctx, embedding, a.topK)
	if retryErr != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrRetrievalUnavailable, retryErr)
	}
	return passages, nil
}

// FallbackInfoReply returns a canned answer for common question topics. It is
// used when answer generation fails so the candidate still gets a useful reply.
func FallbackInfoReply(question string) string {
	lower := strings.ToLower(question)

	switch {
	case containsAny(lower, "requirement", "experience", "need"):
		return "We're looking for 3+ years of Python experience with web frameworks like Django or Flask. Does that match your background? I'd be happy to discuss more details in a quick call."
	case containsAny(lower, "salary", "compensation", "pay", "benefit"):
		return "We offer competitive compensation packages. I'd be happy to discuss specifics during an interview. Would you like to schedule a time to chat?"
	case containsAny(lower, "stack", "technology", "tools"):
		return "We use Python, Django/Flask, AWS, and Docker primarily. Does that align with your experience? I'd love to tell you more in an interview."
	case containsAny(lower, "remote", "location", "office", "hybrid"):
		return "We're based in Tel Aviv with a hybrid work model. Is that arrangement something that works for you?"
	default:
		return "That's a great question! I'd be happy to discuss that and more in an interview. What times work best for your schedule?"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
