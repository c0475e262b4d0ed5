package advisor

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/techflow/ai-recruiter/agent/contract"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

const screenerHistoryWindow = 10

type screener struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func newScreener(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
) (*screener, error) {
	runner, err := compileTextLLMGraph(ctx, chatModel, systemPrompt, "screener.response_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile screener graph: %v", contractx.ErrModelInvoke, err)
	}
	return &screener{runner: runner}, nil
}

func (s *screener) Respond(ctx context.Context, history []statex.Turn, message string) (string, error) {
	input := fmt.Sprintf("Conversation:\n%s\n\nCandidate: %s\n\nRespond:",
		transcript(history, screenerHistoryWindow), message)

	msg, err := s.runner.Invoke(ctx, map[string]any{"input": input})
	if err != nil {
		return "", fmt.Errorf("%w: screener invoke: %v", contractx.ErrModelInvoke, err)
	}
	text := ""
	if msg != nil {
		text = strings.TrimSpace(msg.Content)
	}
	if text == "" {
		return "", fmt.Errorf("%w: screener reply is empty", contractx.ErrSchemaViolation)
	}
	return text, nil
}
