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

const (
	farewellBooked    = "Thank you for your time. You will receive a calendar invite for your interview shortly. We look forward to speaking with you!"
	farewellNotBooked = "Thank you for your time. We wish you the best in your job search!"

	exitHistoryWindow = 10
)

type exitClassifier struct {
	classifyRunner compose.Runnable[map[string]any, exitLLMOutput]
	farewellRunner compose.Runnable[map[string]any, *schema.Message]
}

type exitLLMOutput struct {
	Decision   string  `json:"decision"`
	Confidence float64 `json:"confidence"`
}

func newExitClassifier(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	classifyPrompt string,
	farewellPrompt string,
) (*exitClassifier, error) {
	classifyRunner, err := compileStructuredLLMGraph[exitLLMOutput](ctx, chatModel, classifyPrompt, "exit.classify_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile exit classify graph: %v", contractx.ErrModelInvoke, err)
	}
	farewellRunner, err := compileTextLLMGraph(ctx, chatModel, farewellPrompt, "exit.farewell_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile exit farewell graph: %v", contractx.ErrModelInvoke, err)
	}
	return &exitClassifier{
		classifyRunner: classifyRunner,
		farewellRunner: farewellRunner,
	}, nil
}

func (e *exitClassifier) Classify(ctx context.Context, history []statex.Turn, message string) (contractx.ExitDecision, error) {
	input := fmt.Sprintf("Conversation History:\n%s\n\nLatest Message: %s\n\nDecision:",
		transcript(history, exitHistoryWindow), message)

	out, err := e.classifyRunner.Invoke(ctx, map[string]any{"input": input})
	if err != nil {
		return contractx.ExitDecision{}, fmt.Errorf("%w: exit classify invoke: %v", contractx.ErrClassification, err)
	}

	decision := strings.ToUpper(strings.TrimSpace(out.Decision))
	if decision != "END" && decision != "CONTINUE" {
		return contractx.ExitDecision{}, fmt.Errorf("%w: exit decision %q", contractx.ErrSchemaViolation, out.Decision)
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return contractx.ExitDecision{}, fmt.Errorf("%w: exit confidence %v out of range", contractx.ErrSchemaViolation, out.Confidence)
	}

	return contractx.ExitDecision{
		Exit:       decision == "END",
		Confidence: out.Confidence,
	}, nil
}

func (e *exitClassifier) Farewell(ctx context.Context, history []statex.Turn, booked bool) (string, error) {
	outcome := "The candidate is not moving forward."
	if booked {
		outcome = "An interview has been booked."
	}
	input := fmt.Sprintf("Conversation History:\n%s\n\nOutcome: %s\n\nClosing message:",
		transcript(history, exitHistoryWindow), outcome)

	msg, err := e.farewellRunner.Invoke(ctx, map[string]any{"input": input})
	if err != nil || msg == nil || strings.TrimSpace(msg.Content) == "" {
		if booked {
			return farewellBooked, nil
		}
		return farewellNotBooked, nil
	}
	return strings.TrimSpace(msg.Content), nil
}

func transcript(history []statex.Turn, window int) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	lines := make([]string, 0, len(history))
	for _, t := range history {
		speaker := "Candidate"
		if t.Role == statex.RoleRecruiter {
			speaker = "Recruiter"
		}
		lines = append(lines, speaker+": "+t.Content)
	}
	if len(lines) == 0 {
		return "(no prior turns)"
	}
	return strings.Join(lines, "\n")
}
