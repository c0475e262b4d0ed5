package finetune

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// LabeledConversation is one recorded recruiter chat with routing labels on
// the turns that were reviewed.
type LabeledConversation struct {
	ID    string        `json:"id"`
	Turns []LabeledTurn `json:"turns"`
}

type LabeledTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Label   string `json:"label,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TrainingExample is one chat-format fine-tuning record.
type TrainingExample struct {
	Messages []chatMessage `json:"messages"`
}

const exitTuningSystemPrompt = `You are an exit detection advisor for a recruitment chatbot.
Determine if the conversation should END or CONTINUE.

END: Candidate not interested, asks to stop, or interview confirmed
CONTINUE: Candidate engaged, asking questions, or discussing scheduling

Output only: END or CONTINUE`

// ReadConversations decodes a labeled conversation dump.
func ReadConversations(r io.Reader) ([]LabeledConversation, error) {
	var convs []LabeledConversation
	if err := json.NewDecoder(r).Decode(&convs); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return convs, nil
}

// BuildExitExamples extracts every END/CONTINUE labeled turn into a training
// example. The conversation up to the labeled turn becomes the user content,
// the label becomes the expected completion.
func BuildExitExamples(convs []LabeledConversation) []TrainingExample {
	var examples []TrainingExample

	for _, conv := range convs {
		var history strings.Builder

		for _, turn := range conv.Turns {
			speaker := "Candidate"
			if turn.Speaker == "recruiter" {
				speaker = "Recruiter"
			}

			label := strings.ToUpper(strings.TrimSpace(turn.Label))
			if label == "END" || label == "CONTINUE" {
				examples = append(examples, TrainingExample{
					Messages: []chatMessage{
						{Role: "system", Content: exitTuningSystemPrompt},
						{Role: "user", Content: fmt.Sprintf("Conversation:\n%s\nLatest message: %s\n\nDecision:", history.String(), turn.Text)},
						{Role: "assistant", Content: label},
					},
				})
			}

			history.WriteString(speaker)
			history.WriteString(": ")
			history.WriteString(turn.Text)
			history.WriteString("\n")
		}
	}
	return examples
}

// WriteJSONL writes the examples in the one-object-per-line format the
// fine-tuning API expects.
func WriteJSONL(w io.Writer, examples []TrainingExample) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("encode training example: %w", err)
		}
	}
	return bw.Flush()
}

// PrepareExitDataset reads labeled conversations from conversationsPath and
// writes the exit-advisor training set to outputPath.
func PrepareExitDataset(conversationsPath, outputPath string) (int, error) {
	in, err := os.Open(conversationsPath)
	if err != nil {
		return 0, fmt.Errorf("open conversations: %w", err)
	}
	defer in.Close()

	convs, err := ReadConversations(in)
	if err != nil {
		return 0, err
	}
	examples := BuildExitExamples(convs)

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("create training file: %w", err)
	}
	defer out.Close()

	if err := WriteJSONL(out, examples); err != nil {
		return 0, err
	}
	return len(examples), nil
}
