package finetune

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

const sampleConversations = `[
  {
    "id": "conv-1",
    "turns": [
      {"speaker": "recruiter", "text": "Tell me about your Python experience."},
      {"speaker": "candidate", "text": "I have 5 years with Django.", "label": "continue"},
      {"speaker": "recruiter", "text": "Great, want to schedule an interview?"},
      {"speaker": "candidate", "text": "No thanks, I found another job.", "label": "END"}
    ]
  },
  {
    "id": "conv-2",
    "turns": [
      {"speaker": "candidate", "text": "What is the salary?", "label": "OTHER"}
    ]
  }
]`

func TestBuildExitExamples(t *testing.T) {
	t.Parallel()

	convs, err := ReadConversations(strings.NewReader(sampleConversations))
	if err != nil {
		t.Fatalf("ReadConversations() error = %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("conversations = %d", len(convs))
	}

	examples := BuildExitExamples(convs)
	if len(examples) != 2 {
		t.Fatalf("examples = %d, only END/CONTINUE labels qualify", len(examples))
	}

	first := examples[0]
	if len(first.Messages) != 3 {
		t.Fatalf("messages = %d", len(first.Messages))
	}
	if first.Messages[0].Role != "system" {
		t.Fatalf("first role = %s", first.Messages[0].Role)
	}
	if first.Messages[2].Content != "CONTINUE" {
		t.Fatalf("completion = %q, labels are uppercased", first.Messages[2].Content)
	}
	history, latest, ok := strings.Cut(first.Messages[1].Content, "Latest message:")
	if !ok {
		t.Fatalf("user content = %q, missing latest-message marker", first.Messages[1].Content)
	}
	if !strings.Contains(history, "Recruiter: Tell me about your Python experience.") {
		t.Fatalf("history = %q", history)
	}
	if strings.Contains(history, "I have 5 years") {
		t.Fatal("the labeled turn itself must not leak into the history")
	}
	if !strings.Contains(latest, "I have 5 years with Django.") {
		t.Fatalf("latest message = %q", latest)
	}

	second := examples[1]
	if second.Messages[2].Content != "END" {
		t.Fatalf("completion = %q", second.Messages[2].Content)
	}
}

func TestWriteJSONL(t *testing.T) {
	t.Parallel()

	convs, err := ReadConversations(strings.NewReader(sampleConversations))
	if err != nil {
		t.Fatalf("ReadConversations() error = %v", err)
	}
	examples := BuildExitExamples(convs)

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, examples); err != nil {
		t.Fatalf("WriteJSONL() error = %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		lines++
		var ex TrainingExample
		if err := json.Unmarshal(scanner.Bytes(), &ex); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		if len(ex.Messages) != 3 {
			t.Fatalf("line %d messages = %d", lines, len(ex.Messages))
		}
	}
	if lines != len(examples) {
		t.Fatalf("lines = %d, want %d", lines, len(examples))
	}
}
