package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/techflow/ai-recruiter/agent/contract"
	statex "github.com/techflow/ai-recruiter/agent/state"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type fakeRetriever struct {
	passages []contractx.Passage
	errs     []error
	calls    int
}

func (f *fakeRetriever) Query(ctx context.Context, embedding []float32, topK int) ([]contractx.Passage, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.passages, nil
}

func TestExitClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		content        string
		wantExit       bool
		wantConfidence float64
		wantErr        error
	}{
		{
			name:           "end decision",
			content:        `{"decision":"END","confidence":0.95}`,
			wantExit:       true,
			wantConfidence: 0.95,
		},
		{
			name:           "continue decision",
			content:        `{"decision":"CONTINUE","confidence":0.8}`,
			wantExit:       false,
			wantConfidence: 0.8,
		},
		{
			name:    "unknown decision",
			content: `{"decision":"MAYBE","confidence":0.5}`,
			wantErr: contractx.ErrSchemaViolation,
		},
		{
			name:    "confidence out of range",
			content: `{"decision":"END","confidence":1.4}`,
			wantErr: contractx.ErrSchemaViolation,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeToolCallingModel{
				responses: []*schema.Message{{Content: tt.content}},
			}
			exit, err := newExitClassifier(context.Background(), fake, "exit prompt", "farewell prompt")
			if err != nil {
				t.Fatalf("newExitClassifier() error = %v", err)
			}

			got, err := exit.Classify(context.Background(), nil, "not interested, thanks")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Classify() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got.Exit != tt.wantExit || got.Confidence != tt.wantConfidence {
				t.Fatalf("Classify() = %+v", got)
			}
		})
	}
}

func TestExitClassifyModelFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("model unavailable")}
	exit, err := newExitClassifier(context.Background(), fake, "exit prompt", "farewell prompt")
	if err != nil {
		t.Fatalf("newExitClassifier() error = %v", err)
	}

	_, err = exit.Classify(context.Background(), nil, "bye")
	if !errors.Is(err, contractx.ErrClassification) {
		t.Fatalf("Classify() error = %v, want ErrClassification", err)
	}
}

func TestExitFarewellFallsBackOnFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("model unavailable")}
	exit, err := newExitClassifier(context.Background(), fake, "exit prompt", "farewell prompt")
	if err != nil {
		t.Fatalf("newExitClassifier() error = %v", err)
	}

	got, err := exit.Farewell(context.Background(), nil, true)
	if err != nil {
		t.Fatalf("Farewell() error = %v", err)
	}
	if !strings.Contains(got, "calendar invite") {
		t.Fatalf("Farewell(booked) = %q", got)
	}

	got, err = exit.Farewell(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("Farewell() error = %v", err)
	}
	if !strings.Contains(got, "best in your job search") {
		t.Fatalf("Farewell(not booked) = %q", got)
	}
}

func TestInfoNeedsRetrieval(t *testing.T) {
	t.Parallel()

	info := &infoAdvisor{}

	tests := []struct {
		message string
		want    bool
	}{
		{"What's the salary range?", true},
		{"tell me about the team", true},
		{"Is this remote?", true},
		{"I have 5 years of Django experience.", false},
		{"Sounds good.", false},
	}
	for _, tt := range tests {
		if got := info.NeedsRetrieval(tt.message); got != tt.want {
			t.Errorf("NeedsRetrieval(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestInfoAnswerSuccess(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{{Content: "We use Python and Django. Does your experience align with this stack?"}},
	}
	retriever := &fakeRetriever{
		passages: []contractx.Passage{
			{ID: "jd-stack", Text: "Stack: Python 3.10, Django, PostgreSQL, AWS.", Score: 0.9},
			{ID: "jd-noise", Text: "Unrelated blurb.", Score: 0.1},
		},
	}

	info, err := newInfoAdvisor(context.Background(), fake, "info prompt", &fakeEmbedder{vec: []float32{0.1}}, retriever)
	if err != nil {
		t.Fatalf("newInfoAdvisor() error = %v", err)
	}

	ans, err := info.Answer(context.Background(), "What is the tech stack?", nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !strings.Contains(ans.Text, "Python") {
		t.Fatalf("Answer().Text = %q", ans.Text)
	}
	if len(ans.Sources) != 1 || ans.Sources[0] != "jd-stack" {
		t.Fatalf("Answer().Sources = %#v, want only passages above the similarity floor", ans.Sources)
	}
}

func TestInfoAnswerRetriesRetrievalOnce(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{{Content: "The role is hybrid. Does that work for you?"}},
	}
	retriever := &fakeRetriever{
		passages: []contractx.Passage{{ID: "jd-loc", Text: "Hybrid, Tel Aviv office.", Score: 0.8}},
		errs:     []error{errors.New("transient")},
	}

	info, err := newInfoAdvisor(context.Background(), fake, "info prompt", &fakeEmbedder{vec: []float32{0.1}}, retriever)
	if err != nil {
		t.Fatalf("newInfoAdvisor() error = %v", err)
	}

	if _, err := info.Answer(context.Background(), "Is this remote?", nil); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if retriever.calls != 2 {
		t.Fatalf("retriever calls = %d, want 2", retriever.calls)
	}
}

func TestInfoAnswerRetrievalUnavailable(t *testing.T) {
	t.Parallel()

	retriever := &fakeRetriever{
		errs: []error{errors.New("down"), errors.New("still down")},
	}
	info, err := newInfoAdvisor(context.Background(), &fakeToolCallingModel{}, "info prompt", &fakeEmbedder{vec: []float32{0.1}}, retriever)
	if err != nil {
		t.Fatalf("newInfoAdvisor() error = %v", err)
	}

	_, err = info.Answer(context.Background(), "What is the salary?", nil)
	if !errors.Is(err, contractx.ErrRetrievalUnavailable) {
		t.Fatalf("Answer() error = %v, want ErrRetrievalUnavailable", err)
	}
	if retriever.calls != 2 {
		t.Fatalf("retriever calls = %d, want 2", retriever.calls)
	}
}

func TestInfoAnswerNoRelevantPassages(t *testing.T) {
	t.Parallel()

	retriever := &fakeRetriever{
		passages: []contractx.Passage{{ID: "jd-noise", Text: "Unrelated.", Score: 0.05}},
	}
	info, err := newInfoAdvisor(context.Background(), &fakeToolCallingModel{}, "info prompt", &fakeEmbedder{vec: []float32{0.1}}, retriever)
	if err != nil {
		t.Fatalf("newInfoAdvisor() error = %v", err)
	}

	_, err = info.Answer(context.Background(), "Do you sponsor visas?", nil)
	if !errors.Is(err, contractx.ErrNoRelevantPassages) {
		t.Fatalf("Answer() error = %v, want ErrNoRelevantPassages", err)
	}
}

func TestFallbackInfoReply(t *testing.T) {
	t.Parallel()

	if got := FallbackInfoReply("What is the salary?"); !strings.Contains(got, "compensation") {
		t.Errorf("salary fallback = %q", got)
	}
	if got := FallbackInfoReply("Is the office remote?"); !strings.Contains(got, "hybrid") {
		t.Errorf("location fallback = %q", got)
	}
	if got := FallbackInfoReply("Why is the sky blue?"); !strings.Contains(got, "interview") {
		t.Errorf("generic fallback = %q", got)
	}
}

func TestScreenerRespond(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{{Content: "Great! How many years have you worked with Django?"}},
	}
	s, err := newScreener(context.Background(), fake, "screener prompt")
	if err != nil {
		t.Fatalf("newScreener() error = %v", err)
	}

	history := []statex.Turn{
		{Role: statex.RoleRecruiter, Content: "Tell me about your Python experience."},
	}
	got, err := s.Respond(context.Background(), history, "I have 5 years of experience.")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if !strings.Contains(got, "Django") {
		t.Fatalf("Respond() = %q", got)
	}
}

func TestScreenerRespondModelFailure(t *testing.T) {
	t.Parallel()

	s, err := newScreener(context.Background(), &fakeToolCallingModel{err: errors.New("boom")}, "screener prompt")
	if err != nil {
		t.Fatalf("newScreener() error = %v", err)
	}
	_, err = s.Respond(context.Background(), nil, "hello")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Respond() error = %v, want ErrModelInvoke", err)
	}
}
