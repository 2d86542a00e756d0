package mock

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/verta/pkg/models"
)

// Calls counts how often each capability was used.
type Calls struct {
	Upload    int
	Status    int
	Delete    int
	InitModel int
	Generate  int
}

// MockProvider satisfies models.AnalysisProvider for tests and local demos.
// Nil func fields fall back to succeeding defaults.
type MockProvider struct {
	Name_         string
	UploadFunc    func(ctx context.Context, content io.ReadSeeker, filename, mimeType string) (models.RemoteFileHandle, error)
	StatusFunc    func(ctx context.Context, handle models.RemoteFileHandle) (models.RemoteStatus, error)
	DeleteFunc    func(ctx context.Context, handle models.RemoteFileHandle) error
	InitModelFunc func(ctx context.Context, id string) (models.ModelHandle, error)
	GenerateFunc  func(ctx context.Context, model models.ModelHandle, prompt string, file models.RemoteFileHandle) (string, error)

	mu    sync.Mutex
	calls Calls
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Upload(ctx context.Context, content io.ReadSeeker, filename, mimeType string) (models.RemoteFileHandle, error) {
	m.record(func(c *Calls) { c.Upload++ })
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, content, filename, mimeType)
	}
	return models.RemoteFileHandle{
		Name:     "files/" + uuid.NewString(),
		URI:      "mock://files/" + filename,
		MIMEType: mimeType,
	}, nil
}

func (m *MockProvider) Status(ctx context.Context, handle models.RemoteFileHandle) (models.RemoteStatus, error) {
	m.record(func(c *Calls) { c.Status++ })
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, handle)
	}
	return models.RemoteStatusActive, nil
}

func (m *MockProvider) Delete(ctx context.Context, handle models.RemoteFileHandle) error {
	m.record(func(c *Calls) { c.Delete++ })
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, handle)
	}
	return nil
}

func (m *MockProvider) InitModel(ctx context.Context, id string) (models.ModelHandle, error) {
	m.record(func(c *Calls) { c.InitModel++ })
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, id)
	}
	return models.ModelHandle{ID: id}, nil
}

func (m *MockProvider) Generate(ctx context.Context, model models.ModelHandle, prompt string, file models.RemoteFileHandle) (string, error) {
	m.record(func(c *Calls) { c.Generate++ })
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, model, prompt, file)
	}
	return FencedReport(), nil
}

// Calls returns a snapshot of the call counters.
func (m *MockProvider) Calls() Calls {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockProvider) record(f func(*Calls)) {
	m.mu.Lock()
	f(&m.calls)
	m.mu.Unlock()
}

// NewMockProvider returns a MockProvider whose files activate immediately
// and whose model answers with Report wrapped in a json code fence.
func NewMockProvider() *MockProvider {
	return &MockProvider{Name_: "mock"}
}

// NewFailingProvider returns a MockProvider whose upload always fails with err.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		UploadFunc: func(_ context.Context, _ io.ReadSeeker, _, _ string) (models.RemoteFileHandle, error) {
			return models.RemoteFileHandle{}, err
		},
	}
}

// NewTimeoutProvider returns a MockProvider whose generation blocks until ctx is done.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		GenerateFunc: func(ctx context.Context, _ models.ModelHandle, _ string, _ models.RemoteFileHandle) (string, error) {
			<-ctx.Done()
			return "", models.ErrInferenceTimeout
		},
	}
}

// NewStatusSequenceProvider returns a MockProvider whose Status walks through
// statuses in order and then repeats the last one.
func NewStatusSequenceProvider(statuses ...models.RemoteStatus) *MockProvider {
	p := &MockProvider{Name_: "mock-sequence"}
	var mu sync.Mutex
	i := 0
	p.StatusFunc = func(_ context.Context, _ models.RemoteFileHandle) (models.RemoteStatus, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(statuses) == 0 {
			return models.RemoteStatusProcessing, nil
		}
		s := statuses[min(i, len(statuses)-1)]
		i++
		return s, nil
	}
	return p
}

// Report is the analysis the default mock model returns.
func Report() models.AnalysisResult {
	return models.AnalysisResult{
		FileInfo: models.FileInfo{
			Filename:     "mock-meeting.mp4",
			ProcessedAt:  "2025-01-01T00:00:00Z",
			AnalysisType: "VERTA AI Analysis (mock model)",
			Status:       "completed",
		},
		Segments: []models.Segment{
			{
				TimeRange:       "00:00–00:45",
				Speaker:         "Speaker A",
				Transcript:      `Speaker A: "Okay, um, let's get started. Quick round of updates?"`,
				Sentiment:       "Neutral",
				SentimentReason: "Routine opening",
				Topic:           "Standup kickoff",
			},
			{
				TimeRange:       "00:45–01:30",
				Speaker:         "Speaker B",
				Transcript:      `[00:45] Speaker B: "I finished the upload fix yesterday, uh, reviews are pending."`,
				Sentiment:       "Positive",
				SentimentReason: "Reports completed work",
				Topic:           "Status update",
			},
		},
		EngagementScore: models.EngagementScore{Score: 72, Explanation: "Short meeting with balanced participation"},
		MeetingSummary: models.MeetingSummary{
			KeyPoints:       []string{"Upload fix is complete"},
			Decisions:       []string{"Merge after review"},
			OpenQuestions:   []string{"Who reviews the fix?"},
			RisksOrConcerns: []string{},
		},
		ActionItems: []models.ActionItem{
			{Description: "Review the upload fix", Owner: "Speaker A", Priority: models.PriorityMedium},
		},
		ImprovementSuggestions: []string{"Share the agenda before the meeting"},
	}
}

// FencedReport returns Report encoded as JSON inside a ```json fence.
func FencedReport() string {
	b, err := json.MarshalIndent(Report(), "", "  ")
	if err != nil {
		panic(err)
	}
	return "```json\n" + string(b) + "\n```"
}

// Compile-time check that MockProvider implements AnalysisProvider.
var _ models.AnalysisProvider = (*MockProvider)(nil)
