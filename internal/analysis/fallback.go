package analysis

import (
	"time"

	"github.com/kiranshivaraju/verta/pkg/models"
)

const (
	SampleAnalysisType  = "Sample Analysis"
	defaultFilename     = "meeting.mp4"
	statusCompleted     = "completed"
	nonJSONResponseNote = "AI analysis completed but returned non-JSON format"
)

// Fallback returns the canned sample report for filename, stamped with processedAt.
// Apart from the timestamp the output depends only on filename.
func Fallback(filename string, processedAt time.Time) *models.AnalysisResult {
	if filename == "" {
		filename = defaultFilename
	}
	return &models.AnalysisResult{
		FileInfo: models.FileInfo{
			Filename:     filename,
			ProcessedAt:  processedAt.UTC().Format(time.RFC3339),
			AnalysisType: SampleAnalysisType,
			Status:       statusCompleted,
		},
		Segments: []models.Segment{
			{
				TimeRange:       "00:00–01:30",
				Speaker:         "Speaker A",
				Transcript:      `Speaker A: "Welcome everyone, thanks for joining. Let's walk through the agenda first. I sent the materials over yesterday, so hopefully everyone had a look."`,
				Sentiment:       "Positive",
				SentimentReason: "Welcoming, organized opening with preparation done ahead of time",
				Topic:           "Opening and agenda review",
			},
			{
				TimeRange:       "01:30–03:00",
				Speaker:         "Speaker B",
				Transcript:      `[01:30] Speaker B: "Thanks. So, um, I'll give the project update. We've made good headway this sprint, but there are a couple of areas that need attention."`,
				Sentiment:       "Neutral",
				SentimentReason: "Balanced status report mixing progress with open problems",
				Topic:           "Project progress and current challenges",
			},
			{
				TimeRange:       "03:00–04:30",
				Speaker:         "Speaker A",
				Transcript:      `[03:00] Speaker A: "That's solid progress, thank you. What do we need to do next on those challenges? Do we have the people we need?"`,
				Sentiment:       "Positive",
				SentimentReason: "Supportive and focused on solutions",
				Topic:           "Next steps and resourcing",
			},
			{
				TimeRange:       "04:30–06:00",
				Speaker:         "Speaker C",
				Transcript:      `[04:30] Speaker C: "I'd tackle the critical issues first and put extra people there. For the technical parts we could, uh, bring in outside expertise."`,
				Sentiment:       "Neutral",
				SentimentReason: "Analytical proposal with practical suggestions",
				Topic:           "Prioritization and resource allocation",
			},
			{
				TimeRange:       "06:00–07:30",
				Speaker:         "Speaker B",
				Transcript:      `[06:00] Speaker B: "Makes sense. I can reach out to a few consultants and get quotes. How soon do we need this sorted?"`,
				Sentiment:       "Positive",
				SentimentReason: "Takes ownership of a follow-up",
				Topic:           "Consultant outreach and timing",
			},
			{
				TimeRange:       "07:30–09:00",
				Speaker:         "Speaker A",
				Transcript:      `[07:30] Speaker A: "Ideally within two weeks. Let's book a follow-up to review the proposals and decide. Speaker C, could you put together a detailed timeline?"`,
				Sentiment:       "Positive",
				SentimentReason: "Clear direction and delegation",
				Topic:           "Timeline and task assignment",
			},
			{
				TimeRange:       "09:00–10:30",
				Speaker:         "Speaker C",
				Transcript:      `[09:00] Speaker C: "Sure, I'll have it ready by Friday, with risk mitigation and a couple of alternatives in case the first option falls through."`,
				Sentiment:       "Positive",
				SentimentReason: "Committed and thorough planning",
				Topic:           "Timeline preparation and risk planning",
			},
			{
				TimeRange:       "10:30–12:00",
				Speaker:         "Speaker A",
				Transcript:      `[10:30] Speaker A: "Great. Before we wrap up, any other concerns or questions? I want to make sure we're all aligned on next steps."`,
				Sentiment:       "Positive",
				SentimentReason: "Inclusive close that checks for alignment",
				Topic:           "Wrap-up and alignment check",
			},
		},
		EngagementScore: models.EngagementScore{
			Score:       89,
			Explanation: "All speakers participated actively. Discussion followed the agenda, problems were raised openly and the meeting ended with concrete owners for each follow-up.",
		},
		MeetingSummary: models.MeetingSummary{
			KeyPoints: []string{
				"The agenda was set up front and followed",
				"Project progress was reviewed in detail",
				"The team communicated openly and collaborated well",
				"Challenges were raised early with proposed solutions",
				"Resource allocation was discussed and agreed",
			},
			Decisions: []string{
				"Keep the current project approach with targeted adjustments",
				"Address critical issues first",
				"Assign additional resources to the hardest technical areas",
				"Engage external consultants for specialist expertise",
			},
			OpenQuestions: []string{
				"What are the deadlines for each project phase?",
				"How should the remaining tasks be prioritized?",
				"Which additional resources are actually required?",
				"How can communication across the whole team improve?",
			},
			RisksOrConcerns: []string{
				"Timeline slips if the technical challenges persist",
				"Extra resources may strain the budget",
				"Communication gaps could hurt coordination and delivery",
			},
		},
		ActionItems: []models.ActionItem{
			{Description: "Prepare a detailed project timeline with milestones and deliverables", Owner: "Speaker C", Priority: models.PriorityHigh},
			{Description: "Schedule a follow-up meeting to review consultant proposals", Owner: "Speaker A", Priority: models.PriorityMedium},
			{Description: "Collect consultant quotes for the technical work", Owner: "Speaker B", Priority: models.PriorityHigh},
			{Description: "Estimate the budget impact of the additional resources", Owner: "Speaker A", Priority: models.PriorityMedium},
		},
		ImprovementSuggestions: []string{
			"Use visual aids during status updates",
			"Time-box each agenda item to keep the meeting focused",
			"Make sure every participant gets a chance to contribute",
			"Record decisions and action items live during the meeting",
			"Check in on action items between meetings",
		},
	}
}

// fallbackForParseFailure is the sample report annotated with the unparseable reply.
func fallbackForParseFailure(filename string, processedAt time.Time, pf *ParseFailure) *models.AnalysisResult {
	result := Fallback(filename, processedAt)
	result.Note = nonJSONResponseNote
	result.AIRawResponse = pf.Excerpt
	return result
}
