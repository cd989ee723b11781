package domain

import "time"

type SourceMatch struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Similarity int    `json:"similarity"`
	Excerpt    string `json:"excerpt"`
}

type ResultDetails struct {
	TotalWords    int       `json:"total_words"`
	UniqueContent int       `json:"unique_content"`
	AnalysisDate  time.Time `json:"analysis_date"`
}

type PlagiarismResult struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"document_id"`
	Score      int           `json:"plagiarism_score"`
	Sources    []SourceMatch `json:"sources_found"`
	Details    ResultDetails `json:"details"`
	CreatedAt  time.Time     `json:"created_at"`
}

type ScoreTier struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var (
	TierExcellent  = ScoreTier{Label: "Excellent", Color: "green"}
	TierAcceptable = ScoreTier{Label: "Acceptable", Color: "orange"}
	TierAttention  = ScoreTier{Label: "Attention", Color: "red"}
)

func TierForScore(score int) ScoreTier {
	switch {
	case score < 15:
		return TierExcellent
	case score < 30:
		return TierAcceptable
	default:
		return TierAttention
	}
}

// Report is a persisted result together with its presentation tier.
type Report struct {
	Result PlagiarismResult `json:"result"`
	Tier   ScoreTier        `json:"tier"`
}

func NewReport(result PlagiarismResult) Report {
	return Report{Result: result, Tier: TierForScore(result.Score)}
}

type Dashboard struct {
	Documents  []DocumentSummary `json:"documents"`
	SelectedID string            `json:"selected_id,omitempty"`
	Report     *Report           `json:"report,omitempty"`
}

// ReportRow is one line of an exported report; result fields are zero when
// the analysis has not finished.
type ReportRow struct {
	DocumentID    string
	Filename      string
	FileSize      int64
	CreatedAt     time.Time
	Status        DocumentStatus
	HasResult     bool
	Score         int
	Tier          ScoreTier
	SourceCount   int
	UniqueContent int
	TotalWords    int
}
