package domain

import "time"

type AnalysisStep struct {
	Label    string        `json:"label" yaml:"label"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

func DefaultAnalysisSteps() []AnalysisStep {
	return []AnalysisStep{
		{Label: "Téléchargement du document...", Duration: 500 * time.Millisecond},
		{Label: "Extraction du texte...", Duration: 800 * time.Millisecond},
		{Label: "Analyse du contenu...", Duration: 1200 * time.Millisecond},
		{Label: "Recherche de sources similaires...", Duration: 1500 * time.Millisecond},
		{Label: "Calcul du score de plagiat...", Duration: 1000 * time.Millisecond},
		{Label: "Génération du rapport...", Duration: 800 * time.Millisecond},
	}
}

type AnalysisState string

const (
	AnalysisRunning   AnalysisState = "analyzing"
	AnalysisCompleted AnalysisState = "completed"
	AnalysisFailed    AnalysisState = "failed"
)

const (
	ProgressMin = 0
	ProgressMax = 100
)

// Progress is a point-in-time view of a running analysis. Percent and Step are
// driven by independent timers and may disagree.
type Progress struct {
	DocumentID string        `json:"document_id"`
	Percent    int           `json:"percent"`
	Step       string        `json:"step"`
	StepIndex  int           `json:"step_index"`
	State      AnalysisState `json:"state"`
	Error      string        `json:"error,omitempty"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type Milestones struct {
	Uploaded        bool `json:"uploaded"`
	ContentAnalyzed bool `json:"content_analyzed"`
	SourcesFound    bool `json:"sources_found"`
	ReportGenerated bool `json:"report_generated"`
}

func (p Progress) Milestones() Milestones {
	return Milestones{
		Uploaded:        p.Percent > 0,
		ContentAnalyzed: p.Percent > 30,
		SourcesFound:    p.Percent > 60,
		ReportGenerated: p.Percent == ProgressMax,
	}
}

func ClampPercent(percent int) int {
	if percent < ProgressMin {
		return ProgressMin
	}
	if percent > ProgressMax {
		return ProgressMax
	}
	return percent
}
