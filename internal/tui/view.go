package tui

import (
	"fmt"
	"strings"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Rapport de plagiat"))
	b.WriteString("\n")

	switch m.Screen {
	case ScreenLogin:
		m.viewLogin(&b)
	case ScreenUpload:
		m.viewUpload(&b)
	case ScreenProgress:
		m.viewProgress(&b)
	case ScreenDashboard:
		m.viewDashboard(&b)
	}

	if m.Notice != "" {
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render(m.Notice))
		b.WriteString("\n")
	}
	if m.Err != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.Err))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewLogin(b *strings.Builder) {
	email := "Email:        " + m.Email
	password := "Mot de passe: " + maskPassword(m.Password)
	if m.focus == focusEmail {
		email = FocusStyle.Render(email)
	} else {
		password = FocusStyle.Render(password)
	}
	b.WriteString(email + "\n" + password + "\n\n")
	if m.Busy {
		b.WriteString(InfoStyle.Render("Connexion..."))
		return
	}
	b.WriteString(InfoStyle.Render("Entrée: connexion | Ctrl+R: créer un compte | Tab: changer de champ | Ctrl+C: quitter"))
}

func (m Model) viewUpload(b *strings.Builder) {
	if m.Session != nil {
		b.WriteString(InfoStyle.Render("Connecté: " + m.Session.Email))
		b.WriteString("\n\n")
	}
	b.WriteString("Fichier PDF: " + FocusStyle.Render(m.PathInput) + "\n")
	if m.File != nil {
		b.WriteString(BoxStyle.Render(fmt.Sprintf("%s\n%s", m.File.Name, FormatSizeKB(m.File.Size))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case m.Busy:
		b.WriteString(InfoStyle.Render("Envoi du document..."))
	case m.File != nil:
		b.WriteString(InfoStyle.Render("Entrée: analyser | Échap: changer de fichier | Ctrl+D: tableau de bord"))
	default:
		b.WriteString(InfoStyle.Render("Entrée: sélectionner | Ctrl+D: tableau de bord | Ctrl+C: quitter"))
	}
}

func (m Model) viewProgress(b *strings.Builder) {
	if m.Document != nil {
		b.WriteString(fmt.Sprintf("%s (%s)\n\n", m.Document.Filename, FormatSizeKB(m.Document.FileSize)))
	}
	percent := 0
	step := "En attente..."
	var milestones domain.Milestones
	if m.Progress != nil {
		percent = m.Progress.Percent
		milestones = m.Progress.Milestones
		if m.Progress.Step != "" {
			step = m.Progress.Step
		}
	}

	b.WriteString(fmt.Sprintf("%s %3d%%\n", progressBar(percent), percent))
	b.WriteString(InfoStyle.Render(step))
	b.WriteString("\n\n")
	b.WriteString(checkbox(milestones.Uploaded, "Document téléchargé") + "\n")
	b.WriteString(checkbox(milestones.ContentAnalyzed, "Contenu analysé") + "\n")
	b.WriteString(checkbox(milestones.SourcesFound, "Sources identifiées") + "\n")
	b.WriteString(checkbox(milestones.ReportGenerated, "Rapport généré") + "\n")

	if m.Progress != nil && m.Progress.State == domain.AnalysisFailed {
		b.WriteString("\n" + InfoStyle.Render("Échap: revenir au téléchargement"))
	}
}

func (m Model) viewDashboard(b *strings.Builder) {
	if m.Board == nil || len(m.Board.Documents) == 0 {
		b.WriteString(InfoStyle.Render("Aucun document analysé pour le moment."))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("n: nouveau document | s: se déconnecter | q: quitter"))
		return
	}

	b.WriteString("Mes documents\n")
	for i, doc := range m.Board.Documents {
		line := fmt.Sprintf("  %s  %s  %s", doc.CreatedAt.Local().Format("02/01/2006 15:04"), doc.Filename, doc.Status)
		if i == m.Selected {
			line = FocusStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if m.Report != nil {
		b.WriteString(BoxStyle.Render(renderReport(*m.Report)))
		b.WriteString("\n\n")
	}
	b.WriteString(InfoStyle.Render("↑/↓: choisir | r: actualiser | n: nouveau document | s: se déconnecter | q: quitter"))
}

func renderReport(report domain.Report) string {
	var b strings.Builder
	result := report.Result
	b.WriteString(tierStyle(report.Tier).Render(fmt.Sprintf("Score de plagiat: %d%% (%s)", result.Score, report.Tier.Label)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Contenu unique: %d%%\n", result.Details.UniqueContent))
	b.WriteString(fmt.Sprintf("Mots analysés: %d\n", result.Details.TotalWords))
	b.WriteString(fmt.Sprintf("Sources trouvées: %d\n", len(result.Sources)))
	for _, source := range result.Sources {
		b.WriteString(fmt.Sprintf("\n  %s (%d%%)\n  %s\n", source.Title, source.Similarity, InfoStyle.Render(source.URL)))
	}
	return strings.TrimRight(b.String(), "\n")
}
