package survey

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/proofhq/proof/pkg/models"
)

// Kind selects one of the two ranked lists.
type Kind string

const (
	Preference Kind = "preference"
	Fit        Kind = "fit"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	badgeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	highlight   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("13")).
			Padding(0, 2)
	rankStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Width(4)
	nameStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const barWidth = 20

// Renderer draws a survey result and turns selections into OnSelectJob
// events. Cards appear in the order the backend sent them.
type Renderer struct {
	// OnSelectJob is called with the job id the user picked.
	OnSelectJob func(jobID string)

	result *models.SurveyResult
}

// Render writes the result to w and remembers it for later selections.
func (r *Renderer) Render(w io.Writer, res *models.SurveyResult) error {
	r.result = res

	var b strings.Builder
	b.WriteString(headerStyle.Render("당신의 진로 분석 결과") + "\n")

	rec := res.RecommendedJob
	card := []string{
		badgeStyle.Render("설문 기반 추천 직무"),
		nameStyle.Render(rec.Name),
		fmt.Sprintf("종합 점수: %.1f점", rec.Score),
		"",
		"이런 점이 잘 맞아요:",
		"  • 선호도 점수: " + scoreOf(res.PreferenceTop3, rec.JobID),
		"  • 역량 적합도 점수: " + scoreOf(res.FitTop3, rec.JobID),
	}
	if rec.Reason != "" {
		card = append(card, "", rec.Reason)
	}
	b.WriteString(highlight.Render(strings.Join(card, "\n")) + "\n\n")

	writeList(&b, "선호도 Top 3", "당신이 하고 싶어하는 직무예요", res.PreferenceTop3)
	writeList(&b, "역량 적합도 Top 3", "당신이 잘할 수 있는 직무예요", res.FitTop3)

	if len(res.Insights) > 0 {
		b.WriteString(headerStyle.Render("인사이트") + "\n")
		for _, in := range res.Insights {
			b.WriteString("  • " + in + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title, subtitle string, jobs []models.JobScore) {
	b.WriteString(headerStyle.Render(title) + "\n")
	b.WriteString(mutedStyle.Render(subtitle) + "\n")
	for i, job := range jobs {
		fmt.Fprintf(b, "%s%s  %s %.1f%%\n", rankStyle.Render(fmt.Sprintf("%d.", i+1)), nameStyle.Render(job.Name), bar(job.Score), job.Score)
	}
	b.WriteString("\n")
}

func scoreOf(jobs []models.JobScore, jobID string) string {
	for _, j := range jobs {
		if j.JobID == jobID {
			return fmt.Sprintf("%.1f점", j.Score)
		}
	}
	return "N/A"
}

func bar(score float64) string {
	filled := int(score / 100 * barWidth)
	filled = max(0, min(barWidth, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// SelectRanked picks the card at rank (1-based, display order) of kind.
func (r *Renderer) SelectRanked(kind Kind, rank int) error {
	if r.result == nil {
		return fmt.Errorf("nothing rendered")
	}
	var jobs []models.JobScore
	switch kind {
	case Preference:
		jobs = r.result.PreferenceTop3
	case Fit:
		jobs = r.result.FitTop3
	default:
		return fmt.Errorf("unknown list %q", kind)
	}
	if rank < 1 || rank > len(jobs) {
		return fmt.Errorf("rank %d out of range 1-%d", rank, len(jobs))
	}
	r.emit(jobs[rank-1].JobID)
	return nil
}

// SelectRecommended picks the highlighted recommendation.
func (r *Renderer) SelectRecommended() error {
	if r.result == nil {
		return fmt.Errorf("nothing rendered")
	}
	r.emit(r.result.RecommendedJob.JobID)
	return nil
}

func (r *Renderer) emit(jobID string) {
	if r.OnSelectJob != nil {
		r.OnSelectJob(jobID)
	}
}
