package story

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/proofhq/proof/pkg/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).MarginTop(1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	countStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	trackStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("2")).
			Padding(0, 1)
)

// Render writes s to w for the terminal.
func Render(w io.Writer, s *Story) error {
	d := s.Data
	var b strings.Builder

	b.WriteString(mutedStyle.Render(d.PeriodLabel) + "\n")
	b.WriteString(titleStyle.Render(d.IntroTitle) + "\n")
	b.WriteString(d.IntroMessage + "\n")

	if s.State == Insufficient {
		b.WriteString("\n" + d.StrengthAnalysis + "\n")
		b.WriteString(d.NextSuggestion + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(sectionStyle.Render("내가 많이 했던 활동") + "\n")
	if len(d.ActivitySummary) == 0 {
		b.WriteString(mutedStyle.Render(EmptyActivities) + "\n")
	}
	for _, a := range d.ActivitySummary {
		fmt.Fprintf(&b, "  %s %s  %s\n", icon(a.Icon), a.Label, countStyle.Render(fmt.Sprintf("%d회 활동", a.Count)))
	}

	writePatterns(&b, "나를 기분 좋게 만든 순간들", "평소보다 기분이 좋아진 활동", d.PositiveCount, d.PositivePatterns)
	writePatterns(&b, "나를 지치게 한 순간들", "평소보다 힘들었던 활동", d.NegativeCount, d.NegativePatterns)

	b.WriteString(sectionStyle.Render("ProoF가 보는 강점 후보") + "\n")
	b.WriteString(d.StrengthAnalysis + "\n")
	if len(d.SuggestedTracks) > 0 {
		tracks := make([]string, len(d.SuggestedTracks))
		for i, t := range d.SuggestedTracks {
			tracks[i] = trackStyle.Render(t)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tracks...) + "\n")
	}

	b.WriteString(sectionStyle.Render("다음 "+s.Period.Span()+" 제안") + "\n")
	b.WriteString(d.NextSuggestion + "\n")
	for _, a := range d.RecommendedActivities {
		fmt.Fprintf(&b, "  %s %s\n", icon(a.Icon), a.Title)
		if a.Description != "" {
			b.WriteString("     " + mutedStyle.Render(a.Description) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writePatterns(b *strings.Builder, title, lead string, count int, patterns []models.Pattern) {
	b.WriteString(sectionStyle.Render(title) + "\n")
	fmt.Fprintf(b, "%s %d회 중,\n", lead, count)
	if len(patterns) == 0 {
		b.WriteString(mutedStyle.Render(EmptyPatterns) + "\n")
	}
	for _, p := range patterns {
		fmt.Fprintf(b, "  %s %d회는 “%s”과 관련\n", icon(p.Icon), p.Count, p.Label)
	}
}

func icon(s string) string {
	if s == "" {
		return "•"
	}
	return s
}
