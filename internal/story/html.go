package story

import (
	"html/template"
	"io"
)

var pageTmpl = template.Must(template.New("story").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>{{.Data.IntroTitle}}</title>
<style>
body { font-family: "Pretendard", "Apple SD Gothic Neo", "Noto Sans KR", sans-serif; color: #1B1C1E; margin: 40px; }
h1 { color: #186D50; margin-bottom: 4px; }
h2 { font-size: 18px; margin-top: 28px; border-bottom: 1px solid #EAEBEC; padding-bottom: 6px; }
.muted { color: #6B6D70; }
.count { color: #25A778; font-weight: bold; }
.track { display: inline-block; border: 1px solid #25A778; color: #25A778; border-radius: 6px; padding: 2px 10px; margin: 4px 4px 0 0; }
li { margin: 6px 0; }
</style>
</head>
<body>
<p class="muted">{{.Data.PeriodLabel}}</p>
<h1>{{.Data.IntroTitle}}</h1>
<p>{{.Data.IntroMessage}}</p>
{{if .Ready}}
<h2>내가 많이 했던 활동</h2>
{{with .Data.ActivitySummary}}<ul>{{range .}}<li>{{.Icon}} {{.Label}} <span class="count">{{.Count}}회 활동</span></li>{{end}}</ul>{{else}}<p class="muted">{{$.EmptyActivities}}</p>{{end}}
<h2>나를 기분 좋게 만든 순간들</h2>
<p>평소보다 기분이 좋아진 활동 <b>{{.Data.PositiveCount}}회</b> 중,</p>
{{with .Data.PositivePatterns}}<ul>{{range .}}<li>{{.Icon}} {{.Count}}회는 &ldquo;{{.Label}}&rdquo;과 관련</li>{{end}}</ul>{{else}}<p class="muted">{{$.EmptyPatterns}}</p>{{end}}
<h2>나를 지치게 한 순간들</h2>
<p>평소보다 힘들었던 활동 <b>{{.Data.NegativeCount}}회</b> 중,</p>
{{with .Data.NegativePatterns}}<ul>{{range .}}<li>{{.Icon}} {{.Count}}회는 &ldquo;{{.Label}}&rdquo;과 관련</li>{{end}}</ul>{{else}}<p class="muted">{{$.EmptyPatterns}}</p>{{end}}
<h2>ProoF가 보는 강점 후보</h2>
<p>{{.Data.StrengthAnalysis}}</p>
<div>{{range .Data.SuggestedTracks}}<span class="track">{{.}}</span>{{end}}</div>
<h2>다음 {{.Span}} 제안</h2>
<p>{{.Data.NextSuggestion}}</p>
<ul>{{range .Data.RecommendedActivities}}<li><b>{{.Icon}} {{.Title}}</b>{{with .Description}}<br><span class="muted">{{.}}</span>{{end}}</li>{{end}}</ul>
{{else}}
<p>{{.Data.StrengthAnalysis}}</p>
<p>{{.Data.NextSuggestion}}</p>
{{end}}
</body>
</html>
`))

// WriteHTML writes s as a standalone HTML page.
func WriteHTML(w io.Writer, s *Story) error {
	return pageTmpl.Execute(w, struct {
		*Story
		Ready           bool
		Span            string
		EmptyActivities string
		EmptyPatterns   string
	}{s, s.State == Ready, s.Period.Span(), EmptyActivities, EmptyPatterns})
}
