package ai

import (
	"fmt"
	"strconv"
	"strings"
)

// Job codes in prompt order.
var JobCodes = []string{"MKT", "PM", "DATA", "DEV", "DESIGN", "PEOPLE"}

// JobLabels maps each job code to its display name.
var JobLabels = map[string]string{
	"MKT":    "마케팅/그로스",
	"PM":     "서비스 기획/PM",
	"DATA":   "데이터 분석",
	"DEV":    "개발/엔지니어",
	"DESIGN": "UX/UI 디자인",
	"PEOPLE": "HR/조직문화",
}

// Scores holds one score per job code.
type Scores map[string]float64

// ParseScores reads "MKT=80,PM=65,...". Every job code must be present.
func ParseScores(s string) (Scores, error) {
	scores := Scores{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid score %q, want CODE=NUMBER", part)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, known := JobLabels[code]; !known {
			return nil, fmt.Errorf("unknown job code %q", code)
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("score for %s: %w", code, err)
		}
		scores[code] = n
	}
	for _, code := range JobCodes {
		if _, ok := scores[code]; !ok {
			return nil, fmt.Errorf("missing score for %s", code)
		}
	}
	return scores, nil
}

// Top returns the job code with the highest score, first in JobCodes on ties.
func (s Scores) Top() string {
	top := JobCodes[0]
	for _, code := range JobCodes[1:] {
		if s[code] > s[top] {
			top = code
		}
	}
	return top
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// BuildPrompt fills the career coaching prompt.
func BuildPrompt(topJobName string, s Scores) string {
	return fmt.Sprintf(`
당신은 경험이 풍부한 커리어 코치입니다.
취업 준비생이 팀 프로젝트 시뮬레이션을 완료했고, 다음과 같은 결과가 나왔습니다:

**가장 적합한 직무**: %[1]s

**각 직무별 점수**:
- 마케팅/그로스: %[2]s점
- 서비스 기획/PM: %[3]s점
- 데이터 분석: %[4]s점
- 개발/엔지니어: %[5]s점
- UX/UI 디자인: %[6]s점
- HR/조직문화: %[7]s점

이 학생에게 따뜻하고 격려하는 톤으로 다음 내용을 포함한 3-4문단의 메시지를 작성해주세요:

1. 시뮬레이션에서 보여준 강점과 특징 칭찬하기
2. %[1]s 직무가 잘 맞는 이유 구체적으로 설명하기
3. 다른 직무 점수들을 고려한 종합적인 성향 분석
4. 앞으로의 성장 방향과 응원의 메시지

**톤**: 친근하고 따뜻하며, 전문적이지만 격식을 차리지 않은 선배의 조언
**길이**: 200-300자 정도
**형식**: 반말 사용 (예: ~해, ~야, ~어)
`,
		topJobName,
		formatScore(s["MKT"]),
		formatScore(s["PM"]),
		formatScore(s["DATA"]),
		formatScore(s["DEV"]),
		formatScore(s["DESIGN"]),
		formatScore(s["PEOPLE"]),
	)
}
