package reflection

import (
	"fmt"
	"strings"

	"github.com/proofhq/proof/pkg/models"
)

const (
	minProgress     = 1
	maxProgress     = 10
	defaultProgress = 5
)

// Draft is a reflection being written. Answers are keyed by question: the
// last answer to a question wins and questions keep the order in which they
// were first answered.
type Draft struct {
	Content       string
	Mood          models.Mood
	ProgressScore int

	answers []models.Answer
	index   map[string]int
}

// NewDraft returns an empty draft with mood good and progress 5.
func NewDraft() *Draft {
	return &Draft{
		Mood:          models.MoodGood,
		ProgressScore: defaultProgress,
		index:         map[string]int{},
	}
}

// DraftFrom rebuilds a Draft from a locally saved one.
func DraftFrom(saved *models.Draft) *Draft {
	d := NewDraft()
	d.Content = saved.Content
	if saved.Mood.Valid() {
		d.Mood = saved.Mood
	}
	d.SetProgress(saved.ProgressScore)
	for _, a := range saved.Answers {
		d.SetAnswer(a.Question, a.Answer)
	}
	return d
}

// SetAnswer records the answer to question, replacing any earlier one.
func (d *Draft) SetAnswer(question, answer string) {
	if d.index == nil {
		d.index = map[string]int{}
	}
	if i, ok := d.index[question]; ok {
		d.answers[i].Answer = answer
		return
	}
	d.index[question] = len(d.answers)
	d.answers = append(d.answers, models.Answer{Question: question, Answer: answer})
}

// Answers returns the answers in first-answered order.
func (d *Draft) Answers() []models.Answer {
	out := make([]models.Answer, len(d.answers))
	copy(out, d.answers)
	return out
}

// SetMood rejects anything outside the five-step scale.
func (d *Draft) SetMood(m models.Mood) error {
	if !m.Valid() {
		return fmt.Errorf("%w: mood %q", ErrInvalid, m)
	}
	d.Mood = m
	return nil
}

// SetProgress clamps n into 1..10.
func (d *Draft) SetProgress(n int) {
	switch {
	case n < minProgress:
		n = minProgress
	case n > maxProgress:
		n = maxProgress
	}
	d.ProgressScore = n
}

// Empty reports whether the content is blank.
func (d *Draft) Empty() bool {
	return strings.TrimSpace(d.Content) == ""
}
