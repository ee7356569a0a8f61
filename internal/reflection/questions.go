package reflection

import (
	"context"
	"errors"

	"github.com/proofhq/proof/pkg/models"
)

// Lookup finds a template by id.
type Lookup func(ctx context.Context, id string) (models.Template, error)

var errNoLookup = errors.New("no template lookup")

// Chain tries each lookup in turn and returns the first template that has
// questions.
func Chain(lookups ...Lookup) Lookup {
	return func(ctx context.Context, id string) (models.Template, error) {
		err := errNoLookup
		for _, l := range lookups {
			var t models.Template
			t, err = l(ctx, id)
			if err == nil && len(t.Questions) > 0 {
				return t, nil
			}
		}
		return models.Template{}, err
	}
}

// ResolveQuestions returns the questions of templateID, or DefaultQuestions
// when the id is empty, the lookup fails, or the template has none.
func ResolveQuestions(ctx context.Context, lookup Lookup, templateID string) []string {
	if templateID != "" && lookup != nil {
		if t, err := lookup(ctx, templateID); err == nil && len(t.Questions) > 0 {
			return append([]string(nil), t.Questions...)
		}
	}
	return append([]string(nil), DefaultQuestions...)
}
