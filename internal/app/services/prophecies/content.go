package prophecies

import (
	"context"
	"math/rand"
)

const fallbackContent = "The path shifts. What you thought you knew deepens into something more complex."

var reforgeTemplates = []string{
	"The path shifts. What you thought you knew about her deepens into something more complex.",
	"Your energy has evolved since the last reading. The game has changed, and so have you.",
	"She sees something different in you now. The question is whether you're ready for what that means.",
	"The situation you've been navigating reveals new layers. Trust what emerges next.",
	"Your instincts were leading somewhere specific. The destination is clearer now.",
	"What felt uncertain before crystallizes into opportunity. Your next move matters.",
	"The tension you've been feeling transforms into clarity. Act on what you now understand.",
	"Your presence carries different weight now. Use this shift deliberately.",
	"The dynamic between you has evolved. She's responding to something new in your energy.",
	"What seemed like resistance was actually invitation. The reforged truth changes everything.",
}

// TemplateSource serves reforged content from a fixed template pool.
type TemplateSource struct {
	pick func(n int) int
}

var _ ContentSource = (*TemplateSource)(nil)

// NewTemplateSource creates the default content source.
func NewTemplateSource() *TemplateSource {
	return &TemplateSource{pick: rand.Intn}
}

// WithPick replaces the template selector. Tests use it for determinism.
func (t *TemplateSource) WithPick(pick func(n int) int) *TemplateSource {
	t.pick = pick
	return t
}

func (t *TemplateSource) Reforged(_ context.Context, _ int64, _ string) (string, error) {
	return reforgeTemplates[t.pick(len(reforgeTemplates))], nil
}
