package ingest

import (
	"fmt"

	"github.com/osteele/liquid"
)

// AdNameTemplate renders the ad name of a simulated seed ad. The template
// sees one binding, creative_id.
type AdNameTemplate struct {
	tpl *liquid.Template
}

// NewAdNameTemplate compiles a Liquid template such as
// "A100 | {{ creative_id }} | C100 | P:AP".
func NewAdNameTemplate(source string) (*AdNameTemplate, error) {
	tpl, err := liquid.NewEngine().ParseString(source)
	if err != nil {
		return nil, fmt.Errorf("parse ad name template: %w", err)
	}
	return &AdNameTemplate{tpl: tpl}, nil
}

// Render returns the ad name for a creative.
func (t *AdNameTemplate) Render(creativeID string) (string, error) {
	out, err := t.tpl.RenderString(liquid.Bindings{"creative_id": creativeID})
	if err != nil {
		return "", fmt.Errorf("render ad name for %s: %w", creativeID, err)
	}
	return out, nil
}
