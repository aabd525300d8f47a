package pipeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/engine"
	"github.com/shingyusik/scientific-analysis-agent/filter"
	"github.com/shingyusik/scientific-analysis-agent/render"
)

// Step is one applied filter in the pipeline: the filter identity, the
// parameters it was applied with, and the derived dataset plus renderable
// they produced. A step is valid only while its dataset is the output of
// applying its current parameters to its declared input; cascades mark it
// invalid until recomputed.
type Step struct {
	ID          string
	Name        string
	Type        string
	DisplayName string
	Params      filter.Params
	Data        *dataset.Dataset
	Renderable  *render.Renderable
	Visible     bool
	Valid       bool

	// inputID is the step whose output this step consumes; "" is the root
	// dataset. Maintained by the pipeline, not by callers.
	inputID string
}

func newStep(f filter.Filter, inputName, inputID string, params filter.Params,
	data *dataset.Dataset, renderable *render.Renderable) *Step {
	return &Step{
		ID:          uuid.NewString(),
		Name:        fmt.Sprintf("%s (%s)", f.DisplayName(), inputName),
		Type:        f.FilterType(),
		DisplayName: f.DisplayName(),
		Params:      params.Clone(),
		Data:        data,
		Renderable:  renderable,
		Visible:     true,
		Valid:       true,
		inputID:     inputID,
	}
}

// InputID returns the id of the step this step consumes, "" for the root.
func (s *Step) InputID() string { return s.inputID }

// Info renders the properties-panel description of the step.
func (s *Step) Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nType: %s\n", s.Name, s.Type)
	if !s.Valid {
		b.WriteString("State: invalidated (recompute required)\n")
	}
	b.WriteString(engine.DataInfo(s.Data).String())
	return b.String()
}
