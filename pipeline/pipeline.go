// Package pipeline owns the ordered chain of filter applications over the
// loaded dataset. It resolves filter types through the registry, applies
// them, and tracks each step's derived dataset and renderable. A Pipeline
// assumes single-owner, non-reentrant access: the embedding application runs
// long filter applications off its UI thread and serializes access itself.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/filter"
	"github.com/shingyusik/scientific-analysis-agent/logging"
)

// Pipeline is the orchestrator: root dataset plus the ordered step chain.
type Pipeline struct {
	registry *filter.Registry
	logger   logging.Logger

	root     *dataset.Dataset
	rootName string
	steps    []*Step

	// headID is the step whose output feeds the next Apply; "" is the root.
	headID     string
	selectedID string
}

// Options configures a Pipeline.
type Options struct {
	Logger logging.Logger
}

// New creates a pipeline over the given registry and root dataset.
func New(registry *filter.Registry, root *dataset.Dataset, rootName string, optFns ...func(o *Options)) *Pipeline {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Pipeline{
		registry: registry,
		logger:   logging.OrNoOp(opts.Logger),
		root:     root,
		rootName: rootName,
	}
}

// Registry returns the filter registry the pipeline resolves types against.
func (p *Pipeline) Registry() *filter.Registry { return p.registry }

// Root returns the raw loaded dataset.
func (p *Pipeline) Root() *dataset.Dataset { return p.root }

// RootName returns the display name of the root dataset.
func (p *Pipeline) RootName() string { return p.rootName }

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int { return len(p.steps) }

// Steps returns the step chain in application order. The slice is a copy;
// the steps are the live objects.
func (p *Pipeline) Steps() []*Step {
	out := make([]*Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Step returns the step at index i.
func (p *Pipeline) Step(i int) (*Step, error) {
	if i < 0 || i >= len(p.steps) {
		return nil, fmt.Errorf("step index %d out of range [0, %d)", i, len(p.steps))
	}
	return p.steps[i], nil
}

// StepByID returns the step with the given id.
func (p *Pipeline) StepByID(id string) (*Step, bool) {
	for _, s := range p.steps {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// IndexOf returns the chain index of a step id.
func (p *Pipeline) IndexOf(id string) (int, bool) {
	for i, s := range p.steps {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}

// input resolves a declared-input reference to its dataset and name.
func (p *Pipeline) input(inputID string) (*dataset.Dataset, string, error) {
	if inputID == "" {
		return p.root, p.rootName, nil
	}
	s, ok := p.StepByID(inputID)
	if !ok {
		return nil, "", fmt.Errorf("input step %s no longer exists", inputID)
	}
	if !s.Valid {
		return nil, "", fmt.Errorf("input step %q is invalidated; recompute the pipeline first", s.Name)
	}
	return s.Data, s.Name, nil
}

// Apply resolves typeID, applies the filter to the effective head's output
// (the root dataset when the pipeline is empty) and appends exactly one step
// on success. On any error the step chain is left unchanged. nil params mean
// the filter's defaults.
func (p *Pipeline) Apply(typeID string, params filter.Params) (*Step, error) {
	ctor, err := p.registry.Resolve(typeID)
	if err != nil {
		p.logger.Warn("pipeline.apply.unknown_filter", "type", typeID)
		return nil, err
	}
	f := ctor()
	if params == nil {
		params = f.DefaultParams()
	}

	input, inputName, err := p.input(p.headID)
	if err != nil {
		return nil, &filter.ApplicationError{Filter: typeID, Err: err}
	}

	renderable, out, err := f.Apply(input, params)
	if err != nil {
		p.logger.Warn("pipeline.apply.failed", "type", typeID, "error", err.Error())
		return nil, err
	}

	step := newStep(f, inputName, p.headID, params, out, renderable)
	p.steps = append(p.steps, step)
	p.headID = step.ID
	p.selectedID = step.ID

	p.logger.Info("pipeline.apply.success",
		"type", typeID, "step", step.ID, "points", out.NumPoints(), "cells", out.NumCells())
	return step, nil
}

// Update replaces the parameters of step i and re-applies the filter against
// the same declared input. On success the step's dataset and renderable are
// replaced and every downstream step is invalidated. On failure the step is
// left fully unchanged.
func (p *Pipeline) Update(i int, params filter.Params) error {
	step, err := p.Step(i)
	if err != nil {
		return err
	}

	ctor, err := p.registry.Resolve(step.Type)
	if err != nil {
		return err
	}
	f := ctor()
	if params == nil {
		params = f.DefaultParams()
	}

	input, _, err := p.input(step.inputID)
	if err != nil {
		return &filter.ApplicationError{Filter: step.Type, Err: err}
	}

	renderable, out, err := f.Apply(input, params)
	if err != nil {
		p.logger.Warn("pipeline.update.failed", "step", step.ID, "error", err.Error())
		return err
	}

	step.Params = params.Clone()
	step.Data = out
	step.Renderable = renderable
	step.Valid = true
	p.invalidateDownstream(step.ID)

	p.logger.Info("pipeline.update.success", "step", step.ID, "type", step.Type)
	return nil
}

// Remove deletes step i. Downstream steps that consumed its output are
// re-rooted onto the removed step's declared input (the root dataset when
// the first step is removed) and invalidated; they must be recomputed before
// their datasets are queried again.
func (p *Pipeline) Remove(i int) error {
	step, err := p.Step(i)
	if err != nil {
		return err
	}

	p.steps = append(p.steps[:i], p.steps[i+1:]...)
	for _, s := range p.steps {
		if s.inputID == step.ID {
			s.inputID = step.inputID
		}
	}
	for _, s := range p.steps[i:] {
		s.Valid = false
	}
	if p.headID == step.ID {
		p.headID = step.inputID
	}
	if p.selectedID == step.ID {
		p.selectedID = ""
	}

	p.logger.Info("pipeline.remove", "step", step.ID, "name", step.Name)
	return nil
}

// Commit pins step i's output as the effective input for subsequent Apply
// calls. Stored steps are not altered.
func (p *Pipeline) Commit(i int) error {
	step, err := p.Step(i)
	if err != nil {
		return err
	}
	if !step.Valid {
		return fmt.Errorf("cannot commit invalidated step %q", step.Name)
	}
	p.headID = step.ID
	p.logger.Info("pipeline.commit", "step", step.ID, "name", step.Name)
	return nil
}

// Recompute re-applies invalidated steps in chain order. It stops at the
// first failure, leaving that step invalid, and returns the error.
func (p *Pipeline) Recompute() error {
	for _, step := range p.steps {
		if step.Valid {
			continue
		}
		input, _, err := p.input(step.inputID)
		if err != nil {
			return &filter.ApplicationError{Filter: step.Type, Err: err}
		}
		ctor, err := p.registry.Resolve(step.Type)
		if err != nil {
			return err
		}
		renderable, out, err := ctor().Apply(input, step.Params)
		if err != nil {
			return err
		}
		step.Data = out
		step.Renderable = renderable
		step.Valid = true
		p.logger.Info("pipeline.recompute.step", "step", step.ID, "type", step.Type)
	}
	return nil
}

// Select marks a step as the active target for agent-driven operations and
// pins it as the effective head, so the next Apply consumes its output.
// An empty id clears the selection and re-roots onto the raw dataset.
func (p *Pipeline) Select(id string) error {
	if id == "" {
		p.selectedID = ""
		p.headID = ""
		return nil
	}
	step, ok := p.StepByID(id)
	if !ok {
		return fmt.Errorf("no pipeline step with id %s", id)
	}
	p.selectedID = step.ID
	p.headID = step.ID
	return nil
}

// Selected returns the currently selected step, nil when none.
func (p *Pipeline) Selected() *Step {
	if p.selectedID == "" {
		return nil
	}
	s, _ := p.StepByID(p.selectedID)
	return s
}

// SetVisible toggles a step's visibility flag.
func (p *Pipeline) SetVisible(id string, visible bool) error {
	step, ok := p.StepByID(id)
	if !ok {
		return fmt.Errorf("no pipeline step with id %s", id)
	}
	step.Visible = visible
	return nil
}

// Clear resets the pipeline onto a new root dataset, dropping all steps.
// Superseded dataset handles are released with them.
func (p *Pipeline) Clear(root *dataset.Dataset, rootName string) {
	p.root = root
	p.rootName = rootName
	p.steps = nil
	p.headID = ""
	p.selectedID = ""
	p.logger.Info("pipeline.clear", "root", rootName)
}

// Summary renders the chain overview returned by the get_pipeline_info tool.
func (p *Pipeline) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Root: %s [points: %d, cells: %d]\n", p.rootName, p.root.NumPoints(), p.root.NumCells())
	if len(p.steps) == 0 {
		b.WriteString("No filters applied.")
	} else {
		b.WriteString("Pipeline steps:\n")
		for i, s := range p.steps {
			fmt.Fprintf(&b, "%d. %s (type: %s, id: %s, visible: %t, valid: %t)", i, s.Name, s.Type, s.ID, s.Visible, s.Valid)
			if s.Data != nil {
				fmt.Fprintf(&b, " [points: %d, cells: %d]", s.Data.NumPoints(), s.Data.NumCells())
			}
			b.WriteString("\n")
		}
	}
	if sel := p.Selected(); sel != nil {
		fmt.Fprintf(&b, "Currently selected: %s (%s)", sel.Name, sel.ID)
	} else {
		b.WriteString("No step selected")
	}
	return b.String()
}

// invalidateDownstream marks every step consuming id's output, transitively,
// as requiring recomputation.
func (p *Pipeline) invalidateDownstream(id string) {
	dirty := map[string]bool{id: true}
	for _, s := range p.steps {
		if dirty[s.inputID] {
			s.Valid = false
			dirty[s.ID] = true
		}
	}
}
