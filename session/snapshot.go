package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/filter"
	"github.com/shingyusik/scientific-analysis-agent/logging"
	"github.com/shingyusik/scientific-analysis-agent/pipeline"
)

// StepRecord is the persisted form of one pipeline step: the filter type and
// the parameters it was applied with. Derived datasets are not stored; they
// are reproduced by re-applying the chain.
type StepRecord struct {
	Type   string        `json:"type"`
	Params filter.Params `json:"params"`
}

// Snapshot is the persisted form of a pipeline: the root dataset name and
// the ordered step records.
type Snapshot struct {
	RootName string       `json:"root_name"`
	Steps    []StepRecord `json:"steps"`
}

// TakeSnapshot captures the pipeline's step chain.
func TakeSnapshot(p *pipeline.Pipeline) Snapshot {
	steps := p.Steps()
	records := make([]StepRecord, len(steps))
	for i, s := range steps {
		records[i] = StepRecord{Type: s.Type, Params: s.Params.Clone()}
	}
	return Snapshot{RootName: p.RootName(), Steps: records}
}

// Encode serializes the snapshot as zstd-compressed JSON.
func (s Snapshot) Encode() ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

// DecodeSnapshot parses zstd-compressed snapshot bytes.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("create decompressor: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decompress snapshot: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// SaveSnapshot writes the pipeline snapshot to path.
func SaveSnapshot(p *pipeline.Pipeline, path string) error {
	data, err := TakeSnapshot(p).Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot from path.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

// RestoreOptions configures snapshot restoration.
type RestoreOptions struct {
	Logger logging.Logger
}

// Restore rebuilds a pipeline by re-applying the snapshot's steps onto the
// given root dataset. Steps whose filter type is no longer registered are
// skipped with a warning rather than failing the whole restore; a step that
// fails to apply aborts, since later steps would consume the wrong input.
func Restore(s Snapshot, registry *filter.Registry, root *dataset.Dataset,
	rootName string, optFns ...func(o *RestoreOptions)) (*pipeline.Pipeline, error) {
	opts := RestoreOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	p := pipeline.New(registry, root, rootName, func(o *pipeline.Options) {
		o.Logger = logger
	})

	if err := applySteps(s, p, logger); err != nil {
		return nil, err
	}
	return p, nil
}

// RestoreInto rebuilds an existing pipeline in place from the snapshot,
// dropping its current steps first. The pipeline keeps its root dataset.
func RestoreInto(s Snapshot, p *pipeline.Pipeline, optFns ...func(o *RestoreOptions)) error {
	opts := RestoreOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	p.Clear(p.Root(), p.RootName())
	return applySteps(s, p, logging.OrNoOp(opts.Logger))
}

func applySteps(s Snapshot, p *pipeline.Pipeline, logger logging.Logger) error {
	for i, rec := range s.Steps {
		if _, err := p.Registry().Resolve(rec.Type); err != nil {
			logger.Warn("snapshot.restore.skip_unknown_filter", "index", i, "type", rec.Type)
			continue
		}
		// Apply chains each step onto the previous one, matching the
		// apply-commit flow the snapshot was taken from.
		if _, err := p.Apply(rec.Type, rec.Params); err != nil {
			return fmt.Errorf("restore step %d (%s): %w", i, rec.Type, err)
		}
	}
	return nil
}
