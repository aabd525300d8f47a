package pipeline

import (
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// Draw writes the pipeline as a DOT graph: the root dataset plus one vertex
// per step, edges following declared inputs. Render with graphviz to inspect
// a session's transform chain.
func (p *Pipeline) Draw(w io.Writer) error {
	g := graph.New(graph.StringHash, graph.Directed())

	rootLabel := fmt.Sprintf("%s (root)", p.rootName)
	if err := g.AddVertex("root",
		graph.VertexAttribute("label", rootLabel),
		graph.VertexAttribute("shape", "box"),
	); err != nil {
		return fmt.Errorf("unable to add root vertex: %w", err)
	}

	for _, s := range p.steps {
		attrs := []func(*graph.VertexProperties){
			graph.VertexAttribute("label", s.Name),
		}
		if !s.Valid {
			attrs = append(attrs, graph.VertexAttribute("style", "dashed"))
		}
		if err := g.AddVertex(s.ID, attrs...); err != nil {
			return fmt.Errorf("unable to add vertex for %s: %w", s.Name, err)
		}
	}

	for _, s := range p.steps {
		from := s.inputID
		if from == "" {
			from = "root"
		}
		if err := g.AddEdge(from, s.ID); err != nil {
			return fmt.Errorf("unable to add edge to %s: %w", s.Name, err)
		}
	}

	return draw.DOT(g, w)
}
