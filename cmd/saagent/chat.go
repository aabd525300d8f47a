package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shingyusik/scientific-analysis-agent/agent"
	"github.com/shingyusik/scientific-analysis-agent/pipeline"
	"github.com/shingyusik/scientific-analysis-agent/session"
	"github.com/shingyusik/scientific-analysis-agent/tool"
)

const systemInstruction = `You are a scientific data analysis assistant operating a filter
pipeline over the loaded dataset "{{default "unknown" .dataset_name}}".

Use the available tools to inspect and transform the data:
- get_pipeline_info and get_data_info before deciding what to apply
- apply_slice_filter, apply_clip_filter, apply_contour_filter to add steps
- commit_filter after applying when the user wants to chain further filters
  on the result
- update_filter_params to adjust an existing step, delete_item to remove one
- render_snapshot to produce a preview image

Report the resulting point and cell counts after each transformation and keep
answers short. If a tool reports an error, explain it and suggest a fix
instead of retrying blindly.`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive analysis chat",
	Long: `Starts an interactive session: messages are sent to the configured model,
which drives the analysis pipeline through tool calls.

REPL commands: /save (snapshot pipeline), /restore (rebuild from snapshot),
/draw (write pipeline DOT graph), /quit.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}

	m, err := buildModel()
	if err != nil {
		return err
	}
	artifacts, err := buildArtifacts()
	if err != nil {
		return err
	}

	toolset := tool.NewAnalysisToolset(p)
	sessions := session.NewInMemoryStore()
	sessionID := uuid.NewString()

	sess, err := sessions.Create(sessionID)
	if err != nil {
		return err
	}
	sess.SetState("dataset_name", p.RootName())

	a, err := agent.New("analysis-agent", m, agent.NewInstructionFromText(systemInstruction),
		toolset.Tools(), sessions, func(o *agent.Options) {
			o.Logger = logger
			o.Artifacts = artifacts
		})
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %s (%d points, %d cells). Model: %s. Type /quit to exit.\n",
		p.RootName(), p.Root().NumPoints(), p.Root().NumCells(), m.Info().Name)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := handleREPLCommand(line, p)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			if done {
				return nil
			}
			continue
		}

		reply, err := a.Run(context.Background(), sessionID, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
	return scanner.Err()
}

// handleREPLCommand executes a slash command; done reports a quit request.
func handleREPLCommand(line string, p *pipeline.Pipeline) (done bool, err error) {
	switch line {
	case "/quit", "/exit":
		return true, nil
	case "/save":
		if err := session.SaveSnapshot(p, cfg.SnapshotPath); err != nil {
			return false, err
		}
		fmt.Printf("Pipeline snapshot written to %s\n", cfg.SnapshotPath)
		return false, nil
	case "/restore":
		snap, err := session.LoadSnapshot(cfg.SnapshotPath)
		if err != nil {
			return false, err
		}
		if err := session.RestoreInto(snap, p, func(o *session.RestoreOptions) {
			o.Logger = logger
		}); err != nil {
			return false, err
		}
		fmt.Printf("Restored %d pipeline steps from %s\n", p.StepCount(), cfg.SnapshotPath)
		return false, nil
	case "/draw":
		path := "pipeline.dot"
		f, err := os.Create(path)
		if err != nil {
			return false, err
		}
		defer f.Close()
		if err := p.Draw(f); err != nil {
			return false, err
		}
		fmt.Printf("Pipeline graph written to %s\n", path)
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %s (try /save, /restore, /draw, /quit)", line)
	}
}
