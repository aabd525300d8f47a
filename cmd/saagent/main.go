// Command saagent is the scientific analysis agent CLI. It loads a dataset,
// builds the filter pipeline and either runs one-shot analysis commands or an
// interactive chat session driven by a language model.
package main

import (
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"

	"github.com/shingyusik/scientific-analysis-agent/artifact"
	artifactminio "github.com/shingyusik/scientific-analysis-agent/artifact/minio"
	"github.com/shingyusik/scientific-analysis-agent/config"
	"github.com/shingyusik/scientific-analysis-agent/core"
	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/filter"
	"github.com/shingyusik/scientific-analysis-agent/loader"
	"github.com/shingyusik/scientific-analysis-agent/logging"
	"github.com/shingyusik/scientific-analysis-agent/model"
	anthropicmodel "github.com/shingyusik/scientific-analysis-agent/model/anthropic"
	openaimodel "github.com/shingyusik/scientific-analysis-agent/model/openai"
	"github.com/shingyusik/scientific-analysis-agent/pipeline"
)

var (
	configPath string
	dataPath   string

	cfg    config.Config
	logger logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "saagent",
	Short: "Scientific analysis agent for mesh datasets",
	Long: `saagent loads mesh datasets (legacy ASCII VTK), applies analysis filters
(slice, clip, contour, elevation) through a pipeline, renders previews and
exposes the whole workflow to a language model as chat.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger = logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "dataset to load (.vtk); a built-in cone when empty")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(sliceCmd)
	rootCmd.AddCommand(clipCmd)
	rootCmd.AddCommand(contourCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(drawCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRoot loads the configured dataset, falling back to the built-in cone
// source so the tool is usable without any input file.
func loadRoot() (*dataset.Dataset, string, error) {
	if dataPath == "" {
		return dataset.Cone(32), "cone", nil
	}
	return loader.Load(dataPath)
}

// newPipeline builds a pipeline with the default filter registry over the
// configured dataset.
func newPipeline() (*pipeline.Pipeline, error) {
	root, name, err := loadRoot()
	if err != nil {
		return nil, err
	}
	return pipeline.New(filter.DefaultRegistry(), root, name, func(o *pipeline.Options) {
		o.Logger = logger
	}), nil
}

// buildModel constructs the configured model backend.
func buildModel() (model.Model, error) {
	switch cfg.Provider {
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.ModelID != "" {
				o.Model = anthropic.Model(cfg.ModelID)
			}
			o.APIKey = cfg.APIKey()
		}), nil
	case "openai":
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.ModelID != "" {
				o.Model = cfg.ModelID
			}
			o.APIKey = cfg.APIKey()
		}), nil
	case "mock":
		return model.NewMockModel("mock"), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// buildArtifacts selects the artifact backend: MinIO when an endpoint is
// configured, the local filesystem otherwise.
func buildArtifacts() (core.ArtifactStore, error) {
	if cfg.Minio.Endpoint == "" {
		return artifact.NewLocalStore(cfg.ArtifactDir)
	}
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}
	return artifactminio.NewStore(client, cfg.Minio.Bucket, cfg.Minio.Prefix), nil
}
