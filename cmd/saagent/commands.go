package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shingyusik/scientific-analysis-agent/engine"
	"github.com/shingyusik/scientific-analysis-agent/filter"
	"github.com/shingyusik/scientific-analysis-agent/loader"
	"github.com/shingyusik/scientific-analysis-agent/render"
	"github.com/shingyusik/scientific-analysis-agent/session"
)

var (
	outPath   string
	origin    []float64
	normal    []float64
	offsets   []float64
	values    []float64
	arrayName string
	styleName string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print dataset information",
	Long: `Prints point and cell counts, bounds, data arrays and the active scalar
field of the dataset. When the file is part of a numbered time series
(e.g. result_0001.vtk), the series members are listed too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, name, err := loadRoot()
		if err != nil {
			return err
		}
		fmt.Printf("Name: %s\n%s\n", name, engine.DataInfo(root).String())

		if dataPath != "" {
			if series := loader.DetectSeries(dataPath); len(series) > 1 {
				fmt.Printf("\nTime series with %d files:\n", len(series))
				datasets, err := loader.LoadSeries(context.Background(), series)
				if err != nil {
					return err
				}
				for i, ds := range datasets {
					fmt.Printf("  %s [points: %d, cells: %d]\n", series[i], ds.NumPoints(), ds.NumCells())
				}
			}
		}
		return nil
	},
}

var sliceCmd = &cobra.Command{
	Use:   "slice",
	Short: "Slice the dataset with one or more planes",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := filter.DefaultSliceParams().Params()
		if len(origin) == 3 {
			params["origin"] = origin
		}
		if len(normal) == 3 {
			params["normal"] = normal
		}
		if len(offsets) > 0 {
			params["offsets"] = offsets
		}
		return applyAndWrite(filter.TypeSlice, params)
	},
}

var clipCmd = &cobra.Command{
	Use:   "clip",
	Short: "Clip the dataset against a plane",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := filter.DefaultClipParams().Params()
		if len(origin) == 3 {
			params["origin"] = origin
		}
		if len(normal) == 3 {
			params["normal"] = normal
		}
		return applyAndWrite(filter.TypeClip, params)
	},
}

var contourCmd = &cobra.Command{
	Use:   "contour",
	Short: "Extract scalar isosurfaces from the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := filter.DefaultContourParams().Params()
		if len(values) > 0 {
			params["values"] = values
		}
		if arrayName != "" {
			params["array_name"] = arrayName
		}
		return applyAndWrite(filter.TypeContour, params)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dataset to a PNG image",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _, err := loadRoot()
		if err != nil {
			return err
		}
		opts := render.DefaultOptions()
		opts.Width = cfg.Render.Width
		opts.Height = cfg.Render.Height
		if styleName != "" {
			opts.Style = render.Style(styleName)
		}
		r, err := render.New(root, opts)
		if err != nil {
			return err
		}
		if err := r.WritePNG(outPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", outPath)
		return nil
	},
}

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Write the snapshot pipeline as a DOT graph",
	Long: `Restores the pipeline snapshot onto the dataset and writes the transform
chain as a graphviz DOT file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		snap, err := session.LoadSnapshot(cfg.SnapshotPath)
		if err != nil {
			return err
		}
		if err := session.RestoreInto(snap, p, func(o *session.RestoreOptions) {
			o.Logger = logger
		}); err != nil {
			return err
		}
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := p.Draw(f); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", outPath)
		return nil
	},
}

// applyAndWrite runs one filter over the loaded dataset and writes the
// resulting preview image.
func applyAndWrite(typeID string, params filter.Params) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	step, err := p.Apply(typeID, params)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d points, %d cells\n", step.Name, step.Data.NumPoints(), step.Data.NumCells())
	if outPath != "" && step.Renderable != nil {
		if err := step.Renderable.WritePNG(outPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", outPath)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{sliceCmd, clipCmd} {
		c.Flags().Float64SliceVar(&origin, "origin", nil, "plane origin x,y,z")
		c.Flags().Float64SliceVar(&normal, "normal", nil, "plane normal x,y,z")
	}
	sliceCmd.Flags().Float64SliceVar(&offsets, "offsets", nil, "plane offsets along the normal")
	contourCmd.Flags().Float64SliceVar(&values, "values", nil, "contour isovalues")
	contourCmd.Flags().StringVar(&arrayName, "array", "", "scalar array to contour")
	renderCmd.Flags().StringVar(&styleName, "style", "", "representation style (Surface, Surface With Edges, Wireframe, Points)")

	for _, c := range []*cobra.Command{sliceCmd, clipCmd, contourCmd, renderCmd} {
		c.Flags().StringVar(&outPath, "out", "out.png", "output image file")
	}
	drawCmd.Flags().StringVar(&outPath, "out", "pipeline.dot", "output DOT file")
}
