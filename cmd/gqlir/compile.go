package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/vvakame/gqlir/internal/project"
	"golang.org/x/sync/errgroup"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the projects of a config file, or the files given by flags",
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringP("config", "c", "", "config file (gqlir.yaml)")
	compileCmd.Flags().StringSliceP("schema", "s", nil, "schema files or globs")
	compileCmd.Flags().StringSliceP("documents", "d", nil, "document files or globs")
	compileCmd.Flags().Bool("add-typename", false, "add __typename to every composite selection")
	compileCmd.Flags().StringP("out", "o", "-", "IR output file, - for stdout")
	compileCmd.Flags().StringP("format", "f", "", "IR output format (yaml|json|text)")
	compileCmd.Flags().Bool("normalize", false, "inline fragments in text output")
	compileCmd.Flags().String("manifest", "", "persisted query manifest file")
	compileCmd.Flags().String("operations-dir", "", "directory for one <id>.json per operation")
	compileCmd.Flags().IntP("jobs", "j", runtime.GOMAXPROCS(0), "projects compiled in parallel")
}

func runCompile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs <= 0 {
		jobs = 1
	}

	// projects don't share any state. outputs are written in order afterwards
	results := make([]*project.Result, len(cfg.Projects))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, p := range cfg.Projects {
		i, p := i, p
		eg.Go(func() error {
			result, err := p.Compile(egCtx)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, result := range results {
		if err := result.Write(ctx, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	return nil
}

func configFromFlags(cmd *cobra.Command) (*project.Config, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	schema, _ := flags.GetStringSlice("schema")
	documents, _ := flags.GetStringSlice("documents")

	switch {
	case configPath != "" && (len(schema) != 0 || len(documents) != 0):
		return nil, fmt.Errorf("--config can't be used with --schema or --documents")
	case configPath != "":
		return project.LoadConfig(configPath)
	}

	addTypename, _ := flags.GetBool("add-typename")
	out, _ := flags.GetString("out")
	format, _ := flags.GetString("format")
	normalize, _ := flags.GetBool("normalize")
	manifest, _ := flags.GetString("manifest")
	operationsDir, _ := flags.GetString("operations-dir")

	p := &project.ProjectConfig{
		Name:        "default",
		Schema:      schema,
		Documents:   documents,
		AddTypename: addTypename,
		Output: project.OutputConfig{
			IR:            out,
			Format:        format,
			Normalize:     normalize,
			Manifest:      manifest,
			OperationsDir: operationsDir,
		},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &project.Config{Projects: []*project.ProjectConfig{p}}, nil
}
