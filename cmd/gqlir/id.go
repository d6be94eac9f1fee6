package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvakame/gqlir/internal/project"
	"github.com/vvakame/gqlir/persisted"
)

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Print the persisted query id of every operation",
	RunE:  runID,
}

func init() {
	idCmd.Flags().StringP("config", "c", "", "config file (gqlir.yaml)")
	idCmd.Flags().StringSliceP("schema", "s", nil, "schema files or globs")
	idCmd.Flags().StringSliceP("documents", "d", nil, "document files or globs")
	idCmd.Flags().Bool("add-typename", false, "add __typename to every composite selection")
	idCmd.Flags().Bool("source", false, "print the hashed source under each id")
}

func runID(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := idConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	withSource, _ := cmd.Flags().GetBool("source")

	// projects sharing documents print each id once
	var manifest *persisted.Manifest
	for _, p := range cfg.Projects {
		result, err := p.Compile(ctx)
		if err != nil {
			return err
		}
		if manifest == nil {
			manifest = result.Manifest
			continue
		}
		manifest.Merge(result.Manifest)
	}
	if manifest == nil {
		return nil
	}

	w := cmd.OutOrStdout()
	for _, id := range manifest.IDs() {
		entry, _ := manifest.Lookup(id)
		fmt.Fprintf(w, "%s\t%s\n", id, entry.Name)
		if withSource {
			fmt.Fprintf(w, "%s\n\n", entry.Body)
		}
	}

	return nil
}

func idConfigFromFlags(cmd *cobra.Command) (*project.Config, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	if configPath != "" {
		return project.LoadConfig(configPath)
	}

	schema, _ := flags.GetStringSlice("schema")
	documents, _ := flags.GetStringSlice("documents")
	addTypename, _ := flags.GetBool("add-typename")

	p := &project.ProjectConfig{
		Name:        "default",
		Schema:      schema,
		Documents:   documents,
		AddTypename: addTypename,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &project.Config{Projects: []*project.ProjectConfig{p}}, nil
}
