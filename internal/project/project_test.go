package project

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/goccy/go-json"
	testlogr "github.com/go-logr/logr/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/gqlir/internal/log"
	"github.com/vvakame/gqlir/persisted"
)

func writeTestFile(t *testing.T, filePath, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
}

// setupProject lays out a schema, two document files and a config in a temp dir.
func setupProject(t *testing.T, config string) string {
	t.Helper()

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "schema", "schema.graphqls"), heredoc.Doc(`
		type Query {
			hero: Character
		}

		interface Character {
			id: ID!
			name: String!
		}

		type Human implements Character {
			id: ID!
			name: String!
			height: Float
		}

		type Droid implements Character {
			id: ID!
			name: String!
			primaryFunction: String
		}
	`))
	writeTestFile(t, filepath.Join(dir, "queries", "hero.graphql"), heredoc.Doc(`
		query Hero {
			hero {
				...CharacterName
				... on Droid {
					primaryFunction
				}
			}
		}
	`))
	writeTestFile(t, filepath.Join(dir, "queries", "fragments.graphql"), heredoc.Doc(`
		fragment CharacterName on Character {
			name
		}
	`))
	writeTestFile(t, filepath.Join(dir, "gqlir.yaml"), config)

	return dir
}

func testContext(t *testing.T) context.Context {
	ctx := context.Background()
	return log.WithLogger(ctx, testlogr.NewTestLogger(t))
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(heredoc.Doc(`
		projects:
		  - name: a
		    schema: schema.graphqls
		    documents:
		      - queries/*.graphql
		      - fragments/*.graphql
		    addTypename: true
		    output:
		      ir: out/ir.json
		  - schema: [schema.graphqls]
		    documents: queries/*.graphql
		    output:
		      ir: out/ir.txt
		      format: yaml
	`)), "/base")
	require.NoError(t, err)
	require.Len(t, cfg.Projects, 2)

	a := cfg.Projects[0]
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, StringList{"schema.graphqls"}, a.Schema)
	assert.Equal(t, StringList{"queries/*.graphql", "fragments/*.graphql"}, a.Documents)
	assert.True(t, a.AddTypename)
	assert.Equal(t, "/base", a.BaseDir)
	format, err := a.Output.format()
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	b := cfg.Projects[1]
	assert.Equal(t, "project1", b.Name)
	format, err = b.Output.format()
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, format)
}

func TestParseConfig_invalid(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{
			name: "no schema",
			config: heredoc.Doc(`
				projects:
				  - documents: a.graphql
			`),
		},
		{
			name: "no documents",
			config: heredoc.Doc(`
				projects:
				  - schema: a.graphqls
			`),
		},
		{
			name: "unknown format",
			config: heredoc.Doc(`
				projects:
				  - schema: a.graphqls
				    documents: a.graphql
				    output:
				      format: xml
			`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.config), "")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestProject_Compile(t *testing.T) {
	dir := setupProject(t, heredoc.Doc(`
		projects:
		  - name: starwars
		    schema: schema/*.graphqls
		    documents: queries/*.graphql
		    addTypename: true
		    output:
		      ir: out/ir.yaml
		      manifest: out/manifest.json
		      operationsDir: out/operations
	`))
	ctx := testContext(t)

	cfg, err := LoadConfig(filepath.Join(dir, "gqlir.yaml"))
	require.NoError(t, err)
	require.Len(t, cfg.Projects, 1)

	result, err := cfg.Projects[0].Compile(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hero"}, result.Context.OperationNames)
	assert.Equal(t, []string{"CharacterName"}, result.Context.FragmentNames)
	assert.True(t, result.Context.Options.AddTypename)
	require.Len(t, result.Manifest.IDs(), 1)

	require.NoError(t, result.Write(ctx, &bytes.Buffer{}))

	b, err := os.ReadFile(filepath.Join(dir, "out", "ir.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "fragmentName: CharacterName")

	f, err := os.Open(filepath.Join(dir, "out", "manifest.json"))
	require.NoError(t, err)
	defer f.Close()
	manifest, err := persisted.ReadJSON(f)
	require.NoError(t, err)
	assert.Equal(t, result.Manifest.IDs(), manifest.IDs())

	id := result.Manifest.IDs()[0]
	_, err = os.Stat(filepath.Join(dir, "out", "operations", id+".json"))
	assert.NoError(t, err)
}

func TestResult_Encode(t *testing.T) {
	dir := setupProject(t, heredoc.Doc(`
		projects:
		  - schema: schema/*.graphqls
		    documents: queries/*.graphql
	`))
	ctx := testContext(t)

	cfg, err := LoadConfig(filepath.Join(dir, "gqlir.yaml"))
	require.NoError(t, err)
	p := cfg.Projects[0]

	result, err := p.Compile(ctx)
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		p.Output = OutputConfig{IR: "-", Format: FormatJSON}

		var buf bytes.Buffer
		require.NoError(t, result.Write(ctx, &buf))

		var obj map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
		assert.Contains(t, obj, "operations")
		assert.Contains(t, obj, "fragments")
	})

	t.Run("text", func(t *testing.T) {
		p.Output = OutputConfig{Format: FormatText}

		b, err := result.Encode()
		require.NoError(t, err)
		assert.Equal(t, heredoc.Doc(`
			query Hero [Query] {
				hero -> Character [Human, Droid] {
					...CharacterName
					... on Droid [Droid] {
						primaryFunction -> String
					}
				}
			}
			fragment CharacterName on Character [Human, Droid] {
				name -> String!
			}
		`), string(b))
	})

	t.Run("normalized text", func(t *testing.T) {
		p.Output = OutputConfig{Format: FormatText, Normalize: true}

		b, err := result.Encode()
		require.NoError(t, err)
		assert.Equal(t, heredoc.Doc(`
			query Hero [Query] {
				hero -> Character [Human, Droid] {
					name -> String!
					... on Droid [Droid] {
						primaryFunction -> String
					}
				}
			}
		`), string(b))
	})
}

func TestProject_errors(t *testing.T) {
	ctx := testContext(t)

	t.Run("no match", func(t *testing.T) {
		dir := setupProject(t, heredoc.Doc(`
			projects:
			  - schema: schema/*.graphqls
			    documents: missing/*.graphql
		`))
		cfg, err := LoadConfig(filepath.Join(dir, "gqlir.yaml"))
		require.NoError(t, err)

		_, err = cfg.Projects[0].Compile(ctx)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "no files match"), err.Error())
	})

	t.Run("validation", func(t *testing.T) {
		dir := setupProject(t, heredoc.Doc(`
			projects:
			  - schema: schema/*.graphqls
			    documents: queries/hero.graphql
		`))
		cfg, err := LoadConfig(filepath.Join(dir, "gqlir.yaml"))
		require.NoError(t, err)

		// CharacterName lives in the other file
		_, err = cfg.Projects[0].Compile(ctx)
		require.Error(t, err)

		var gErrs gqlerror.List
		assert.True(t, errors.As(err, &gErrs), err.Error())
	})
}
