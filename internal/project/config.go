package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the content of a gqlir.yaml file.
//
//	projects:
//	  - name: starwars
//	    schema: schema/*.graphqls
//	    documents:
//	      - queries/*.graphql
//	    addTypename: true
//	    output:
//	      ir: out/ir.yaml
//	      manifest: out/operations.json
type Config struct {
	Projects []*ProjectConfig `yaml:"projects"`
}

type ProjectConfig struct {
	Name        string       `yaml:"name"`
	Schema      StringList   `yaml:"schema"`
	Documents   StringList   `yaml:"documents"`
	AddTypename bool         `yaml:"addTypename"`
	Output      OutputConfig `yaml:"output"`

	// BaseDir resolves relative paths. it is the directory of the config file.
	BaseDir string `yaml:"-"`
}

type OutputConfig struct {
	// IR is the file the compiled document is written to. "-" is stdout.
	IR string `yaml:"ir"`
	// Format is yaml, json or text. guessed from the IR extension when empty.
	Format string `yaml:"format"`
	// Normalize inlines fragment spreads and redundant type conditions of
	// every operation in text output.
	Normalize bool `yaml:"normalize"`
	// Manifest is the persisted query manifest file.
	Manifest string `yaml:"manifest"`
	// OperationsDir receives one <id>.json per operation.
	OperationsDir string `yaml:"operationsDir"`
}

// StringList accepts a single string or a sequence of strings.
type StringList []string

var _ yaml.InterfaceUnmarshaler = (*StringList)(nil)

func (l *StringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		*l = StringList{s}
		return nil
	}

	var ss []string
	if err := unmarshal(&ss); err != nil {
		return err
	}
	*l = ss
	return nil
}

func LoadConfig(filePath string) (*Config, error) {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return ParseConfig(b, filepath.Dir(filePath))
}

func ParseConfig(b []byte, baseDir string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for i, p := range cfg.Projects {
		if p.Name == "" {
			p.Name = fmt.Sprintf("project%d", i)
		}
		p.BaseDir = baseDir
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (p *ProjectConfig) Validate() error {
	if len(p.Schema) == 0 {
		return fmt.Errorf("%w: %s: schema is required", ErrInvalidConfig, p.Name)
	}
	if len(p.Documents) == 0 {
		return fmt.Errorf("%w: %s: documents is required", ErrInvalidConfig, p.Name)
	}
	if _, err := p.Output.format(); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, p.Name, err.Error())
	}

	return nil
}

func (p *ProjectConfig) resolve(path string) string {
	if path == "-" || filepath.IsAbs(path) || p.BaseDir == "" {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatText = "text"
)

func (o *OutputConfig) format() (string, error) {
	format := o.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(o.IR)) {
		case ".json":
			format = FormatJSON
		case ".txt":
			format = FormatText
		default:
			format = FormatYAML
		}
	}

	switch format {
	case FormatYAML, FormatJSON, FormatText:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}
