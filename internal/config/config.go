// Package config loads the description of the pipeline steps from YAML.
package config

import (
	"bytes"
	_ "embed"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

var (
	ErrNoSteps           = errors.New("config must define at least one step")
	ErrStepNameMustBeSet = errors.New("step name must be set")
	ErrCommandMustBeSet  = errors.New("step command must be set")
	ErrDuplicateStep     = errors.New("step name already used")
	ErrReservedStepName  = errors.New("step name is reserved")
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrVariableCycle     = errors.New("variable references itself")
)

//go:embed default.yaml
var defaultConfig []byte

// Config describes the steps of a pipeline.
type Config struct {
	// Vars are the default values of ${NAME} placeholders.
	Vars  map[string]string `yaml:"vars"`
	Steps []StepConfig      `yaml:"steps"`
}

// StepConfig describes one step. Every field but Name may hold ${NAME} placeholders.
type StepConfig struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Dir     string   `yaml:"dir,omitempty"`
	Args    []string `yaml:"args,omitempty"`
	Env     []string `yaml:"env,omitempty"`
}

// LookupFunc returns the value of a variable defined outside of the config, like os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// Default returns the embedded MGI dump pipeline.
func Default() (*Config, error) {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, "invalid embedded config")
	}

	return cfg, nil
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return cfg, nil
}

// Parse decodes and validates a YAML config. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the steps are runnable: at least one, each named once, each with a command.
func (c *Config) Validate() error {
	if len(c.Steps) == 0 {
		return ErrNoSteps
	}

	names := make(map[string]struct{}, len(c.Steps))

	for idx, step := range c.Steps {
		if step.Name == "" {
			return errors.Wrapf(ErrStepNameMustBeSet, "step %d", idx+1)
		}

		if model.IsReservedName(step.Name) {
			return errors.Wrapf(ErrReservedStepName, "step %s", step.Name)
		}

		if strings.TrimSpace(step.Command) == "" {
			return errors.Wrapf(ErrCommandMustBeSet, "step %s", step.Name)
		}

		if _, ok := names[step.Name]; ok {
			return errors.Wrapf(ErrDuplicateStep, "step %s", step.Name)
		}

		names[step.Name] = struct{}{}
	}

	return nil
}

// Resolve expands the placeholders of every step and returns the steps ready to be added to a pipeline.
// A placeholder is looked up with lookup first, then in Vars. A nil lookup only uses Vars.
func (c *Config) Resolve(lookup LookupFunc) ([]pipeline.Step, error) {
	exp := newExpander(c.Vars, lookup)
	steps := make([]pipeline.Step, 0, len(c.Steps))

	for _, stepCfg := range c.Steps {
		step := pipeline.Step{
			Name:    stepCfg.Name,
			Command: exp.expand(stepCfg.Command),
			Dir:     exp.expand(stepCfg.Dir),
			Args:    exp.expandAll(stepCfg.Args),
			Env:     exp.expandAll(stepCfg.Env),
		}

		err := exp.err()
		if err != nil {
			return nil, errors.Wrapf(err, "step %s", stepCfg.Name)
		}

		steps = append(steps, step)
	}

	return steps, nil
}

type expander struct {
	lookup    LookupFunc
	vars      map[string]string
	resolved  map[string]string
	resolving map[string]bool
	unknown   map[string]struct{}
	cycle     string
}

func newExpander(vars map[string]string, lookup LookupFunc) *expander {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}

	return &expander{
		lookup:    lookup,
		vars:      vars,
		resolved:  make(map[string]string),
		resolving: make(map[string]bool),
		unknown:   make(map[string]struct{}),
	}
}

func (e *expander) value(name string) string {
	if val, ok := e.lookup(name); ok {
		return val
	}

	if val, ok := e.resolved[name]; ok {
		return val
	}

	raw, ok := e.vars[name]
	if !ok {
		e.unknown[name] = struct{}{}

		return ""
	}

	if e.resolving[name] {
		e.cycle = name

		return ""
	}

	e.resolving[name] = true
	val := e.expand(raw)
	e.resolving[name] = false
	e.resolved[name] = val

	return val
}

func (e *expander) expand(s string) string {
	return os.Expand(s, e.value)
}

func (e *expander) expandAll(list []string) []string {
	if list == nil {
		return nil
	}

	res := make([]string, len(list))
	for i, s := range list {
		res[i] = e.expand(s)
	}

	return res
}

func (e *expander) err() error {
	if e.cycle != "" {
		return errors.Wrapf(ErrVariableCycle, "%s", e.cycle)
	}

	if len(e.unknown) == 0 {
		return nil
	}

	names := make([]string, 0, len(e.unknown))
	for name := range e.unknown {
		names = append(names, name)
	}

	sort.Strings(names)

	return errors.Wrapf(ErrUnknownVariable, "%s", strings.Join(names, ", "))
}
