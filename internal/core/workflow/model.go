package workflow

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Document Model
// =============================================================================

// Pair is one ordered key/value entry.
type Pair struct {
	Key   string
	Value string
}

// Pairs is an ordered mapping of strings.
type Pairs []Pair

// Get returns the value stored under key.
func (p Pairs) Get(key string) (string, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// Keys returns the keys in order.
func (p Pairs) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, pair := range p {
		keys = append(keys, pair.Key)
	}
	return keys
}

// InputType is the type of a workflow_dispatch input.
type InputType string

const (
	InputString  InputType = "string"
	InputBoolean InputType = "boolean"
)

// Input is one workflow_dispatch input.
type Input struct {
	ID          string
	Description string
	Type        InputType
	Default     string
}

// Step is one job step.
type Step struct {
	Name            string
	ID              string
	If              string
	Uses            string
	With            Pairs
	ContinueOnError bool
	Env             Pairs
	Run             string
}

// Job is one workflow job.
type Job struct {
	ID          string
	Name        string
	Needs       []string
	RunsOn      string
	Environment string
	Outputs     Pairs
	Steps       []Step
}

// Concurrency serialises runs sharing a group.
type Concurrency struct {
	Group            string
	CancelInProgress bool
}

// Document is a complete workflow, in section order.
type Document struct {
	Comments    []string
	Name        string
	Inputs      []Input
	Permissions Pairs
	Env         Pairs
	Concurrency Concurrency
	Jobs        []Job
}

// Job returns the job with the given id.
func (d *Document) Job(id string) (Job, bool) {
	for _, job := range d.Jobs {
		if job.ID == id {
			return job, true
		}
	}
	return Job{}, false
}

// =============================================================================
// YAML Encoding
// =============================================================================

// Marshal renders the document as YAML preceded by its comment lines.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	for _, line := range d.Comments {
		buf.WriteString("# " + line + "\n")
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.Node()); err != nil {
		return nil, fmt.Errorf("failed to encode workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode workflow: %w", err)
	}
	return buf.Bytes(), nil
}

// Node returns the document as a YAML mapping node.
func (d *Document) Node() *yaml.Node {
	inputs := newMapping()
	for _, in := range d.Inputs {
		inputs.add(in.ID, in.node())
	}
	on := newMapping().add("workflow_dispatch", newMapping().add("inputs", inputs.node).node)

	root := newMapping().
		addString("name", d.Name).
		add("on", on.node)
	if len(d.Permissions) > 0 {
		root.add("permissions", pairsNode(d.Permissions))
	}
	if len(d.Env) > 0 {
		root.add("env", pairsNode(d.Env))
	}
	if d.Concurrency.Group != "" {
		root.add("concurrency", newMapping().
			addString("group", d.Concurrency.Group).
			add("cancel-in-progress", boolNode(d.Concurrency.CancelInProgress)).node)
	}

	jobs := newMapping()
	for _, job := range d.Jobs {
		jobs.add(job.ID, job.node())
	}
	root.add("jobs", jobs.node)
	return root.node
}

func (in Input) node() *yaml.Node {
	m := newMapping().
		addString("description", in.Description).
		add("required", boolNode(false)).
		addString("type", string(in.Type))
	if in.Type == InputBoolean {
		m.add("default", boolNode(in.Default == "true"))
	} else {
		m.add("default", strNode(in.Default))
	}
	return m.node
}

func (j Job) node() *yaml.Node {
	m := newMapping().addString("name", j.Name)
	if len(j.Needs) > 0 {
		m.add("needs", seqNode(j.Needs))
	}
	m.addString("runs-on", j.RunsOn)
	m.addString("environment", j.Environment)
	if len(j.Outputs) > 0 {
		m.add("outputs", pairsNode(j.Outputs))
	}

	steps := &yaml.Node{Kind: yaml.SequenceNode}
	for _, step := range j.Steps {
		steps.Content = append(steps.Content, step.node())
	}
	m.add("steps", steps)
	return m.node
}

func (s Step) node() *yaml.Node {
	m := newMapping().
		addString("name", s.Name).
		addString("id", s.ID).
		addString("if", s.If).
		addString("uses", s.Uses)
	if len(s.With) > 0 {
		m.add("with", pairsNode(s.With))
	}
	if s.ContinueOnError {
		m.add("continue-on-error", boolNode(true))
	}
	if len(s.Env) > 0 {
		m.add("env", pairsNode(s.Env))
	}
	m.addString("run", s.Run)
	return m.node
}

// mapping builds an ordered YAML mapping node.
type mapping struct {
	node *yaml.Node
}

func newMapping() *mapping {
	return &mapping{node: &yaml.Node{Kind: yaml.MappingNode}}
}

func (m *mapping) add(key string, value *yaml.Node) *mapping {
	m.node.Content = append(m.node.Content, strNode(key), value)
	return m
}

// addString adds a string entry, skipping empty values.
func (m *mapping) addString(key, value string) *mapping {
	if value == "" {
		return m
	}
	return m.add(key, strNode(value))
}

func strNode(value string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	if strings.Contains(value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}

func boolNode(value bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)}
}

func seqNode(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, item := range items {
		n.Content = append(n.Content, strNode(item))
	}
	return n
}

func pairsNode(pairs Pairs) *yaml.Node {
	m := newMapping()
	for _, pair := range pairs {
		m.add(pair.Key, strNode(pair.Value))
	}
	return m.node
}
