package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleDocument() *Document {
	return &Document{
		Comments: []string{"first line", "second line"},
		Name:     "Deploy sample",
		Inputs: []Input{
			{ID: "sample_tag", Description: "Release tag", Type: InputString},
			{ID: "deploy_sample", Description: "Deploy sample", Type: InputBoolean, Default: "false"},
		},
		Permissions: Pairs{{Key: "contents", Value: "write"}},
		Env:         Pairs{{Key: "GH_HOST", Value: "github.com"}},
		Concurrency: Concurrency{Group: "deploy-sample"},
		Jobs: []Job{
			{
				ID:     "build",
				Name:   "Build",
				RunsOn: "ubuntu-latest",
				Steps: []Step{
					{Name: "Checkout", Uses: "actions/checkout@v4"},
					{Name: "Script", If: "inputs.deploy_sample == true", Run: "echo one\necho two\n"},
				},
			},
			{
				ID:          "ship",
				Name:        "Ship",
				Needs:       []string{"build"},
				RunsOn:      "ubuntu-latest",
				Environment: "prod",
				Steps:       []Step{{Name: "Ship it", ContinueOnError: true, Run: "echo ship"}},
			},
		},
	}
}

// =============================================================================
// Marshal Tests
// =============================================================================

func TestDocument_Marshal_CommentsFirst(t *testing.T) {
	out, err := sampleDocument().Marshal()
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	assert.Equal(t, "# first line", lines[0])
	assert.Equal(t, "# second line", lines[1])
}

func TestDocument_Marshal_SectionOrder(t *testing.T) {
	out, err := sampleDocument().Marshal()
	require.NoError(t, err)
	text := string(out)

	order := []string{"\nname: ", "workflow_dispatch:", "\npermissions:", "\nenv:", "\nconcurrency:", "\njobs:", "\n  build:", "\n  ship:"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(text, marker)
		require.NotEqual(t, -1, idx, "missing %q", marker)
		assert.Greater(t, idx, last, "%q out of order", marker)
		last = idx
	}
}

func TestDocument_Marshal_RoundTrip(t *testing.T) {
	out, err := sampleDocument().Marshal()
	require.NoError(t, err)

	var parsed struct {
		Name string `yaml:"name"`
		On   struct {
			WorkflowDispatch struct {
				Inputs map[string]struct {
					Type     string `yaml:"type"`
					Required bool   `yaml:"required"`
					Default  any    `yaml:"default"`
				} `yaml:"inputs"`
			} `yaml:"workflow_dispatch"`
		} `yaml:"on"`
		Concurrency struct {
			Group            string `yaml:"group"`
			CancelInProgress bool   `yaml:"cancel-in-progress"`
		} `yaml:"concurrency"`
		Jobs map[string]struct {
			Needs       []string `yaml:"needs"`
			Environment string   `yaml:"environment"`
			Steps       []struct {
				Name            string `yaml:"name"`
				If              string `yaml:"if"`
				Uses            string `yaml:"uses"`
				Run             string `yaml:"run"`
				ContinueOnError bool   `yaml:"continue-on-error"`
			} `yaml:"steps"`
		} `yaml:"jobs"`
	}
	require.NoError(t, yaml.Unmarshal(out, &parsed))

	assert.Equal(t, "Deploy sample", parsed.Name)
	assert.Equal(t, "string", parsed.On.WorkflowDispatch.Inputs["sample_tag"].Type)
	assert.Equal(t, "", parsed.On.WorkflowDispatch.Inputs["sample_tag"].Default)
	assert.Equal(t, false, parsed.On.WorkflowDispatch.Inputs["deploy_sample"].Default)
	assert.False(t, parsed.On.WorkflowDispatch.Inputs["deploy_sample"].Required)
	assert.Equal(t, "deploy-sample", parsed.Concurrency.Group)
	assert.False(t, parsed.Concurrency.CancelInProgress)

	build := parsed.Jobs["build"]
	require.Len(t, build.Steps, 2)
	assert.Equal(t, "actions/checkout@v4", build.Steps[0].Uses)
	assert.Equal(t, "echo one\necho two\n", build.Steps[1].Run)
	assert.Equal(t, "inputs.deploy_sample == true", build.Steps[1].If)

	ship := parsed.Jobs["ship"]
	assert.Equal(t, []string{"build"}, ship.Needs)
	assert.Equal(t, "prod", ship.Environment)
	assert.True(t, ship.Steps[0].ContinueOnError)
}

func TestDocument_Marshal_LiteralScripts(t *testing.T) {
	out, err := sampleDocument().Marshal()
	require.NoError(t, err)

	assert.Contains(t, string(out), "run: |\n")
	assert.Contains(t, string(out), "needs: [build]")
}

func TestDocument_Marshal_EscapesValues(t *testing.T) {
	doc := sampleDocument()
	doc.Name = "Deploy: {weird} # not a comment"

	out, err := doc.Marshal()
	require.NoError(t, err)

	var parsed struct {
		Name string `yaml:"name"`
	}
	require.NoError(t, yaml.Unmarshal(out, &parsed))
	assert.Equal(t, "Deploy: {weird} # not a comment", parsed.Name)
}

// =============================================================================
// Pairs / Lookup Tests
// =============================================================================

func TestPairs_GetAndKeys(t *testing.T) {
	p := Pairs{{Key: "A", Value: "1"}, {Key: "B", Value: "2"}}

	v, ok := p.Get("B")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = p.Get("C")
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "B"}, p.Keys())
}

func TestDocument_Job(t *testing.T) {
	doc := sampleDocument()

	job, ok := doc.Job("ship")
	require.True(t, ok)
	assert.Equal(t, "Ship", job.Name)

	_, ok = doc.Job("missing")
	assert.False(t, ok)
}
