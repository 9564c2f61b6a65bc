package workflow

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type parsedWorkflow struct {
	Name string `yaml:"name"`
	On   struct {
		WorkflowDispatch struct {
			Inputs map[string]struct {
				Type    string `yaml:"type"`
				Default any    `yaml:"default"`
			} `yaml:"inputs"`
		} `yaml:"workflow_dispatch"`
	} `yaml:"on"`
	Env  map[string]string `yaml:"env"`
	Jobs map[string]struct {
		Needs       []string          `yaml:"needs"`
		Environment string            `yaml:"environment"`
		Outputs     map[string]string `yaml:"outputs"`
		Steps       []struct {
			Name            string `yaml:"name"`
			If              string `yaml:"if"`
			Run             string `yaml:"run"`
			ContinueOnError bool   `yaml:"continue-on-error"`
		} `yaml:"steps"`
	} `yaml:"jobs"`
}

func generate(t *testing.T, spec domain.PipelineSpec) (*Result, parsedWorkflow) {
	t.Helper()
	result, err := Generate(spec, Options{GeneratedAt: fixedTime})
	require.NoError(t, err)

	var parsed parsedWorkflow
	require.NoError(t, yaml.Unmarshal(result.Content, &parsed))
	return result, parsed
}

func withoutDateLine(content []byte) []byte {
	var out [][]byte
	for _, line := range bytes.Split(content, []byte("\n")) {
		if !bytes.HasPrefix(line, []byte(DateCommentPrefix)) {
			out = append(out, line)
		}
	}
	return bytes.Join(out, []byte("\n"))
}

// =============================================================================
// Cardinality Tests
// =============================================================================

func TestGenerate_InputsAndConditionsPerApp(t *testing.T) {
	for n := domain.MinApps; n <= domain.MaxApps; n++ {
		t.Run(fmt.Sprintf("%d apps", n), func(t *testing.T) {
			_, parsed := generate(t, specN(n))

			strs, bools := 0, 0
			for _, in := range parsed.On.WorkflowDispatch.Inputs {
				switch in.Type {
				case "string":
					strs++
				case "boolean":
					bools++
					assert.Equal(t, false, in.Default)
				}
			}
			assert.Equal(t, n, strs)
			assert.Equal(t, n, bools)

			for _, id := range []string{"deploy-nonprod", "deploy-prod"} {
				conditions := map[string]bool{}
				for _, s := range parsed.Jobs[id].Steps {
					if s.If != "" {
						conditions[s.If] = true
					}
				}
				assert.Len(t, conditions, n, id)
			}
		})
	}
}

func TestGenerate_InvalidCardinality(t *testing.T) {
	for _, n := range []int{0, domain.MaxApps + 1} {
		result, err := Generate(specN(n), Options{GeneratedAt: fixedTime})
		require.Error(t, err)
		assert.Nil(t, result)

		var cardinality *domain.InvalidCardinalityError
		require.True(t, errors.As(err, &cardinality))
		assert.Equal(t, n, cardinality.Count)
	}
}

// =============================================================================
// Structure Tests
// =============================================================================

func TestGenerate_JobOrderAndNeeds(t *testing.T) {
	result, parsed := generate(t, specWith(fileApp("orders-api"), archiveApp("web")))

	ids := make([]string, 0, len(result.Document.Jobs))
	for _, job := range result.Document.Jobs {
		ids = append(ids, job.ID)
	}
	assert.Equal(t, []string{"validate", "deploy-nonprod", "notify", "deploy-prod"}, ids)

	content := string(result.Content)
	last := -1
	for _, id := range ids {
		idx := strings.Index(content, "\n  "+id+":\n")
		require.NotEqual(t, -1, idx, id)
		assert.Greater(t, idx, last, id)
		last = idx
	}

	assert.Empty(t, parsed.Jobs["validate"].Needs)
	assert.Equal(t, []string{"validate"}, parsed.Jobs["deploy-nonprod"].Needs)
	assert.Equal(t, []string{"validate", "deploy-nonprod"}, parsed.Jobs["notify"].Needs)
	assert.Equal(t, []string{"validate", "deploy-nonprod"}, parsed.Jobs["deploy-prod"].Needs)
	assert.Equal(t, "nonprod", parsed.Jobs["deploy-nonprod"].Environment)
	assert.Equal(t, "prod", parsed.Jobs["deploy-prod"].Environment)
	// prod is held by its environment's reviewers, not by notify
	assert.NotContains(t, parsed.Jobs["deploy-prod"].Needs, "notify")
}

func TestGenerate_Header(t *testing.T) {
	result, parsed := generate(t, specWith(fileApp("orders-api"), archiveApp("web")))

	assert.True(t, strings.HasPrefix(string(result.Content), DateCommentPrefix+"2026-10-19\n"))
	assert.Equal(t, "Deploy orders-api, web", parsed.Name)
	assert.Equal(t, "github.com", parsed.Env["GH_HOST"])
	assert.Equal(t, MarkerDir, parsed.Env["MARKER_DIR"])
	assert.Equal(t, "deploy-orders-api-web.yml", result.Name)
	assert.Equal(t, "deploy-orders-api-web", result.Document.Concurrency.Group)
}

func TestGenerate_InputOrder(t *testing.T) {
	result, _ := generate(t, specWith(fileApp("orders-api"), archiveApp("web")))

	ids := make([]string, 0, len(result.Document.Inputs))
	for _, in := range result.Document.Inputs {
		ids = append(ids, in.ID)
	}
	assert.Equal(t, []string{"orders_api_tag", "deploy_orders_api", "web_tag", "deploy_web"}, ids)
}

func TestGenerate_EnterpriseHost(t *testing.T) {
	spec := specWith(fileApp("orders-api"))
	spec.Platform = domain.Enterprise("git.example.com")
	_, parsed := generate(t, spec)

	assert.Equal(t, "git.example.com", parsed.Env["GH_HOST"])
}

// =============================================================================
// Consistency Tests
// =============================================================================

var outputRef = regexp.MustCompile(`needs\.validate\.outputs\.([a-z0-9_]+)`)
var inputRef = regexp.MustCompile(`inputs\.([a-z0-9_]+)`)

// Every output and input the document references is one it declares.
func TestGenerate_ReferencesResolve(t *testing.T) {
	result, parsed := generate(t, specN(domain.MaxApps))
	content := string(result.Content)

	for _, m := range outputRef.FindAllStringSubmatch(content, -1) {
		_, ok := parsed.Jobs["validate"].Outputs[m[1]]
		assert.True(t, ok, "undeclared output %s", m[1])
	}
	for _, m := range inputRef.FindAllStringSubmatch(content, -1) {
		_, ok := parsed.On.WorkflowDispatch.Inputs[m[1]]
		assert.True(t, ok, "undeclared input %s", m[1])
	}
}

func TestGenerate_NamesMatchNaming(t *testing.T) {
	result, parsed := generate(t, specWith(fileApp("Orders API v2"), archiveApp("web.ui")))
	content := string(result.Content)

	for _, name := range []string{"Orders API v2", "web.ui"} {
		p := naming.DerivePrefix(name)
		assert.Contains(t, parsed.On.WorkflowDispatch.Inputs, naming.TagInput(p))
		assert.Contains(t, parsed.On.WorkflowDispatch.Inputs, naming.DeployInput(p))
		assert.Contains(t, parsed.Jobs["validate"].Outputs, naming.OutputDeploy(p))
		assert.Contains(t, content, "id: "+naming.CheckStepID(p))
		for _, suffix := range []string{naming.SuffixUpstreamRepo, naming.SuffixName, naming.SuffixManifestPath, naming.SuffixArtifactPattern} {
			assert.Contains(t, content, "secrets."+naming.AppRef(p, suffix))
		}
	}
}

func TestGenerate_ReferencesMatchDocument(t *testing.T) {
	result, _ := generate(t, specWith(fileApp("orders-api"), withEnvVars(archiveApp("web"), `{"A": "1"}`)))
	content := string(result.Content)

	require.Len(t, result.References, 12+4+5)
	for _, ref := range result.References {
		assert.Contains(t, content, "secrets."+ref.Name, ref.Name)
	}
}

func TestGenerate_NoUnrenderedTokens(t *testing.T) {
	result, _ := generate(t, specN(domain.MaxApps))

	assert.NotContains(t, string(result.Content), "{%")
	assert.NotContains(t, string(result.Content), "%}")
}

// =============================================================================
// Determinism Tests
// =============================================================================

func TestGenerate_Deterministic(t *testing.T) {
	spec := specN(7)

	first, err := Generate(spec, Options{GeneratedAt: fixedTime})
	require.NoError(t, err)
	second, err := Generate(spec, Options{GeneratedAt: fixedTime})
	require.NoError(t, err)
	assert.Equal(t, first.Content, second.Content)

	later, err := Generate(spec, Options{GeneratedAt: fixedTime.Add(72 * time.Hour)})
	require.NoError(t, err)
	assert.NotEqual(t, first.Content, later.Content)
	assert.Equal(t, withoutDateLine(first.Content), withoutDateLine(later.Content))
}

// =============================================================================
// Failure Tests
// =============================================================================

func TestGenerate_FailsWithoutPartialOutput(t *testing.T) {
	tests := []struct {
		name   string
		spec   domain.PipelineSpec
		target error
	}{
		{"reserved prefix", specWith(fileApp("orders-api"), fileApp("GitHub")), domain.ErrNamingConflict},
		{"colliding prefixes", specWith(fileApp("a-b"), fileApp("a.b")), domain.ErrNamingConflict},
		{"bad deploy type", specWith(domain.AppDescriptor{Name: "x", DeployType: "docker"}), domain.ErrInvalidDeployType},
		{"bad platform", func() domain.PipelineSpec {
			s := specWith(fileApp("orders-api"))
			s.Platform = domain.Enterprise("")
			return s
		}(), domain.ErrInvalidPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Generate(tt.spec, Options{GeneratedAt: fixedTime})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestGenerate_ReservedNameIsNamingConflict(t *testing.T) {
	_, err := Generate(specWith(fileApp("github_tools")), Options{GeneratedAt: fixedTime})

	var conflict *domain.NamingConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "github_tools", conflict.Name)
	assert.Equal(t, "GITHUB_TOOLS", conflict.Prefix)
}
