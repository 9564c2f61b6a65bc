package workflow

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/domain"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func fileApp(name string) domain.AppDescriptor {
	return domain.AppDescriptor{
		Name:            name,
		UpstreamRepo:    "acme/" + name,
		ManifestPath:    "manifests/" + name + ".yml",
		ArtifactPattern: name + "-{version}.jar",
		DeployType:      domain.DeployTypeFile,
	}
}

func archiveApp(name string) domain.AppDescriptor {
	app := fileApp(name)
	app.ArtifactPattern = name + "-{version}.tar.gz"
	app.DeployType = domain.DeployTypeArchive
	return app
}

func withEnvVars(app domain.AppDescriptor, json string) domain.AppDescriptor {
	app.EnvVarsJSON = json
	return app
}

func specWith(apps ...domain.AppDescriptor) domain.PipelineSpec {
	return domain.PipelineSpec{
		Apps:                      apps,
		Platform:                  domain.GitHubCloud(),
		RunnerLabel:               "ubuntu-latest",
		SharedCredentialsIncluded: true,
	}
}

func specN(n int) domain.PipelineSpec {
	apps := make([]domain.AppDescriptor, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			apps = append(apps, fileApp(fmt.Sprintf("service-%d", i)))
		} else {
			apps = append(apps, withEnvVars(archiveApp(fmt.Sprintf("site-%d", i)), `{"MODE": "edge", "WORKERS": 4}`))
		}
	}
	return specWith(apps...)
}

func mustPlan(t *testing.T, spec domain.PipelineSpec) *Plan {
	t.Helper()
	plan, err := NewPlan(spec)
	require.NoError(t, err)
	return plan
}

func stepNames(steps []Step) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.Name)
	}
	return names
}

// appSteps returns the steps whose name mentions the application.
func appSteps(job Job, appName string) []Step {
	var steps []Step
	for _, s := range job.Steps {
		if strings.Contains(s.Name, " "+appName+" ") {
			steps = append(steps, s)
		}
	}
	return steps
}

func findStep(t *testing.T, steps []Step, prefix string) Step {
	t.Helper()
	for _, s := range steps {
		if strings.HasPrefix(s.Name, prefix) {
			return s
		}
	}
	require.FailNow(t, "step not found", prefix)
	return Step{}
}

func stepIndex(steps []Step, prefix string) int {
	for i, s := range steps {
		if strings.HasPrefix(s.Name, prefix) {
			return i
		}
	}
	return -1
}
