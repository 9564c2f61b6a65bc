// Package workflow generates the multi-application deployment workflow.
//
// This package is part of the Functional Core: Generate is a pure function of
// its PipelineSpec and Options. Each job emitter returns a structured Job; the
// document is turned into YAML text only at the boundary (Document.Marshal),
// so every value lands in a properly escaped YAML scalar.
//
// # Jobs
//
// The job order is fixed:
//
//	validate -> deploy-nonprod -> notify
//	                           -> deploy-prod (needs validate, deploy-nonprod; gated by the prod environment)
//
// notify and deploy-prod start together once deploy-nonprod succeeds; neither
// needs the other. Production waits for approval only through the required
// reviewers configured on the repository's prod environment. Without that
// protection rule deploy-prod runs unattended.
//
// Steps inside a job run sequentially in application order. A failing step
// aborts every later step of its job, including steps of other applications.
//
// # Usage
//
//	result, err := workflow.Generate(spec, workflow.Options{GeneratedAt: time.Now()})
//	if err != nil {
//	    // nothing was generated
//	}
//	os.WriteFile(result.Name, result.Content, 0644)
package workflow
