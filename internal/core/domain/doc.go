// Package domain contains the input model of the pipeline generator.
//
// This package is part of the Functional Core: all functions are pure (no I/O,
// no side effects). A PipelineSpec is built once from collected configuration,
// consumed once by the generator and then discarded.
//
// # Types
//
//   - AppDescriptor: one deployable application (name, artifact pattern, deploy type, env vars)
//   - PipelineSpec: the ordered application list plus platform and runner settings
//   - Platform: github.com or a GitHub Enterprise host
//   - Environment: the fixed promotion stages (Nonprod, Prod)
package domain
