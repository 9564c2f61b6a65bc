// Package validation provides pure checks of application descriptor fields
// that the generator itself does not need.
//
// The generated workflow reads repository, manifest and artifact details
// from credential references at run time, so generation succeeds without
// them. The tool populating those references does need them; these checks
// let it reject an incomplete descriptor before anything is written.
//
// # Functions
//
//   - ValidateAppFields: Validate the reference values of one application
//   - CheckArtifactPattern: Report whether a pattern varies with the release
//
// # Usage
//
//	if field, msg := validation.ValidateAppFields(app); field != "" {
//	    // Reject the descriptor with msg
//	}
package validation
