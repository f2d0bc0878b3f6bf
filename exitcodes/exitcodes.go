// Package exitcodes defines the standard exit codes used by gherkin-acceptor.
package exitcodes

// Exit code constants used by gherkin-acceptor
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when every target in the batch passes
// * BatchFailure (1): Used when one or more scenarios fail
// * RuntimeErr (2): Used for runtime errors such as panics or configuration failures
const (
	Success      = 0 // Every target passes
	BatchFailure = 1 // Failing scenarios
	RuntimeErr   = 2 // Runtime errors or configuration failures
)
