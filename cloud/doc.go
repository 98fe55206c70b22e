// Package cloud defines the contract between the chaos loop and the
// cloud resource/metrics provider.
//
// The provider supplies compliance status, metric series, and audit-trail
// events, and executes the single mutating action the loop knows about:
// making a storage resource public. The provider itself is responsible
// for honoring the safety flag passed to that action; when the flag is
// set the change is simulated and nothing external is mutated.
//
// SimProvider is a local in-memory implementation used for safety-mode
// runs and tests. Real providers (a cloud SDK wrapper) implement the same
// interface behind their own module.
package cloud
