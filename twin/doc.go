// Package twin is a small REST client for the digital-twin service.
//
// Before injecting a fault, the loop can mirror the target resources into
// a twin workspace so the experiment runs against a model of the
// infrastructure instead of (or alongside) the real thing. The client
// covers the two calls the loop needs: creating a twin from resource
// descriptors and checking its status.
package twin
