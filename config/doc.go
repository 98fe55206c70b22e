// Package config loads and validates the chaossec.yaml configuration.
//
// Safety mode defaults to on; every path that could disable it is
// explicit (the yaml key or the CHAOSSEC_SAFETY_MODE variable set to
// "false"). Secrets are never read from the yaml file, only from the
// environment.
package config
