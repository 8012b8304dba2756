// Package config loads the agentdeck YAML configuration with environment
// variable expansion and validation.
package config
