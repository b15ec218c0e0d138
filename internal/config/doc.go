// Package config loads and validates the application configuration from
// a YAML file and TODOAPP_-prefixed environment variables, with the
// environment taking precedence.
package config
