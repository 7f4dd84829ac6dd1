// Package config loads terrain map configurations from JSON files and
// provides the compiled-in reference map. Configs are validated on load and
// cached for the manager's lifetime.
package config
