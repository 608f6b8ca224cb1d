// Package config defines the blink-sensor daemon settings and provides
// helpers to load, validate and save them in YAML format.
//
// Command-line flags override values read from the file.
package config
