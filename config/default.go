package config

import _ "embed"

// DefaultConfigYAML ships inside the binary so the server starts with
// no config file at all.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
