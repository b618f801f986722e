package triage

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// DefaultRules returns the built-in rule table. The embedded table is part
// of the binary, so a parse failure is a build defect and panics.
func DefaultRules() *RuleSet {
	rs, err := Load(bytes.NewReader(defaultRulesYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded triage rules: %v", err))
	}
	return rs
}

// LoadFile reads and parses a rule table YAML file with strict
// unknown-field rejection (yaml.v3 KnownFields).
func LoadFile(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a rule table from an io.Reader with strict unknown-field
// rejection.
func Load(r io.Reader) (*RuleSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var rs RuleSet
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	return &rs, nil
}
