package policy

import (
	"fmt"
	"strings"
)

// Modes recognised by the gate.
const (
	ModeAsk  = "ask"  // consult Ask before every call
	ModeAuto = "auto" // allow calls passing the lists (default)
	ModeDeny = "deny" // reject every call except exit
)

// Call describes one system call presented to the gate.
type Call struct {
	PID  uint64
	Name string
	Args [3]uint64
}

// AskFunc is invoked when Mode==ask. Returning true approves the call.
type AskFunc func(call *Call, p *Policy) bool

// Policy is the runtime form of Config.
type Policy struct {
	Mode      string
	AllowList []string
	BlockList []string
	Ask       AskFunc
}

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// Validate checks the mode.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch strings.ToLower(c.Mode) {
	case "", ModeAuto, ModeDeny, ModeAsk:
		return nil
	}
	return fmt.Errorf("policy: unsupported mode %q", c.Mode)
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a Config back to a runtime Policy without AskFunc.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList / BlockList by case-insensitive name.
func (p *Policy) IsAllowed(name string) bool {
	if p == nil {
		return true
	}
	normalized := strings.ToLower(name)
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// Permit is the full decision for call: lists first, then Mode. exit is
// always permitted so that a task can leave the processor.
func (p *Policy) Permit(call *Call) bool {
	if p == nil {
		return true
	}
	if strings.EqualFold(call.Name, "exit") {
		return true
	}
	if !p.IsAllowed(call.Name) {
		return false
	}
	switch strings.ToLower(p.Mode) {
	case ModeDeny:
		return false
	case ModeAsk:
		if p.Ask == nil {
			return false
		}
		return p.Ask(call, p)
	}
	return true
}
