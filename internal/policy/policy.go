package policy

import (
	"strings"
	"time"
)

// WildcardTarget in a rule's target list permits any target user.
const WildcardTarget = "ALL"

// GroupPrefix marks a rule subject as a group name.
const GroupPrefix = "%"

// Rule maps one subject to the targets it may become.
type Rule struct {
	Subject  string   `yaml:"subject"`
	Targets  []string `yaml:"targets"`
	Password bool     `yaml:"password"`
}

// Policy is the immutable result of loading the configuration file.
// It is built once per invocation and passed explicitly to every
// stage; nothing mutates it after Load returns.
type Policy struct {
	Timeout time.Duration
	Rules   []Rule
}

// Decision is the outcome of evaluating the policy for one
// (invoker, target) pair. It is recomputed every invocation and never
// persisted.
type Decision struct {
	Allowed  bool
	Password bool
}

// Evaluate scans the rules in file order and returns the outcome of
// the first rule whose subject matches the invoker (by name, or by any
// of its groups) and whose targets include target or ALL. No matching
// rule means denied. Pure function: no I/O, no side effects.
func (p *Policy) Evaluate(invoker string, groups []string, target string) Decision {
	for _, r := range p.Rules {
		if !r.subjectMatches(invoker, groups) {
			continue
		}
		if !r.targetMatches(target) {
			continue
		}
		return Decision{Allowed: true, Password: r.Password}
	}
	return Decision{}
}

func (r Rule) subjectMatches(invoker string, groups []string) bool {
	if g, ok := strings.CutPrefix(r.Subject, GroupPrefix); ok {
		for _, have := range groups {
			if have == g {
				return true
			}
		}
		return false
	}
	return r.Subject == invoker
}

func (r Rule) targetMatches(target string) bool {
	for _, t := range r.Targets {
		if t == WildcardTarget || t == target {
			return true
		}
	}
	return false
}
