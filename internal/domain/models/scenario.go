package models

import (
	"fmt"
	"strings"
)

// Scenario is a scripted sequence of host operations and contract calls
type Scenario struct {
	Name  string         `yaml:"name" json:"name"`
	Steps []ScenarioStep `yaml:"steps" json:"steps"`
}

// ScenarioStep does exactly one of: call a contract method, mine blocks,
// move the clock, deploy a receiver fixture, or fund an account.
type ScenarioStep struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	From string `yaml:"from,omitempty" json:"from,omitempty"`

	// Call is "<contract>.<method>", e.g. "auction.createBid"
	Call  string   `yaml:"call,omitempty" json:"call,omitempty"`
	Args  []string `yaml:"args,omitempty" json:"args,omitempty"`
	Value string   `yaml:"value,omitempty" json:"value,omitempty"`

	Mine   uint64 `yaml:"mine,omitempty" json:"mine,omitempty"`
	Warp   string `yaml:"warp,omitempty" json:"warp,omitempty"`
	Deploy string `yaml:"deploy,omitempty" json:"deploy,omitempty"`
	As     string `yaml:"as,omitempty" json:"as,omitempty"`
	Fund   string `yaml:"fund,omitempty" json:"fund,omitempty"`

	// ExpectRevert makes the step pass only if the call reverts with this reason
	ExpectRevert string `yaml:"expect_revert,omitempty" json:"expectRevert,omitempty"`
}

// StepKind names the operation a step performs
type StepKind string

const (
	StepCall   StepKind = "call"
	StepMine   StepKind = "mine"
	StepWarp   StepKind = "warp"
	StepDeploy StepKind = "deploy"
	StepFund   StepKind = "fund"
)

// Kind reports which operation the step performs, or an error when it
// names none or several.
func (s *ScenarioStep) Kind() (StepKind, error) {
	var kinds []StepKind
	if s.Call != "" {
		kinds = append(kinds, StepCall)
	}
	if s.Mine != 0 {
		kinds = append(kinds, StepMine)
	}
	if s.Warp != "" {
		kinds = append(kinds, StepWarp)
	}
	if s.Deploy != "" {
		kinds = append(kinds, StepDeploy)
	}
	if s.Fund != "" {
		kinds = append(kinds, StepFund)
	}
	switch len(kinds) {
	case 0:
		return "", fmt.Errorf("step does nothing (set one of call, mine, warp, deploy, fund)")
	case 1:
		return kinds[0], nil
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("step sets %s; only one is allowed", strings.Join(names, " and "))
}

// Describe is the step's name, or a summary of what it does
func (s *ScenarioStep) Describe() string {
	if s.Name != "" {
		return s.Name
	}
	kind, err := s.Kind()
	if err != nil {
		return "invalid step"
	}
	switch kind {
	case StepCall:
		return fmt.Sprintf("%s(%s)", s.Call, strings.Join(s.Args, ", "))
	case StepMine:
		return fmt.Sprintf("mine %d blocks", s.Mine)
	case StepWarp:
		return "warp " + s.Warp
	case StepDeploy:
		return "deploy " + s.Deploy
	}
	return "fund " + s.Fund
}
