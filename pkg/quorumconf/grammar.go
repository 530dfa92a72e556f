package quorumconf

import (
	"sort"
	"strconv"
	"strings"

	"github.com/honeybbq/corosyncconf/pkg/reports"
)

// valueKind selects the value check applied to one option.
type valueKind int

const (
	// valueAny accepts every non-empty string.
	valueAny valueKind = iota
	// valueBool01 accepts exactly "0" or "1".
	valueBool01
	// valueDigits accepts a non-empty decimal digit string.
	valueDigits
	// valueIntRange accepts a digit string within [min, max].
	valueIntRange
	// valueEnum accepts one of the listed values.
	valueEnum
	// valueTieBreaker accepts "lowest", "highest" or a current node id.
	valueTieBreaker
)

// optionRule describes one allowed option of a grammar.
type optionRule struct {
	kind     valueKind
	required bool
	min, max int
	allowed  []string
}

// optionGrammar is the table one operation validates its option map
// against. Validation is pure: it reads the rules and the supplied values
// and produces problem records, never touching the tree.
type optionGrammar struct {
	// optionType names the option namespace in invalid-option messages.
	optionType string
	rules      map[string]optionRule
	// unknownForceable makes unknown option names overridable by force.
	unknownForceable bool
	// hardUnknown lists unknown names that are never forceable even when
	// unknownForceable is set.
	hardUnknown map[string]bool
	// valueForceable makes failed value checks overridable by force.
	valueForceable bool
}

var quorumOptionsGrammar = optionGrammar{
	optionType: "quorum",
	rules: map[string]optionRule{
		"auto_tie_breaker":         {kind: valueBool01},
		"last_man_standing":        {kind: valueBool01},
		"last_man_standing_window": {kind: valueDigits},
		"wait_for_all":             {kind: valueBool01},
	},
}

var netModelGrammar = optionGrammar{
	optionType: "quorum device model",
	rules: map[string]optionRule{
		"host":             {kind: valueAny, required: true},
		"algorithm":        {kind: valueEnum, allowed: []string{"2nodelms", "ffsplit", "lms"}},
		"connect_timeout":  {kind: valueIntRange, min: 1000, max: 2 * 60 * 1000},
		"force_ip_version": {kind: valueEnum, allowed: []string{"0", "4", "6"}},
		"port":             {kind: valueIntRange, min: 1, max: 65535},
		"tie_breaker":      {kind: valueTieBreaker},
	},
	unknownForceable: true,
	valueForceable:   true,
}

var genericDeviceGrammar = optionGrammar{
	optionType: "quorum device",
	rules: map[string]optionRule{
		"sync_timeout": {kind: valueDigits},
		"timeout":      {kind: valueDigits},
	},
	unknownForceable: true,
	// model is never allowed in generic options, it is passed in its own
	// argument.
	hardUnknown:    map[string]bool{"model": true},
	valueForceable: true,
}

// allowedNames returns every allowed option name, sorted.
func (g optionGrammar) allowedNames() []string {
	names := make([]string, 0, len(g.rules))
	for name := range g.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// requiredNames returns the required option names, sorted.
func (g optionGrammar) requiredNames() []string {
	var names []string
	for name, rule := range g.rules {
		if rule.required {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// validate checks options against the grammar. When requireRequired is
// set, every required option must be present in the map. nodes feeds the
// tie-breaker cross-reference. The problem list is deterministic: missing
// required options first, then per-option problems in sorted name order.
func (g optionGrammar) validate(
	options map[string]string,
	nodes NodeAddressList,
	requireRequired bool,
) []reports.Problem {
	var problems []reports.Problem

	if requireRequired {
		for _, missing := range g.requiredNames() {
			if _, present := options[missing]; !present {
				problems = append(problems, reports.NewError(
					reports.CodeRequiredOptionIsMissing,
					map[string]string{reports.InfoName: missing},
				))
			}
		}
	}

	for _, name := range sortedKeys(options) {
		value := options[name]

		rule, known := g.rules[name]
		if !known {
			problem := reports.NewError(reports.CodeInvalidOption, map[string]string{
				reports.InfoOption:     name,
				reports.InfoOptionType: g.optionType,
				reports.InfoAllowed:    strings.Join(g.allowedNames(), " or "),
			})
			problem.Forceable = g.unknownForceable && !g.hardUnknown[name]
			problems = append(problems, problem)
			continue
		}

		if value == "" {
			// Empty means delete; a required option cannot be blanked.
			if rule.required {
				problems = append(problems, reports.NewError(
					reports.CodeRequiredOptionIsMissing,
					map[string]string{reports.InfoName: name},
				))
			}
			continue
		}

		if allowed, ok := g.checkValue(rule, value, nodes); !ok {
			problem := reports.NewError(reports.CodeInvalidOptionValue, map[string]string{
				reports.InfoOptionName:    name,
				reports.InfoOptionValue:   value,
				reports.InfoAllowedValues: allowed,
			})
			problem.Forceable = g.valueForceable
			problems = append(problems, problem)
		}
	}

	return problems
}

// checkValue applies one rule to a non-empty value. It returns the
// human readable allowed-values description and whether the value passed.
func (g optionGrammar) checkValue(rule optionRule, value string, nodes NodeAddressList) (string, bool) {
	switch rule.kind {
	case valueBool01:
		return "0 or 1", value == "0" || value == "1"
	case valueDigits:
		return "integer", isDigits(value)
	case valueIntRange:
		allowed := strconv.Itoa(rule.min) + "-" + strconv.Itoa(rule.max)
		if !isDigits(value) {
			return allowed, false
		}
		n, err := strconv.Atoi(value)
		return allowed, err == nil && n >= rule.min && n <= rule.max
	case valueEnum:
		return strings.Join(rule.allowed, " or "), contains(rule.allowed, value)
	case valueTieBreaker:
		allowed := "lowest or highest or valid node id"
		if value == "lowest" || value == "highest" {
			return allowed, true
		}
		return allowed, contains(nodes.IDs(), value)
	default:
		return "", true
	}
}

// validateModel checks the quorum device model name. Only "net" is
// supported; anything else is a forceable error.
func validateModel(model string) []reports.Problem {
	allowed := []string{"net"}
	if contains(allowed, model) {
		return nil
	}
	return []reports.Problem{reports.NewForceableError(
		reports.CodeInvalidOptionValue,
		map[string]string{
			reports.InfoOptionName:    "model",
			reports.InfoOptionValue:   model,
			reports.InfoAllowedValues: strings.Join(allowed, " or "),
		},
	)}
}

// modelGrammar returns the grammar for a device model, or false when the
// model has no known grammar (unsupported models validate nothing).
func modelGrammar(model string) (optionGrammar, bool) {
	if model == "net" {
		return netModelGrammar, true
	}
	return optionGrammar{}, false
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
