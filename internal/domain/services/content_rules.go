package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

// numberPattern matches the first integer or decimal on a line
var numberPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// MatchRule evaluates a single content rule against content
// Pure business logic - no I/O
func MatchRule(content string, rule entities.ContentRule) (bool, error) {
	switch rule.Type {
	case entities.RuleStatMatch:
		return matchStat(content, rule.Target, rule.Expected), nil
	case entities.RuleRegexMatch:
		re, err := regexp.Compile(rule.Expected)
		if err != nil {
			return false, fmt.Errorf("invalid regex %q: %w", rule.Expected, err)
		}
		return re.MatchString(content), nil
	case entities.RuleTextMatch:
		return strings.Contains(content, rule.Expected), nil
	default:
		return false, fmt.Errorf("unknown rule type %q", rule.Type)
	}
}

// matchStat reports whether any line containing target has expected as its first number
func matchStat(content, target, expected string) bool {
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, target) {
			continue
		}
		if m := numberPattern.FindString(line); m != "" && m == expected {
			return true
		}
	}
	return false
}
