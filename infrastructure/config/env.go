package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	domainconfig "github.com/felixgeelhaar/patrol-go/domain/config"
)

// envPattern matches ${VAR}, ${VAR:-default}, ${VAR:?message} and $VAR.
// Group 1 is the braced name, 2 the operator, 3 its operand, 4 a bare name.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:[-?])([^}]*))?\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnv substitutes environment references in input in a single pass,
// so substituted values are never expanded again. ${VAR:?message} always
// fails when VAR is unset or empty; plain references fail only when strict.
func expandEnv(input string, strict bool) (string, error) {
	var missing []string

	out := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		m := envPattern.FindStringSubmatch(match)
		name, op, operand := m[1], m[2], m[3]
		if name == "" {
			name = m[4]
		}

		value, ok := os.LookupEnv(name)
		switch op {
		case ":-":
			if value == "" {
				return operand
			}
		case ":?":
			if value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, operand))
				return match
			}
		default:
			if !ok && strict {
				missing = append(missing, name)
			}
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", domainconfig.ErrMissingEnvVar, strings.Join(missing, ", "))
	}
	return out, nil
}

// ExpandEnv expands environment references, leaving unset ones empty.
func ExpandEnv(input string) string {
	out, err := expandEnv(input, false)
	if err != nil {
		return input
	}
	return out
}

// ExpandEnvStrict expands environment references and fails on unset ones.
func ExpandEnvStrict(input string) (string, error) {
	return expandEnv(input, true)
}
