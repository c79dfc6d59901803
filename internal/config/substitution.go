package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${env://VAR} and ${env://VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{env://([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// splitDefault splits "VAR:-default" into its name and default value.
func splitDefault(varPart string) (name, def string, hasDefault bool) {
	name, def, hasDefault = strings.Cut(varPart, ":-")
	return name, def, hasDefault
}

// EnvSubstituter expands environment references in raw config file content
// before it is handed to viper, so secrets such as the API key can live in
// the environment instead of the file.
type EnvSubstituter struct {
	// Lookup resolves a variable. Defaults to os.Getenv.
	Lookup func(string) string
}

// SubstituteEnvVars replaces ${env://VAR} and ${env://VAR:-default} patterns.
// A variable that is unset or empty falls back to its default; a variable
// without a default must be set, otherwise every missing name is reported.
func (e *EnvSubstituter) SubstituteEnvVars(content string) (string, error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.Getenv
	}

	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varPart := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${env://")
		name, def, hasDefault := splitDefault(varPart)

		if v := lookup(name); v != "" {
			return v
		}
		if hasDefault {
			return def
		}
		missing = append(missing, fmt.Sprintf("required environment variable %s not set in %s", name, match))
		return match
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrSubstitution, strings.Join(missing, ", "))
	}
	return result, nil
}

// HasEnvVars reports whether content contains any ${env://...} reference.
func HasEnvVars(content string) bool {
	return envVarPattern.MatchString(content)
}
