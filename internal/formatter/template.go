// Package formatter renders one-line status templates with ${variable}
// placeholders, for status bars and shell prompts.
package formatter

import (
	"fmt"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\$\{([a-z0-9-]+)\}`)

// TemplateEngine provides template parsing and variable substitution.
type TemplateEngine interface {
	// Parse returns the variables found in the template, without duplicates.
	Parse(template string) []string

	// Substitute replaces variables in the template with values from the context.
	Substitute(template string, ctx VariableContext) (string, error)

	// Validate checks the template syntax and that every variable is known.
	Validate(template string) error
}

type templateEngine struct {
	resolver VariableResolver
}

// NewTemplateEngine creates a new template engine instance.
func NewTemplateEngine() TemplateEngine {
	return &templateEngine{resolver: NewVariableResolver()}
}

func (te *templateEngine) Parse(template string) []string {
	seen := make(map[string]bool)
	variables := []string{}
	for _, match := range variablePattern.FindAllStringSubmatch(template, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			variables = append(variables, match[1])
		}
	}
	return variables
}

func (te *templateEngine) Substitute(template string, ctx VariableContext) (string, error) {
	var firstErr error
	out := variablePattern.ReplaceAllStringFunc(template, func(token string) string {
		name := variablePattern.FindStringSubmatch(token)[1]
		value, err := te.resolver.Resolve(name, ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return token
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func (te *templateEngine) Validate(template string) error {
	opens := strings.Count(template, "${")
	if matched := len(variablePattern.FindAllString(template, -1)); opens != matched {
		return fmt.Errorf("malformed variable: %d opened, %d well formed", opens, matched)
	}
	for _, name := range te.Parse(template) {
		if !IsVariable(name) {
			return fmt.Errorf("unknown variable: %s", name)
		}
	}
	return nil
}
