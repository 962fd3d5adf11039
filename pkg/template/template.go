// Package template renders per-item parameter expressions for node execution.
package template

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/quercle/operion-quercle/pkg/models"
)

// ItemData builds the data an expression sees while rendering a parameter for one item.
func ItemData(executionCtx *models.ExecutionContext, item models.Item, index int) map[string]any {
	data := map[string]any{
		"item":  item.JSON,
		"index": index,
	}

	if executionCtx != nil {
		data["variables"] = executionCtx.Variables
		data["vars"] = executionCtx.Variables
		data["metadata"] = executionCtx.Metadata
		data["execution"] = map[string]any{
			"id":      executionCtx.ID,
			"node_id": executionCtx.NodeID,
		}
	}

	return data
}

// NeedsTemplating reports whether the value contains a template action.
func NeedsTemplating(input string) bool {
	return strings.Contains(input, "{{")
}

// RenderString executes templateStr against data and returns the raw text.
// Missing keys are an error so a typo in an expression does not silently send "<no value>".
func RenderString(templateStr string, data any) (string, error) {
	tmpl, err := template.
		New("parameter").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
			"trim":  strings.TrimSpace,
			"lower": strings.ToLower,
			"join":  strings.Join,
		}).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	return buf.String(), nil
}
