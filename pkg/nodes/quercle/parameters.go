package quercle

import (
	"fmt"

	"github.com/quercle/operion-quercle/pkg/models"
	"github.com/quercle/operion-quercle/pkg/quercle"
	"github.com/quercle/operion-quercle/pkg/template"
)

// ParameterSource resolves the value of a node parameter for one input item.
// A nil value with a nil error means the parameter is not set.
type ParameterSource interface {
	Parameter(name string, itemIndex int) (any, error)
}

// ParameterFunc adapts a function to ParameterSource.
type ParameterFunc func(name string, itemIndex int) (any, error)

func (f ParameterFunc) Parameter(name string, itemIndex int) (any, error) {
	return f(name, itemIndex)
}

// TemplateParameters resolves parameters from a node configuration.
// Per-item overrides take precedence over Config, and string values
// containing template actions are rendered against the item being processed.
type TemplateParameters struct {
	Config           map[string]any
	Overrides        []map[string]any
	Items            []models.Item
	ExecutionContext *models.ExecutionContext
}

func (p *TemplateParameters) Parameter(name string, itemIndex int) (any, error) {
	value, ok := p.lookup(name, itemIndex)
	if !ok {
		return nil, nil
	}

	str, isString := value.(string)
	if !isString || !template.NeedsTemplating(str) {
		return value, nil
	}

	var item models.Item
	if itemIndex >= 0 && itemIndex < len(p.Items) {
		item = p.Items[itemIndex]
	}

	rendered, err := template.RenderString(str, template.ItemData(p.ExecutionContext, item, itemIndex))
	if err != nil {
		return nil, err
	}

	return rendered, nil
}

func (p *TemplateParameters) lookup(name string, itemIndex int) (any, bool) {
	if itemIndex >= 0 && itemIndex < len(p.Overrides) {
		if value, ok := p.Overrides[itemIndex][name]; ok {
			return value, true
		}
	}

	value, ok := p.Config[name]

	return value, ok
}

// stringParameter reads a parameter as text, using def when it is unset.
func stringParameter(params ParameterSource, name string, itemIndex int, def string) (string, error) {
	value, err := params.Parameter(name, itemIndex)
	if err != nil {
		return "", &quercle.ValidationError{Field: name, Message: err.Error()}
	}

	switch v := value.(type) {
	case nil:
		return def, nil
	case string:
		return v, nil
	case float64, float32, int, int64, int32, bool:
		return fmt.Sprint(v), nil
	default:
		return "", &quercle.ValidationError{Field: name, Message: fmt.Sprintf("expected a string, got %T", value)}
	}
}

// readParams reads the parameters visible for the item's operation, in
// descriptor order, so "domains" is only read when a domain filter is set.
func readParams(params ParameterSource, description models.NodeDescription, operation string, itemIndex int) (quercle.Params, error) {
	values := map[string]string{ParamOperation: operation}

	for _, prop := range description.Properties {
		if prop.Name == ParamOperation || !prop.IsVisible(values) {
			continue
		}

		def, _ := prop.Default.(string)

		value, err := stringParameter(params, prop.Name, itemIndex, def)
		if err != nil {
			return quercle.Params{}, err
		}

		values[prop.Name] = value
	}

	return quercle.Params{
		Query:        values[ParamQuery],
		DomainFilter: quercle.DomainFilter(values[ParamDomainFilter]),
		Domains:      values[ParamDomains],
		URL:          values[ParamURL],
		Prompt:       values[ParamPrompt],
	}, nil
}
