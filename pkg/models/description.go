package models

// NodeDescription is the form descriptor a host renders for a node type.
type NodeDescription struct {
	DisplayName string                    `json:"displayName"`
	Name        string                    `json:"name"`
	Icon        string                    `json:"icon"`
	Group       []string                  `json:"group"`
	Version     int                       `json:"version"`
	Subtitle    string                    `json:"subtitle,omitempty"`
	Description string                    `json:"description"`
	Defaults    map[string]any            `json:"defaults"`
	Inputs      []string                  `json:"inputs"`
	Outputs     []string                  `json:"outputs"`
	Credentials []NodeCredentialReference `json:"credentials,omitempty"`
	Properties  []NodeProperty            `json:"properties"`
}

// NodeCredentialReference names a credential type the node can use.
type NodeCredentialReference struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// NodeProperty is one field of the node form.
type NodeProperty struct {
	DisplayName      string               `json:"displayName"`
	Name             string               `json:"name"`
	Type             string               `json:"type"`
	Required         bool                 `json:"required,omitempty"`
	NoDataExpression bool                 `json:"noDataExpression,omitempty"`
	Default          any                  `json:"default"`
	Description      string               `json:"description,omitempty"`
	Placeholder      string               `json:"placeholder,omitempty"`
	Options          []NodePropertyOption `json:"options,omitempty"`
	DisplayOptions   *DisplayOptions      `json:"displayOptions,omitempty"`
	Rows             int                  `json:"rows,omitempty"`
}

// NodePropertyOption is one choice of an "options" property.
type NodePropertyOption struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action,omitempty"`
}

// DisplayOptions shows a property only when other properties hold one of the listed values.
type DisplayOptions struct {
	Show map[string][]string `json:"show,omitempty"`
}

// Property returns the named property, or false when the node has none.
func (d NodeDescription) Property(name string) (NodeProperty, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}

	return NodeProperty{}, false
}

// IsVisible reports whether the property is shown for the given parameter values.
func (p NodeProperty) IsVisible(values map[string]string) bool {
	if p.DisplayOptions == nil {
		return true
	}

	for name, allowed := range p.DisplayOptions.Show {
		found := false

		for _, v := range allowed {
			if values[name] == v {
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}
