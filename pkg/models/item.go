package models

import "fmt"

// Item is one unit of data flowing through a node.
type Item struct {
	JSON       map[string]any `json:"json"`
	PairedItem *PairedItem    `json:"pairedItem,omitempty"`
}

// PairedItem points back to the input item an output item was derived from.
type PairedItem struct {
	Item int `json:"item"`
}

// NewResultItem builds a successful output item paired to input index.
func NewResultItem(index int, result string) Item {
	return Item{
		JSON:       map[string]any{"result": result},
		PairedItem: &PairedItem{Item: index},
	}
}

// NewErrorItem builds a failed output item paired to input index.
func NewErrorItem(index int, message string) Item {
	return Item{
		JSON:       map[string]any{"error": message},
		PairedItem: &PairedItem{Item: index},
	}
}

// IsError reports whether the item carries an error instead of a result.
func (i Item) IsError() bool {
	_, ok := i.JSON["error"]

	return ok
}

// ItemsFromAny converts loosely typed item data (as decoded from JSON) into items.
// Each element may be an Item, a map with a "json" key, or a plain object.
func ItemsFromAny(raw any) ([]Item, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []Item:
		return v, nil
	case []map[string]any:
		items := make([]Item, 0, len(v))
		for _, m := range v {
			items = append(items, itemFromMap(m))
		}

		return items, nil
	case []any:
		items := make([]Item, 0, len(v))

		for i, elem := range v {
			switch e := elem.(type) {
			case Item:
				items = append(items, e)
			case map[string]any:
				items = append(items, itemFromMap(e))
			default:
				return nil, fmt.Errorf("item %d: expected object, got %T", i, elem)
			}
		}

		return items, nil
	default:
		return nil, fmt.Errorf("items: expected array, got %T", raw)
	}
}

func itemFromMap(m map[string]any) Item {
	if data, ok := m["json"].(map[string]any); ok {
		return Item{JSON: data}
	}

	return Item{JSON: m}
}
