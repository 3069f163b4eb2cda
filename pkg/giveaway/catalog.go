package giveaway

// Choice pairs a stored value with its display label.
type Choice struct {
	Value string
	Label string
}

// Categories are the listing categories offered by the form.
var Categories = []Choice{
	{"electronics", "Electronics"},
	{"furniture", "Furniture"},
	{"clothing", "Clothing"},
	{"sports", "Sports Equipment"},
	{"books", "Books"},
	{"kitchen", "Kitchen"},
	{"toys", "Toys"},
	{"garden", "Garden"},
	{"tools", "Tools"},
	{"other", "Other"},
}

// Conditions describe how worn an item is.
var Conditions = []Choice{
	{"new", "New"},
	{"like-new", "Like New"},
	{"gently-used", "Gently Used"},
	{"used", "Used"},
	{"well-worn", "Well Worn"},
}

// CategoryLabel returns the label for id, or id itself when unknown.
func CategoryLabel(id string) string {
	return lookupLabel(Categories, id)
}

// ConditionLabel returns the label for value, or value itself when unknown.
func ConditionLabel(value string) string {
	return lookupLabel(Conditions, value)
}

func isKnown(set []Choice, v string) bool {
	for _, l := range set {
		if l.Value == v {
			return true
		}
	}
	return false
}

func lookupLabel(set []Choice, v string) string {
	for _, l := range set {
		if l.Value == v {
			return l.Label
		}
	}
	return v
}
