package registry

// Category classifies a component type. The set is closed.
type Category string

const (
	CategoryBasic      Category = "basic"
	CategoryForm       Category = "form"
	CategoryData       Category = "data"
	CategoryLayout     Category = "layout"
	CategoryFeedback   Category = "feedback"
	CategoryNavigation Category = "navigation"
	CategorySpecial    Category = "special"
	CategoryDomain     Category = "domain-specific"
)

// Categories lists every valid category.
func Categories() []Category {
	return []Category{
		CategoryBasic,
		CategoryForm,
		CategoryData,
		CategoryLayout,
		CategoryFeedback,
		CategoryNavigation,
		CategorySpecial,
		CategoryDomain,
	}
}

// Valid reports whether c is one of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryBasic, CategoryForm, CategoryData, CategoryLayout,
		CategoryFeedback, CategoryNavigation, CategorySpecial, CategoryDomain:
		return true
	}
	return false
}

// PropSpec describes one declared property of a component type.
type PropSpec struct {
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
	Default  any    `json:"default,omitempty"`
	Enum     []any  `json:"enum,omitempty"`
}

// Metadata is the descriptive half of a registered component type.
// It is serializable and crosses the registry's export boundary; the
// implementation half never does.
type Metadata struct {
	Type        string              `json:"type"`
	Name        string              `json:"name"`
	Category    Category            `json:"category"`
	Description string              `json:"description,omitempty"`
	Version     string              `json:"version,omitempty"`
	Props       map[string]PropSpec `json:"props,omitempty"`

	// Lazy marks a virtualized container: the engine defers materializing
	// its children and hands the implementation a thunk instead.
	Lazy bool `json:"lazy,omitempty"`
}
