package ai

type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
)

// Schema is a provider-neutral subset of JSON Schema. Adapters convert it to their own format.
type Schema struct {
	Type             SchemaType         `json:"type"`
	Description      string             `json:"description,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Required         []string           `json:"required,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	Enum             []string           `json:"enum,omitempty"`
	Minimum          *float64           `json:"minimum,omitempty"`
	Maximum          *float64           `json:"maximum,omitempty"`
	MinItems         *int64             `json:"minItems,omitempty"`
	MaxItems         *int64             `json:"maxItems,omitempty"`
}

// Dimension field names, in the order the model is asked to answer.
var DimensionFields = []string{
	"codeQuality",
	"projectStructure",
	"documentation",
	"testCoverage",
	"realWorldRelevance",
	"commitConsistency",
}

const (
	RoadmapMinSteps = 3
	RoadmapMaxSteps = 5
)

func float64Ptr(v float64) *float64 {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

// DimensionScoresSchema describes six required integers in [0,100].
func DimensionScoresSchema() *Schema {
	properties := make(map[string]*Schema, len(DimensionFields))
	for _, field := range DimensionFields {
		properties[field] = &Schema{
			Type:    TypeInteger,
			Minimum: float64Ptr(0),
			Maximum: float64Ptr(100),
		}
	}

	return &Schema{
		Type:             TypeObject,
		Properties:       properties,
		PropertyOrdering: append([]string(nil), DimensionFields...),
		Required:         append([]string(nil), DimensionFields...),
	}
}

func SummarySchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"summary": {Type: TypeString, Description: "2-3 sentences"},
		},
		Required: []string{"summary"},
	}
}

func RoadmapSchema() *Schema {
	step := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"step":           {Type: TypeString},
			"priority":       {Type: TypeString, Enum: []string{"High", "Medium", "Low"}},
			"effortEstimate": {Type: TypeString},
		},
		PropertyOrdering: []string{"step", "priority", "effortEstimate"},
		Required:         []string{"step", "priority", "effortEstimate"},
	}

	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"roadmap": {
				Type:     TypeArray,
				Items:    step,
				MinItems: int64Ptr(RoadmapMinSteps),
				MaxItems: int64Ptr(RoadmapMaxSteps),
			},
		},
		Required: []string{"roadmap"},
	}
}
