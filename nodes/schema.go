package nodes

type FieldType string

const (
	TypeString  FieldType = "STRING"
	TypeInt     FieldType = "INT"
	TypeFloat   FieldType = "FLOAT"
	TypeBoolean FieldType = "BOOLEAN"
	TypeImage   FieldType = "IMAGE"
	TypeMask    FieldType = "MASK"
	TypeAudio   FieldType = "AUDIO"
	TypeVideo   FieldType = "VIDEO"
)

type Field struct {
	Name     string      `json:"name"`
	Type     FieldType   `json:"type"`
	Default  interface{} `json:"default,omitempty"`
	Min      *float64    `json:"min,omitempty"`
	Max      *float64    `json:"max,omitempty"`
	Optional bool        `json:"optional,omitempty"`
	Tooltip  string      `json:"tooltip,omitempty"`
	Options  []string    `json:"options,omitempty"`
}

// WithRange bounds a numeric field (inclusive).
func (f Field) WithRange(min float64, max float64) Field {
	f.Min = &min
	f.Max = &max
	return f
}

type Output struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

type Schema struct {
	Id          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Inputs      []Field  `json:"inputs"`
	Outputs     []Output `json:"outputs"`
	OutputNode  bool     `json:"output_node,omitempty"`
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Inputs {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
