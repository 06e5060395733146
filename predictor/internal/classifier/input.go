package classifier

// Input is the flat record as it arrives from forms, JSON clients, gRPC and
// the CLI. Absent fields are nil.
type Input struct {
	Weight            *float64 `json:"weight"`
	Length            *float64 `json:"length"`
	HeadCircumference *float64 `json:"headCircumference"`
	GestationalAge    *float64 `json:"gestationalAge"`

	ContractionCount  *float64 `json:"contractionCount,omitempty"`
	ContractionLength *float64 `json:"contractionLength,omitempty"`
	Std               *float64 `json:"std,omitempty"`
	Entropy           *float64 `json:"entropy,omitempty"`
}

type namedField struct {
	name  string
	value *float64
}

// Measurement converts the flat record. All four biometric fields must be
// present; the contraction statistics are all-or-nothing.
func (in Input) Measurement() (Measurement, error) {
	biometric := []namedField{
		{"weight", in.Weight},
		{"length", in.Length},
		{"headCircumference", in.HeadCircumference},
		{"gestationalAge", in.GestationalAge},
	}
	for _, f := range biometric {
		if f.value == nil {
			return Measurement{}, &ValidationError{Field: f.name, Constraint: "is required"}
		}
	}

	m := Measurement{
		Weight:            *in.Weight,
		Length:            *in.Length,
		HeadCircumference: *in.HeadCircumference,
		GestationalAge:    *in.GestationalAge,
	}

	contraction := []namedField{
		{"contractionCount", in.ContractionCount},
		{"contractionLength", in.ContractionLength},
		{"std", in.Std},
		{"entropy", in.Entropy},
	}
	supplied := 0
	missing := ""
	for _, f := range contraction {
		if f.value != nil {
			supplied++
		} else if missing == "" {
			missing = f.name
		}
	}

	switch supplied {
	case 0:
	case len(contraction):
		m.Contractions = &ContractionStats{
			Count:   *in.ContractionCount,
			Length:  *in.ContractionLength,
			Std:     *in.Std,
			Entropy: *in.Entropy,
		}
	default:
		return Measurement{}, &ValidationError{
			Field:      missing,
			Constraint: "is required when other contraction statistics are supplied",
		}
	}

	return m, nil
}

// InputFrom flattens m back into the wire shape.
func InputFrom(m Measurement) Input {
	in := Input{
		Weight:            float64Ptr(m.Weight),
		Length:            float64Ptr(m.Length),
		HeadCircumference: float64Ptr(m.HeadCircumference),
		GestationalAge:    float64Ptr(m.GestationalAge),
	}
	if c := m.Contractions; c != nil {
		in.ContractionCount = float64Ptr(c.Count)
		in.ContractionLength = float64Ptr(c.Length)
		in.Std = float64Ptr(c.Std)
		in.Entropy = float64Ptr(c.Entropy)
	}
	return in
}

func float64Ptr(v float64) *float64 {
	return &v
}
