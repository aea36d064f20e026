package model

import "fmt"

// Material is the kind of ground below a position.
type Material int

const (
	MaterialRoad Material = iota
	MaterialSand
	MaterialLava
	MaterialHole
)

var materialNames = map[Material]string{
	MaterialRoad: "road",
	MaterialSand: "sand",
	MaterialLava: "lava",
	MaterialHole: "hole",
}

func (m Material) String() string {
	if name, ok := materialNames[m]; ok {
		return name
	}
	return fmt.Sprintf("material(%d)", int(m))
}

func ParseMaterial(s string) (Material, error) {
	for k, v := range materialNames {
		if v == s {
			return k, nil
		}
	}
	return MaterialRoad, fmt.Errorf("unknown material %q", s)
}

func (m Material) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Material) UnmarshalText(text []byte) error {
	v, err := ParseMaterial(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
