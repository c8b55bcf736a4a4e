package detector

import "github.com/chazu/detgeom/pkg/config"

func interval(from, to float64) map[string]any {
	return map[string]any{"from": from, "to": to}
}

func tube(r, z map[string]any) map[string]any {
	return map[string]any{"type": "tube", "r": r, "z": z}
}

// coaxTree describes a small point-contact germanium detector in mm:
// a crystal of radius 35 mm and height 40 mm, a point contact at the bottom
// centre, a thin mantle contact and a copper holder below the crystal.
func coaxTree() config.Tree {
	return config.Tree{
		"name": "Public Inverted Coax",
		"world": map[string]any{
			"units": map[string]any{
				"length":    "mm",
				"angle":     "deg",
				"potential": "V",
			},
			"medium": "vacuum",
			"grid": map[string]any{
				"coordinates": "Cylindrical",
				"dimensions": map[string]any{
					"r": interval(0, 50),
					"z": interval(-10, 90),
				},
				"symmetries": map[string]any{
					"periodic": map[string]any{"phi": 0},
				},
			},
			"objects": []any{
				map[string]any{
					"class":     "Semiconductor",
					"name":      "crystal",
					"material":  "HPGe",
					"hierarchy": 1,
					"geometry":  tube(interval(0, 35), interval(0, 40)),
				},
				map[string]any{
					"class":     "Contact",
					"name":      "point contact",
					"id":        1,
					"material":  "HPGe",
					"potential": 0,
					"hierarchy": 0,
					"geometry":  tube(interval(0, 2), interval(0, 1)),
				},
				map[string]any{
					"class":     "Contact",
					"name":      "mantle",
					"id":        2,
					"material":  "HPGe",
					"potential": 3000,
					"hierarchy": 0,
					"geometry":  tube(interval(35, 35.5), interval(0, 40)),
				},
				map[string]any{
					"class":     "Passive",
					"name":      "holder",
					"material":  "Cu",
					"hierarchy": 2,
					"geometry":  tube(interval(30, 40), interval(-5, -1)),
				},
			},
		},
	}
}

// boxTree describes a Cartesian strip detector in cm.
func boxTree() config.Tree {
	return config.Tree{
		"name": "strip",
		"world": map[string]any{
			"units":  map[string]any{"length": "cm"},
			"medium": "vacuum",
			"grid": map[string]any{
				"coordinates": "Cartesian",
				"dimensions": map[string]any{
					"x": interval(-2, 2),
					"y": interval(-2, 2),
					"z": interval(-1, 1),
				},
			},
			"objects": []any{
				map[string]any{
					"class":     "Semiconductor",
					"material":  "Si",
					"hierarchy": 1,
					"geometry": map[string]any{
						"type": "box",
						"x":    interval(-1, 1),
						"y":    interval(-1, 1),
						"z":    interval(0, 0.03),
					},
				},
				map[string]any{
					"class":     "Contact",
					"material":  "Al",
					"potential": -100,
					"hierarchy": 0,
					"geometry": map[string]any{
						"type": "box",
						"x":    interval(-1, 1),
						"y":    interval(-1, 1),
						"z":    interval(0, 0.001),
					},
				},
			},
		},
	}
}

// objectsOf returns the object list of a tree for in-place edits.
func objectsOf(t config.Tree) []any {
	return t["world"].(map[string]any)["objects"].([]any)
}

func worldOf(t config.Tree) map[string]any {
	return t["world"].(map[string]any)
}

func gridOf(t config.Tree) map[string]any {
	return worldOf(t)["grid"].(map[string]any)
}
