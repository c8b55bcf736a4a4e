package engine

import (
	"strings"
	"testing"

	"github.com/chazu/detgeom/pkg/config"
	"github.com/chazu/detgeom/pkg/detector"
	"github.com/chazu/detgeom/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(units :length "mm")`,
			expect: `(units "__kw_length" "mm")`,
		},
		{
			name:   "multiple keywords",
			input:  `(tube :r 35 :h 40)`,
			expect: `(tube "__kw_r" 35 "__kw_h" 40)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def point-contact 1)`,
			expect: `(def point_contact 1)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(interval -10 90)`,
			expect: `(interval -10 90)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:periodic-phi`,
			expect: `"__kw_periodic-phi"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

const coaxSource = `
;; inverted coax, millimetres
(def crystal (tube :r (interval 0 35) :z (interval 0 40)))
(def bore (tube :r 5 :z (interval 30 41)))

(detector "Public Inverted Coax"
  :units (units :length "mm" :angle "deg")
  :medium "vacuum"
  :grid (grid :coordinates :cylindrical :r 50 :z (interval -10 90) :periodic-phi 0)
  (semiconductor :name "crystal" :material "HPGe" :hierarchy 1 :temperature 78
                 :geometry (difference crystal bore))
  (contact :id 1 :name "point contact" :material "HPGe" :hierarchy 0 :potential 0
           :geometry (tube :r 2 :h 1))
  (contact :id 2 :name "mantle" :material "HPGe" :hierarchy 0 :potential 3000
           :geometry (tube :r (interval 35 35.5) :z (interval 0 40)))
  (list
    (passive :name "holder" :material "Cu" :hierarchy 2
             :geometry (translate (tube :r (interval 30 40) :h 4) :z -5))))
`

func evalTree(t *testing.T, source string) config.Tree {
	t.Helper()
	tree, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if tree == nil {
		t.Fatal("expected non-nil tree")
	}
	return tree
}

func TestCoaxTreeShape(t *testing.T) {
	root := config.Root(evalTree(t, coaxSource))

	name, err := root.StringField("name")
	if err != nil || name != "Public Inverted Coax" {
		t.Fatalf("name = %q, %v", name, err)
	}
	coords, err := root.GetPath("world", "grid", "coordinates")
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := coords.Text(); s != "Cylindrical" {
		t.Errorf("coordinates = %q, want Cylindrical", s)
	}
	length, err := root.GetPath("world", "units", "length")
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := length.Text(); s != "mm" {
		t.Errorf("length unit = %q, want mm", s)
	}
	objs, err := root.GetPath("world", "objects")
	if err != nil {
		t.Fatal(err)
	}
	list, err := objs.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 objects, got %d", len(list))
	}
	geo, err := list[0].GetPath("geometry", "type")
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := geo.Text(); s != "difference" {
		t.Errorf("crystal geometry type = %q, want difference", s)
	}
}

func TestCoaxBuildsDetector(t *testing.T) {
	d, warnings, err := detector.New(evalTree(t, coaxSource))
	if err != nil {
		t.Fatalf("detector.New: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if d.Name() != "Public Inverted Coax" {
		t.Errorf("name = %q", d.Name())
	}
	if n := len(d.Semiconductors()); n != 1 {
		t.Errorf("expected 1 semiconductor, got %d", n)
	}
	if n := len(d.Contacts()); n != 2 {
		t.Errorf("expected 2 contacts, got %d", n)
	}
	if n := len(d.Passives()); n != 1 {
		t.Errorf("expected 1 passive, got %d", n)
	}

	crystal := d.Semiconductors()[0]
	sd, ok := crystal.Data.(detector.SemiconductorData)
	if !ok {
		t.Fatalf("expected SemiconductorData, got %T", crystal.Data)
	}
	if sd.Temperature != 78 {
		t.Errorf("temperature = %v, want 78", sd.Temperature)
	}
	mantle, ok := d.Contact(2)
	if !ok {
		t.Fatal("expected contact 2")
	}
	if cd := mantle.Data.(detector.ContactData); cd.Potential != 3000 {
		t.Errorf("mantle potential = %v, want 3000", cd.Potential)
	}

	tests := []struct {
		name  string
		class detector.Class
		p     kernel.CylPoint
		want  bool
	}{
		{"bulk", detector.Semiconductor, kernel.CylPoint{R: 0.02, Z: 0.01}, true},
		{"bore", detector.Semiconductor, kernel.CylPoint{R: 0.002, Z: 0.035}, false},
		{"point contact", detector.Contact, kernel.CylPoint{R: 0.001, Z: 0.0005}, true},
		{"holder", detector.Passive, kernel.CylPoint{R: 0.035, Z: -0.003}, true},
		{"below holder", detector.Passive, kernel.CylPoint{R: 0.035, Z: -0.0055}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsInsideClassCyl(tt.class, tt.p); got != tt.want {
				t.Errorf("IsInsideClassCyl(%s, %v) = %v, want %v", tt.class, tt.p, got, tt.want)
			}
		})
	}
}

func TestCartesianGrid(t *testing.T) {
	source := `
(detector "strip"
  :units (units :length "cm")
  :medium "vacuum"
  :grid (grid :coordinates "Cartesian" :x (interval -2 2) :y (interval -2 2) :z (interval -1 1))
  (semiconductor :material "Si" :hierarchy 1
                 :geometry (box :x (interval -1 1) :y (interval -1 1) :z (interval -0.5 0.5))))
`
	d, _, err := detector.New(evalTree(t, source))
	if err != nil {
		t.Fatalf("detector.New: %v", err)
	}
	if d.Coordinates() != detector.Cartesian {
		t.Errorf("coordinates = %s, want Cartesian", d.Coordinates())
	}
	if !d.IsInside(kernel.Vec3{X: 0.005, Y: -0.005, Z: 0}) {
		t.Error("expected centre of strip inside")
	}
	if d.IsInside(kernel.Vec3{X: 0.015, Y: 0, Z: 0}) {
		t.Error("expected point beyond strip outside")
	}
}

func TestMirrorSymmetry(t *testing.T) {
	source := `
(detector "half"
  :medium "vacuum"
  :grid (grid :r 10 :z 10 :periodic-phi 180 :mirror-phi true)
  :units (units :angle "deg"))
`
	tree := evalTree(t, source)
	root := config.Root(tree)
	mirror, err := root.GetPath("world", "grid", "symmetries", "mirror", "phi")
	if err != nil {
		t.Fatal(err)
	}
	if b, err := mirror.Bool(); err != nil || !b {
		t.Errorf("mirror phi = %v, %v", b, err)
	}

	d, _, err := detector.New(tree)
	if err != nil {
		t.Fatalf("detector.New: %v", err)
	}
	if !d.MirrorPhi() {
		t.Error("expected mirror symmetry")
	}
}

func TestNestedTranslate(t *testing.T) {
	source := `
(detector "shifted"
  :medium "vacuum"
  :grid (grid :r 50 :z (interval -50 50) :periodic-phi 0)
  (semiconductor :material "HPGe" :hierarchy 1
                 :geometry (translate (translate (tube :r 5 :h 2) :z 10) :z 10)))
`
	d, _, err := detector.New(evalTree(t, source))
	if err != nil {
		t.Fatalf("detector.New: %v", err)
	}
	if !d.IsInsideCyl(kernel.CylPoint{R: 0.001, Z: 0.021}) {
		t.Error("expected point inside twice-translated tube")
	}
	if d.IsInsideCyl(kernel.CylPoint{R: 0.001, Z: 0.011}) {
		t.Error("expected point at single offset outside")
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"unknown keyword", `(tube :r 1 :depth 2)`, "unknown keyword"},
		{"missing radius", `(tube :z 2)`, "missing :r"},
		{"interval arity", `(interval 1)`, "exactly 2"},
		{"union needs shapes", `(union 1 2)`, "expected shape"},
		{"hierarchy integer", `(contact :hierarchy 1.5)`, "expected integer"},
		{"units string", `(units :length 5)`, "expected string"},
		{"two detectors", `(detector "a") (detector "b")`, "only one detector"},
		{"bad child", `(detector "a" 5)`, "expected object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if tree != nil {
				t.Errorf("expected nil tree, got %v", tree)
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected eval error")
			}
			if !strings.Contains(evalErrs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", evalErrs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestArithmeticInDescriptions(t *testing.T) {
	source := `
(def radius 35)
(def height (* 2 20))
(detector "computed"
  :medium "vacuum"
  :grid (grid :r (+ radius 15) :z (interval -10 (+ height 50)) :periodic-phi 0)
  (semiconductor :material "HPGe" :hierarchy 1
                 :geometry (tube :r radius :h height)))
`
	d, _, err := detector.New(evalTree(t, source))
	if err != nil {
		t.Fatalf("detector.New: %v", err)
	}
	if !d.IsInsideCyl(kernel.CylPoint{R: 0.034, Z: 0.039}) {
		t.Error("expected point near the crystal edge inside")
	}
	if w := d.World().Tube.R.To; w != 0.05 {
		t.Errorf("world radius = %v, want 0.05", w)
	}
}
