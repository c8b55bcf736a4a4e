package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/chazu/detgeom/pkg/config"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms description source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: point-contact -> point_contact
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Values passed between builtins
// ---------------------------------------------------------------------------

// Kinds of sexpValue.
const (
	kindUnits    = "units"
	kindInterval = "interval"
	kindShape    = "shape"
	kindObject   = "object"
	kindGrid     = "grid"
	kindDetector = "detector"
)

// sexpValue carries a fragment of the configuration tree between builtins.
type sexpValue struct {
	kind string
	v    map[string]any
}

func (s *sexpValue) SexpString(ps *zygo.PrintState) string {
	switch s.kind {
	case kindInterval:
		return fmt.Sprintf("(interval %v %v)", s.v["from"], s.v["to"])
	case kindShape:
		return fmt.Sprintf("(%v ...)", s.v["type"])
	case kindObject:
		return fmt.Sprintf("(%v ...)", s.v["class"])
	case kindDetector:
		return fmt.Sprintf("(detector %q)", s.v["name"])
	}
	return "(" + s.kind + " ...)"
}
func (s *sexpValue) Type() *zygo.RegisteredType { return nil }

type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// result receives the tree produced by the detector builtin.
type result struct {
	tree config.Tree
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// only rejects keywords outside allowed.
func (a kwArgs) only(fn string, allowed ...string) error {
	for k := range a.kw {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("%s: unknown keyword :%s", fn, k)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok && !strings.HasPrefix(str.S, kwPrefix) {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toKind extracts a tree fragment of the given kind.
func toKind(s zygo.Sexp, kind string) (map[string]any, error) {
	if v, ok := s.(*sexpValue); ok && v.kind == kind {
		return v.v, nil
	}
	return nil, fmt.Errorf("expected %s, got %T (%s)", kind, s, s.SexpString(nil))
}

// toQuantity accepts a number or an interval.
func toQuantity(s zygo.Sexp) (any, error) {
	if v, ok := s.(*sexpValue); ok && v.kind == kindInterval {
		return v.v, nil
	}
	f, err := toFloat64(s)
	if err != nil {
		return nil, fmt.Errorf("expected number or interval: %w", err)
	}
	return f, nil
}

// toInt extracts an integer; floats are rejected.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the description builtins into a zygomys
// environment. The detector builtin stores its tree in out.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, out *result) {

	// -----------------------------------------------------------------------
	// (units :length "mm" :angle "deg" :potential "V" :temperature "K")
	// -----------------------------------------------------------------------
	env.AddFunction("units", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("units", "length", "angle", "potential", "temperature"); err != nil {
			return zygo.SexpNull, err
		}
		u := make(map[string]any, len(pa.kw))
		for k, v := range pa.kw {
			sym, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("units: %s: %w", k, err)
			}
			u[k] = sym
		}
		return &sexpValue{kind: kindUnits, v: u}, nil
	})

	// -----------------------------------------------------------------------
	// (interval 0 35)
	// -----------------------------------------------------------------------
	env.AddFunction("interval", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("interval requires exactly 2 arguments, got %d", len(args))
		}
		from, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("interval: from: %w", err)
		}
		to, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("interval: to: %w", err)
		}
		return &sexpValue{kind: kindInterval, v: map[string]any{"from": from, "to": to}}, nil
	})

	// -----------------------------------------------------------------------
	// (tube :r (interval 0 35) :phi (interval 0 90) :z (interval 0 40))
	// (tube :r 2 :h 1)
	// (box :x (interval -1 1) :y 2 :z 3)
	// -----------------------------------------------------------------------
	primitive := func(typ string, required []string, optional ...string) builtin {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if err := pa.only(typ, append(required, optional...)...); err != nil {
				return zygo.SexpNull, err
			}
			shape := map[string]any{"type": typ}
			for _, k := range required {
				if _, ok := pa.kw[k]; !ok {
					return zygo.SexpNull, fmt.Errorf("%s: missing :%s", typ, k)
				}
			}
			for k, v := range pa.kw {
				q, err := toQuantity(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: %s: %w", typ, k, err)
				}
				shape[k] = q
			}
			return &sexpValue{kind: kindShape, v: shape}, nil
		}
	}
	env.AddFunction("tube", primitive("tube", []string{"r"}, "phi", "z", "h"))
	env.AddFunction("box", primitive("box", []string{"x", "y", "z"}))

	// -----------------------------------------------------------------------
	// (union a b ...), (difference a b ...), (intersection a b ...)
	// -----------------------------------------------------------------------
	for _, op := range []string{"union", "difference", "intersection"} {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) == 0 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least one shape", op)
			}
			parts := make([]any, 0, len(args))
			for i, a := range args {
				s, err := toKind(a, kindShape)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: part %d: %w", op, i+1, err)
				}
				parts = append(parts, s)
			}
			return &sexpValue{kind: kindShape, v: map[string]any{"type": op, "parts": parts}}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (translate shape :x 1 :y 0 :z 5)
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("translate requires exactly one shape")
		}
		if err := pa.only("translate", "x", "y", "z"); err != nil {
			return zygo.SexpNull, err
		}
		shape, err := toKind(pa.positional[0], kindShape)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		d := make(map[string]any, len(pa.kw))
		for k, v := range pa.kw {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("translate: %s: %w", k, err)
			}
			d[k] = f
		}
		var moved map[string]any
		if _, ok := shape["translate"]; ok {
			// Already offset: wrap so both offsets apply.
			moved = map[string]any{"type": "union", "parts": []any{shape}}
		} else {
			moved = maps.Clone(shape)
		}
		moved["translate"] = d
		return &sexpValue{kind: kindShape, v: moved}, nil
	})

	// -----------------------------------------------------------------------
	// (semiconductor :name "crystal" :material "HPGe" :hierarchy 1
	//                :temperature 78 :geometry (tube ...))
	// (contact :id 1 :material "HPGe" :hierarchy 0 :potential 0 :geometry ...)
	// (passive :material "Cu" :hierarchy 2 :geometry ...)
	// -----------------------------------------------------------------------
	object := func(class string) builtin {
		fn := strings.ToLower(class)
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if err := pa.only(fn, "id", "name", "material", "hierarchy", "geometry", "potential", "temperature"); err != nil {
				return zygo.SexpNull, err
			}
			obj := map[string]any{"class": class}
			for k, v := range pa.kw {
				var (
					val any
					err error
				)
				switch k {
				case "id", "hierarchy":
					val, err = toInt(v)
				case "name", "material":
					val, err = toString(v)
				case "geometry":
					val, err = toKind(v, kindShape)
				default:
					val, err = toFloat64(v)
				}
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: %s: %w", fn, k, err)
				}
				obj[k] = val
			}
			return &sexpValue{kind: kindObject, v: obj}, nil
		}
	}
	env.AddFunction("semiconductor", object("Semiconductor"))
	env.AddFunction("contact", object("Contact"))
	env.AddFunction("passive", object("Passive"))

	// -----------------------------------------------------------------------
	// (grid :coordinates :cylindrical :r 50 :z (interval -10 90)
	//       :periodic-phi 0 :mirror-phi false)
	// -----------------------------------------------------------------------
	env.AddFunction("grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("grid", "coordinates", "r", "x", "y", "z", "periodic-phi", "mirror-phi"); err != nil {
			return zygo.SexpNull, err
		}
		coords := "Cylindrical"
		if v, ok := pa.kw["coordinates"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("grid: coordinates: %w", err)
			}
			if s != "" {
				coords = strings.ToUpper(s[:1]) + s[1:]
			}
		}
		dims := map[string]any{}
		for _, k := range []string{"r", "x", "y", "z"} {
			v, ok := pa.kw[k]
			if !ok {
				continue
			}
			q, err := toQuantity(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("grid: %s: %w", k, err)
			}
			dims[k] = q
		}
		grid := map[string]any{"coordinates": coords, "dimensions": dims}

		sym := map[string]any{}
		if v, ok := pa.kw["periodic-phi"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("grid: periodic-phi: %w", err)
			}
			sym["periodic"] = map[string]any{"phi": f}
		}
		if v, ok := pa.kw["mirror-phi"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("grid: mirror-phi: %w", err)
			}
			sym["mirror"] = map[string]any{"phi": b}
		}
		if len(sym) > 0 {
			grid["symmetries"] = sym
		}
		return &sexpValue{kind: kindGrid, v: grid}, nil
	})

	// -----------------------------------------------------------------------
	// (detector "name" :units (units ...) :medium "vacuum" :grid (grid ...)
	//   (semiconductor ...) (contact ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("detector", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("detector requires a name argument")
		}
		if err := pa.only("detector", "units", "medium", "grid"); err != nil {
			return zygo.SexpNull, err
		}
		if out.tree != nil {
			return zygo.SexpNull, fmt.Errorf("detector: only one detector may be defined")
		}
		detName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("detector: name: %w", err)
		}

		world := map[string]any{}
		if v, ok := pa.kw["units"]; ok {
			u, err := toKind(v, kindUnits)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("detector: units: %w", err)
			}
			world["units"] = u
		}
		if v, ok := pa.kw["medium"]; ok {
			m, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("detector: medium: %w", err)
			}
			world["medium"] = m
		}
		if v, ok := pa.kw["grid"]; ok {
			g, err := toKind(v, kindGrid)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("detector: grid: %w", err)
			}
			world["grid"] = g
		}

		objects := []any{}
		var add func(i int, s zygo.Sexp) error
		add = func(i int, s zygo.Sexp) error {
			if o, err := toKind(s, kindObject); err == nil {
				objects = append(objects, o)
				return nil
			}
			items, err := sexpListToSlice(s)
			if err != nil {
				return fmt.Errorf("detector: child %d: expected object or list of objects, got %T (%s)",
					i, s, s.SexpString(nil))
			}
			for _, item := range items {
				if err := add(i, item); err != nil {
					return err
				}
			}
			return nil
		}
		for i, s := range pa.positional[1:] {
			if err := add(i+1, s); err != nil {
				return zygo.SexpNull, err
			}
		}
		world["objects"] = objects

		tree := config.Tree{"name": detName, "world": world}
		out.tree = tree
		return &sexpValue{kind: kindDetector, v: tree}, nil
	})
}
