package filters

import "strings"

// Narrow clears every selected value that no longer appears in its refreshed
// option list. Fields with no list in available are left alone. Clearing brand
// also clears model and trim, clearing model also clears trim. The page resets
// to 1 when anything was cleared.
func Narrow(s State, available map[Field][]string) (State, []Field) {
	next := s.Clone()
	var cleared []Field

	for _, f := range keys {
		options, ok := available[f]
		if !ok || options == nil {
			continue
		}
		v, set := next.Text(f)
		if !set || containsFold(options, v) {
			continue
		}
		next.setText(f, "")
		cleared = append(cleared, f)

		switch f {
		case FieldBrand:
			cleared = appendSet(cleared, &next, FieldModel, FieldTrim)
		case FieldModel:
			cleared = appendSet(cleared, &next, FieldTrim)
		}
	}

	if len(cleared) > 0 {
		next.Page = 1
	}
	return next, cleared
}

// appendSet clears the given dependents that are still set and records them.
func appendSet(cleared []Field, s *State, deps ...Field) []Field {
	for _, d := range deps {
		if _, set := s.Text(d); set {
			s.setText(d, "")
			cleared = append(cleared, d)
		}
	}
	return cleared
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}
