package filters

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrUnknownField     = errors.New("unknown filter field")
	ErrInvalidValue     = errors.New("invalid filter value")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("minimum post date is after maximum post date")
	ErrDependentField   = errors.New("dependent filter set without its parent")
	ErrInvalidPage      = errors.New("page must be 1 or greater")
	ErrInvalidSort      = errors.New("invalid sort option")
)

// Edit is one user interaction with the filter controls.
// Set maps URL keys to new values; an empty value clears the field.
// isNew takes "true", "false" or "" through Set.
type Edit struct {
	Set      map[Field]string `json:"set,omitempty"`
	Websites *[]string        `json:"websites,omitempty"`
	Sort     *SortOption      `json:"sort,omitempty"`
	Page     *int             `json:"page,omitempty"`
	Reset    bool             `json:"reset,omitempty"`
}

// SetField is a shorthand for an Edit touching a single field.
func SetField(f Field, v string) Edit {
	return Edit{Set: map[Field]string{f: v}}
}

// GoToPage is a shorthand for a pagination-only Edit.
func GoToPage(page int) Edit {
	return Edit{Page: &page}
}

// SortBy is a shorthand for a sort-only Edit.
func SortBy(o SortOption) Edit {
	return Edit{Sort: &o}
}

// Apply is the single entry point for changing a State. It returns the next
// state, or the unchanged state together with an error when the edit is rejected.
func Apply(s State, e Edit) (State, error) {
	next := s.Clone()
	if e.Reset {
		next = New()
		next.Sort = s.Sort
	}

	for f := range e.Set {
		if f == FieldIsNew {
			continue
		}
		if !f.IsText() {
			return s, fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
	}

	// Canonical key order guarantees brand is handled before model and trim.
	for _, f := range keys {
		v, ok := e.Set[f]
		if !ok {
			continue
		}
		if err := setField(&next, f, v); err != nil {
			return s, err
		}
	}

	if e.Websites != nil {
		next.Websites = normalizeList(*e.Websites)
		if next.Websites != nil {
			next.Website = nil
		}
	}

	if e.Sort != nil {
		if !e.Sort.Valid() {
			return s, fmt.Errorf("%w: %q", ErrInvalidSort, *e.Sort)
		}
		next.Sort = *e.Sort
	}

	_, touchedMin := e.Set[FieldMinPostDate]
	_, touchedMax := e.Set[FieldMaxPostDate]
	if touchedMin || touchedMax {
		if err := validateDates(next); err != nil {
			return s, err
		}
	}

	if !sameFilters(next, s) || next.Sort != s.Sort {
		next.Page = 1
		return next, nil
	}

	if e.Page != nil {
		if *e.Page < 1 {
			return s, ErrInvalidPage
		}
		next.Page = *e.Page
	}
	return next, nil
}

func setField(s *State, f Field, v string) error {
	switch f {
	case FieldIsNew:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			s.IsNew = nil
		case "true":
			s.IsNew = BoolPtr(true)
		case "false":
			s.IsNew = BoolPtr(false)
		default:
			return fmt.Errorf("%w: isNew=%q", ErrInvalidValue, v)
		}
		return nil
	case FieldMinPostDate, FieldMaxPostDate:
		if p := normalize(v); p != nil {
			if _, err := time.Parse(dateLayout, *p); err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalidDate, f, v)
			}
		}
	}

	before, _ := s.Text(f)
	s.setText(f, v)
	after, set := s.Text(f)

	switch f {
	case FieldBrand:
		if before != after {
			s.Model = nil
			s.Trim = nil
		}
	case FieldModel:
		if set && s.Brand == nil {
			return fmt.Errorf("%w: model requires brand", ErrDependentField)
		}
		if before != after {
			s.Trim = nil
		}
	case FieldTrim:
		if set && (s.Brand == nil || s.Model == nil) {
			return fmt.Errorf("%w: trim requires brand and model", ErrDependentField)
		}
	case FieldWebsite:
		if set {
			s.Websites = nil
		}
	}
	return nil
}

// Sanitize drops what Apply would never have produced from a state built
// another way, such as one decoded from a shared URL: a model without a brand,
// a trim without a brand and model, and an inverted post date range.
func Sanitize(s State) State {
	next := s.Clone()
	if next.Brand == nil {
		next.Model = nil
	}
	if next.Brand == nil || next.Model == nil {
		next.Trim = nil
	}
	if validateDates(next) != nil {
		next.MinPostDate = nil
		next.MaxPostDate = nil
	}
	return next
}

func validateDates(s State) error {
	if s.MinPostDate == nil || s.MaxPostDate == nil {
		return nil
	}
	lo, errLo := time.Parse(dateLayout, *s.MinPostDate)
	hi, errHi := time.Parse(dateLayout, *s.MaxPostDate)
	if errLo != nil || errHi != nil {
		// an unparsable bound decoded from a URL cannot be compared
		return nil
	}
	if lo.After(hi) {
		return ErrInvalidDateRange
	}
	return nil
}

func normalizeList(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
