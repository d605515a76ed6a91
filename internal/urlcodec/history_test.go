package urlcodec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"car-listings-api/internal/filters"
	"car-listings-api/internal/urlcodec"
)

type recorder struct {
	pushed   []string
	replaced []string
}

func (r *recorder) Push(q string)    { r.pushed = append(r.pushed, q) }
func (r *recorder) Replace(q string) { r.replaced = append(r.replaced, q) }

func TestSync(t *testing.T) {
	rec := &recorder{}
	urlSync := urlcodec.NewSync(rec)

	st := build(t, filters.SetField(filters.FieldBrand, "Nissan"))
	assert.Equal(t, "brand=Nissan", urlSync.UserChanged(st))
	assert.Equal(t, []string{"brand=Nissan"}, rec.pushed)

	urlSync.Derived(filters.New())
	assert.Equal(t, []string{""}, rec.replaced)

	decoded := urlSync.Navigated("brand=Nissan&page=3")
	assert.Equal(t, 3, decoded.Page)
	assert.Len(t, rec.pushed, 1, "navigation never pushes")
	assert.Len(t, rec.replaced, 1, "navigation never replaces")
}

func TestMemoryHistory(t *testing.T) {
	h := urlcodec.NewMemoryHistory("")

	h.Push("brand=Kia")
	h.Push("brand=Kia")
	h.Push("brand=Kia&model=Sportage")
	entries, index := h.Entries()
	assert.Equal(t, []string{"", "brand=Kia", "brand=Kia&model=Sportage"}, entries)
	assert.Equal(t, 2, index)

	q, ok := h.Back()
	assert.True(t, ok)
	assert.Equal(t, "brand=Kia", q)

	q, ok = h.Back()
	assert.True(t, ok)
	assert.Equal(t, "", q)

	_, ok = h.Back()
	assert.False(t, ok)

	q, ok = h.Forward()
	assert.True(t, ok)
	assert.Equal(t, "brand=Kia", q)

	h.Push("brand=Hyundai")
	entries, index = h.Entries()
	assert.Equal(t, []string{"", "brand=Kia", "brand=Hyundai"}, entries, "pushing drops forward entries")
	assert.Equal(t, 2, index)

	_, ok = h.Forward()
	assert.False(t, ok)

	h.Replace("brand=Hyundai&page=2")
	assert.Equal(t, "brand=Hyundai&page=2", h.Current())
	entries, _ = h.Entries()
	assert.Len(t, entries, 3)
}
