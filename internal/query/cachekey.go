package query

import (
	"encoding/json"
	"fmt"
)

// Key renders the request as a stable string for cache keys. Field order is
// fixed by the struct, so equal requests always give equal keys.
func (r SearchRequest) Key() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%+v", r)
	}
	return string(b)
}

// Key identifies one window of results.
func (w Window) Key() string {
	return fmt.Sprintf("%s:l%d:o%d", w.Body.Key(), w.Limit, w.Offset)
}
