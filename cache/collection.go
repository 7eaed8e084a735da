package cache

import "encoding/json"

// Kind tags which list field a cached collection serializes under.
type Kind string

const (
	KindData    Kind = "data"
	KindLeagues Kind = "leagues"
	KindMatches Kind = "matches"
	KindPlayers Kind = "players"
)

// Identifiable is anything a collection can upsert by id.
type Identifiable interface {
	CollectionID() string
}

// CachedCollection is a list payload with an explicit kind tag, so
// incremental updates pattern-match on the tag instead of probing the
// payload for whichever field happens to hold an array.
type CachedCollection struct {
	Kind    Kind
	Success bool
	Items   []Identifiable
}

// NewCollection builds a successful collection of the given kind.
func NewCollection(kind Kind, items ...Identifiable) *CachedCollection {
	return &CachedCollection{Kind: kind, Success: true, Items: items}
}

// Upsert replaces the element with item's id, or prepends item when no
// element matches.
func (c *CachedCollection) Upsert(item Identifiable) {
	for i, existing := range c.Items {
		if existing.CollectionID() == item.CollectionID() {
			c.Items[i] = item
			return
		}
	}
	c.Items = append([]Identifiable{item}, c.Items...)
}

// MarshalJSON emits {"success": true, "<kind>": [...]} matching the wire
// shape consumers expect for each collection kind.
func (c *CachedCollection) MarshalJSON() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []Identifiable{}
	}
	return json.Marshal(map[string]any{
		"success":      c.Success,
		string(c.Kind): items,
	})
}
