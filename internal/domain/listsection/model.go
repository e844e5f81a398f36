package listsection

import (
	"github.com/google/uuid"
)

// Item is one value in a dropdown list.
type Item struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
}

// Section is a named dropdown list maintained on the Lists page, e.g.
// consultation types or mutuelles.
type Section struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Items []Item    `json:"items"`
}
