/*
Package server implements msgpack IPC for item suggestion services.

The server speaks binary msgpack over stdin/stdout on a request/response
model. Every message carries an ID field and an op discriminator; responses
echo the ID so clients can multiplex.

A suggestion request and its response look like (shown as JSON for
readability):

	{"id": "req_001", "op": "suggest", "q": "banan", "list": "groceries", "l": 10}
	{"id": "req_001", "s": [{"t": "Bananas", "s": 97.0, "f": 5}], "c": 1, "t": 180}

Item mutations go through the same channel so an editor integration can keep
the corpus current without touching the database directly:

	{"id": "m1", "op": "put", "item": {"title": "Oat Milk", "list_id": "groceries"}}
	{"id": "m2", "op": "cross", "iid": "item-uuid", "co": true}
	{"id": "m3", "op": "delete", "iid": "item-uuid"}

Every mutation invalidates the engine's result cache through the store's
mutation callbacks; the next suggestion request recomputes.

Errors are responses, never process exits: an unknown op, an oversized
query or a failed store write produce an error payload with the request ID.
*/
package server

// Supported op discriminators.
const (
	OpSuggest = "suggest"
	OpPut     = "put"
	OpDelete  = "delete"
	OpCross   = "cross"
	OpPing    = "ping"
)

// Request - envelope for every incoming message
type Request struct {
	ID        string       `msgpack:"id"`
	Op        string       `msgpack:"op"`
	Query     string       `msgpack:"q,omitempty"`
	ListID    string       `msgpack:"list,omitempty"`
	ExcludeID string       `msgpack:"x,omitempty"`
	Limit     int          `msgpack:"l,omitempty"`
	Item      *ItemPayload `msgpack:"item,omitempty"`
	ItemID    string       `msgpack:"iid,omitempty"`
	Crossed   bool         `msgpack:"co,omitempty"`
}

// ItemPayload - item fields accepted on put
type ItemPayload struct {
	ID          string   `msgpack:"id,omitempty"`
	Title       string   `msgpack:"title"`
	Description string   `msgpack:"description,omitempty"`
	Quantity    int      `msgpack:"quantity,omitempty"`
	ListID      string   `msgpack:"list_id"`
	ImageRefs   []string `msgpack:"image_refs,omitempty"`
}

// SuggestionPayload - minimal suggestion on the wire
type SuggestionPayload struct {
	ItemID      string  `msgpack:"i"`
	Title       string  `msgpack:"t"`
	Description string  `msgpack:"d,omitempty"`
	Quantity    int     `msgpack:"n,omitempty"`
	Score       float64 `msgpack:"s"`
	Occurrences int     `msgpack:"f"`
	LastUsed    int64   `msgpack:"u"` // unix seconds
	AvgGapSecs  int64   `msgpack:"g,omitempty"`
}

// SuggestResponse - suggestion response
type SuggestResponse struct {
	ID          string              `msgpack:"id"`
	Suggestions []SuggestionPayload `msgpack:"s"`
	Count       int                 `msgpack:"c"`
	TimeTaken   int64               `msgpack:"t"` // microseconds
}

// ItemResponse - mutation response
type ItemResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	ItemID string `msgpack:"iid,omitempty"`
	Error  string `msgpack:"error,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
