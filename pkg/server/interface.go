/*
Package server implements msgpack IPC for the tile combiner.

The server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. Logs go to stderr so they never mix with replies.
On start it writes a single ready message:

	{"status": "ready"}

Every request carries an id and an action. The reply echoes the id.

# Combine

Combines a tile string against the loaded tiers, longest tier first. Tiers
may be narrowed by name:

	{"id": "r1", "action": "combine", "tiles": "가나다라마바", "tiers": ["len6"]}

	{"id": "r1", "status": "ok", "passes": [{"tier": "len6", "w": ["가나다라마바"], "c": 1}],
	 "left": "", "t": 182}

# Inventory

Parses an exported inventory page and combines every grade separately:

	{"id": "r2", "action": "inventory", "html": "<html>..."}

	{"id": "r2", "status": "ok", "grades": [{"grade": "normal", "tiles": "...", "passes": [...], "left": "..."}, ...], "t": 912}

A grade whose tiles are rejected carries its own "error" and leaves all of
its tiles over. The other grades are still combined.

# Dictionary

	{"id": "r3", "action": "dict_info"}
	{"id": "r4", "action": "words", "tier": "len5", "p": "가", "l": 20}
	{"id": "r5", "action": "reload", "tier": "len5"}

# Health

	{"id": "r6", "action": "health"}

A failed request gets status "error" and an error message. Combine failures
still report what was extracted before the failure. Timings are microseconds.
*/
package server

import "github.com/kkuko-utils/jokak/pkg/dictionary"

const (
	ActionCombine   = "combine"
	ActionInventory = "inventory"
	ActionDictInfo  = "dict_info"
	ActionWords     = "words"
	ActionReload    = "reload"
	ActionHealth    = "health"

	StatusOK    = "ok"
	StatusError = "error"
	StatusReady = "ready"
)

// Request is the union of every request shape. Fields not used by an action
// are ignored.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action"`
	Tiles  string   `msgpack:"tiles,omitempty"`
	Tiers  []string `msgpack:"tiers,omitempty"`
	HTML   string   `msgpack:"html,omitempty"`
	Tier   string   `msgpack:"tier,omitempty"`
	Prefix string   `msgpack:"p,omitempty"`
	Limit  int      `msgpack:"l,omitempty"`
}

// PassRecord is the words one tier produced.
type PassRecord struct {
	Tier  string   `msgpack:"tier"`
	Words []string `msgpack:"w"`
	Count int      `msgpack:"c"`
}

// CombineResponse answers a combine request.
type CombineResponse struct {
	ID        string       `msgpack:"id"`
	Status    string       `msgpack:"status"`
	Error     string       `msgpack:"error,omitempty"`
	Passes    []PassRecord `msgpack:"passes"`
	Leftover  string       `msgpack:"left"`
	TimeTaken int64        `msgpack:"t"`
}

// GradeRecord is the combination of one inventory grade. Error is set when
// only this grade failed.
type GradeRecord struct {
	Grade    string       `msgpack:"grade"`
	Tiles    string       `msgpack:"tiles"`
	Passes   []PassRecord `msgpack:"passes"`
	Leftover string       `msgpack:"left"`
	Error    string       `msgpack:"error,omitempty"`
}

// InventoryResponse answers an inventory request.
type InventoryResponse struct {
	ID        string        `msgpack:"id"`
	Status    string        `msgpack:"status"`
	Error     string        `msgpack:"error,omitempty"`
	Grades    []GradeRecord `msgpack:"grades"`
	TimeTaken int64         `msgpack:"t"`
}

// DictionaryResponse answers dict_info and reload requests.
type DictionaryResponse struct {
	ID         string                 `msgpack:"id"`
	Status     string                 `msgpack:"status"`
	Error      string                 `msgpack:"error,omitempty"`
	Tiers      []dictionary.TierStats `msgpack:"tiers,omitempty"`
	TotalWords int                    `msgpack:"total_words"`
	LoadedAt   int64                  `msgpack:"loaded_at,omitempty"`
}

// WordsResponse answers a words request.
type WordsResponse struct {
	ID        string   `msgpack:"id"`
	Status    string   `msgpack:"status"`
	Error     string   `msgpack:"error,omitempty"`
	Words     []string `msgpack:"w"`
	Count     int      `msgpack:"c"`
	TimeTaken int64    `msgpack:"t"`
}

// StatusResponse answers health checks, unknown actions and undecodable input.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}
