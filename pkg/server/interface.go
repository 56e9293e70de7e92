/*
Package server implements msgpack IPC for typeaid suggestions.

The server reads msgpack-encoded requests from stdin and writes one
msgpack-encoded response per request to stdout. Requests are handled in
order, one at a time.

# IPC

A suggestion request carries the full input text typed so far; the server
extracts the trailing partial word itself:

	{"id": "req_001", "action": "suggest", "i": "hello there wor", "l": 3}

The response lists suggestions in priority order, with the count and the
time taken in microseconds:

	{"id": "req_001", "s": ["work", "world", "would"], "c": 3, "t": 42}

An empty action means "suggest". "l" is optional; zero uses the configured
default limit, and anything above 3 is clamped.

Status requests report the vocabulary load diagnostic:

	{"id": "st_001", "action": "status"}
	{"id": "st_001", "status": "partial", "failed": 2, "message": "WARNING: 2 data file(s) missing", "counts": [17, 0, 40, 12, 0]}

Word character checks let hosts share the engine's idea of a word:

	{"id": "wc_001", "action": "word_char", "ch": "'"}
	{"id": "wc_001", "ok": true}

Failures answer with CompletionError.
*/
package server

const (
	ActionSuggest  = "suggest"
	ActionStatus   = "status"
	ActionWordChar = "word_char"
)

// Request is any client message. Fields unused by an action are ignored.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`
	Input  string `msgpack:"i,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Char   string `msgpack:"ch,omitempty"`
}

// SuggestResponse answers a suggest request.
type SuggestResponse struct {
	ID          string   `msgpack:"id"`
	Suggestions []string `msgpack:"s"`
	Count       int      `msgpack:"c"`
	TimeTaken   int64    `msgpack:"t"`
}

// StatusResponse answers a status request.
type StatusResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Failed  int    `msgpack:"failed"`
	Message string `msgpack:"message"`
	Counts  []int  `msgpack:"counts"`
}

// WordCharResponse answers a word_char request.
type WordCharResponse struct {
	ID string `msgpack:"id"`
	OK bool   `msgpack:"ok"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
