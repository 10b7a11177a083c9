/*
Package server implements msgpack IPC for text expansion.

The server reads msgpack encoded requests from stdin and writes one msgpack response
per request to stdout. Logs go to stderr so the stream stays clean.

# IPC

Every request carries an ID, echoed back, and an op. The remaining fields depend on
the op.

Stateless candidate lookup for a buffer snapshot:

	{"id": "r1", "op": "match", "text": "My email is ;em", "cursor": 15}

The server responds with candidates in trigger list order:

	{"id": "r1", "s": [{"k": ";em", "x": "example@email.com"}], "c": 1, "t": 12}

With "verbose": true each candidate also lists the strategies that fired under "m".

Planning the edit for a chosen expansion:

	{"id": "r2", "op": "expand", "text": "My email is ;em", "cursor": 15, "exp": "example@email.com"}
	{"id": "r2", "text": "My email is example@email.com", "cursor": 29, "start": 12, "end": 15, "key": ";em", "t": 9}

Editor integrations that want the server to track the popup use session ops keyed
by a buffer id:

	{"id": "r3", "op": "edit", "buf": "doc-1", "text": "He", "cursor": 2}
	{"id": "r4", "op": "key", "buf": "doc-1", "key": "down"}
	{"id": "r5", "op": "accept", "buf": "doc-1"}
	{"id": "r6", "op": "close", "buf": "doc-1"}

The trigger list itself is managed with the triggers op:

	{"id": "t1", "op": "triggers", "action": "list"}
	{"id": "t2", "op": "triggers", "action": "add", "trigger": {"k": "sig", "x": "Best regards"}}
	{"id": "t3", "op": "triggers", "action": "remove", "idx": 4}

Server limits can be changed at runtime; they are saved to the config file:

	{"id": "c1", "op": "config", "max_candidates": 8}
	{"id": "c1", "status": "ok", "max_text": 100000, "max_candidates": 8}

Failed requests get an ErrorResponse with an HTTP like code: 400 for malformed
requests, 404 for unknown buffers or trigger positions, 413 for texts over the
configured limit and 500 for everything else.

# Timings

"t" is the handling time in microseconds.

Cursor positions, start and end are rune offsets.
*/
package server

import "github.com/bastiangx/wordexpand/pkg/expand"

// Ops understood by the server.
const (
	OpMatch    = "match"
	OpExpand   = "expand"
	OpEdit     = "edit"
	OpKey      = "key"
	OpAccept   = "accept"
	OpClose    = "close"
	OpTriggers = "triggers"
	OpHealth   = "health"
	OpConfig   = "config"
)

// Request is the single envelope for every op. Unused fields are left empty.
type Request struct {
	ID        string          `msgpack:"id"`
	Op        string          `msgpack:"op"`
	Buf       string          `msgpack:"buf,omitempty"`
	Text      string          `msgpack:"text,omitempty"`
	Cursor    int             `msgpack:"cursor,omitempty"`
	Expansion *string         `msgpack:"exp,omitempty"`
	Key       string          `msgpack:"key,omitempty"`
	Index     *int            `msgpack:"idx,omitempty"`
	Action    string          `msgpack:"action,omitempty"` // "list", "add", "update", "remove", "reload"
	Trigger   *expand.Trigger `msgpack:"trigger,omitempty"`
	Verbose   bool            `msgpack:"verbose,omitempty"`

	// config op, nil leaves the value alone
	MaxText       *int `msgpack:"max_text,omitempty"`
	MaxCandidates *int `msgpack:"max_candidates,omitempty"`
}

// Candidate - minimal candidate
type Candidate struct {
	Key        string   `msgpack:"k"`
	Expansion  string   `msgpack:"x"`
	Strategies []string `msgpack:"m,omitempty"`
}

// MatchResponse - match response
type MatchResponse struct {
	ID         string      `msgpack:"id"`
	Candidates []Candidate `msgpack:"s"`
	Count      int         `msgpack:"c"`
	TimeTaken  int64       `msgpack:"t"`
}

// ExpandResponse - replacement plan response
type ExpandResponse struct {
	ID        string `msgpack:"id"`
	Text      string `msgpack:"text"`
	Cursor    int    `msgpack:"cursor"`
	Start     int    `msgpack:"start"`
	End       int    `msgpack:"end"`
	Key       string `msgpack:"key,omitempty"`
	TimeTaken int64  `msgpack:"t"`
}

// SessionResponse reports a session after edit, key or accept.
type SessionResponse struct {
	ID         string      `msgpack:"id"`
	Buf        string      `msgpack:"buf"`
	Text       string      `msgpack:"text"`
	Cursor     int         `msgpack:"cursor"`
	Visible    bool        `msgpack:"visible"`
	Candidates []Candidate `msgpack:"s"`
	Selected   int         `msgpack:"sel"`
	Consumed   bool        `msgpack:"consumed,omitempty"`
	Applied    bool        `msgpack:"applied,omitempty"`
	TimeTaken  int64       `msgpack:"t"`
}

// TriggersResponse - trigger list operation response
type TriggersResponse struct {
	ID       string           `msgpack:"id"`
	Status   string           `msgpack:"status"`
	Triggers []expand.Trigger `msgpack:"triggers,omitempty"`
	Count    int              `msgpack:"c"`
}

// StatusResponse is sent at startup and for health and close.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID            string `msgpack:"id"`
	Status        string `msgpack:"status"`
	MaxText       int    `msgpack:"max_text"`
	MaxCandidates int    `msgpack:"max_candidates"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
