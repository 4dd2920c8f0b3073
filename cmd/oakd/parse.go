package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/dekarrin/oak/example/jsonlang"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/lexer"
	"github.com/dekarrin/oak/parser"
	"github.com/dekarrin/oak/source"
	"github.com/dekarrin/oak/tree"
	"github.com/google/uuid"
)

// editWire is the wire shape of a source.Edit.
type editWire struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`
}

// parseRequest is the body of POST /parse. When SessionID names a session
// this daemon already holds open, Source is ignored and Edits are applied
// against that session's running buffer; otherwise Source seeds a brand new
// session (Edits, if any, are applied to Source before the session's first
// parse, which runs with no previous tree to reuse).
type parseRequest struct {
	SessionID string     `json:"session_id,omitempty"`
	Source    string     `json:"source"`
	Edits     []editWire `json:"edits,omitempty"`
}

type diagnosticWire struct {
	Kind     string `json:"kind"`
	Offset   int    `json:"offset"`
	Expected string `json:"expected,omitempty"`
	Found    string `json:"found,omitempty"`
	Message  string `json:"message,omitempty"`
}

// diagnosticsWire is the unit dekarrin/rezi encodes for the
// application/vnd.oak.rezi alternate response representation.
type diagnosticsWire struct {
	Diagnostics []diagnosticWire
}

type parseResponse struct {
	SessionID   string           `json:"session_id"`
	Tree        string           `json:"tree"`
	Diagnostics []diagnosticWire `json:"diagnostics"`
}

// session holds the state one incremental-parsing client needs carried
// between requests: the running source text and the last green tree, keyed
// by parser.SessionID. Grounded on cmd/oak/repl.go's text/root pair, made
// concurrency-safe and keyed per client instead of being a single REPL-local
// pair of variables.
type session struct {
	text source.Text
	root *tree.GreenNode[jsonlang.TokenKind, jsonlang.NodeKind]
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[parser.SessionID]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[parser.SessionID]*session)}
}

func (s *sessionStore) get(id parser.SessionID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *sessionStore) put(id parser.SessionID, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

// api bundles the dependencies oakd's HTTP handlers need, mirroring
// server.API's Backend/Secret grouping.
type api struct {
	cfg      lang.Config
	cache    *lexer.Cache
	sessions *sessionStore
	audit    *auditLog
}

func toEdits(wire []editWire) []source.Edit {
	edits := make([]source.Edit, len(wire))
	for i, w := range wire {
		edits[i] = source.Edit{Start: w.Start, End: w.End, Replacement: w.Replacement}
	}
	return edits
}

// epParse is the POST /parse endpoint: resolves or creates a session, lexes
// and incrementally reparses the source, renders the red tree with
// tree.Dump, and records request metadata to the audit log.
func (a *api) epParse(req *http.Request) Result {
	var body parseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return jsonBadRequest("malformed JSON body: " + err.Error())
	}

	requestID := uuid.NewString()

	var sessID parser.SessionID
	if body.SessionID != "" {
		sessID = parser.SessionID(body.SessionID)
	} else {
		sessID = parser.SessionID(uuid.NewString())
	}

	sess, existing := a.sessions.get(sessID)

	var (
		text    source.Text
		oldRoot *tree.GreenNode[jsonlang.TokenKind, jsonlang.NodeKind]
		edits   []source.Edit
	)

	if existing {
		text = sess.text
		oldRoot = sess.root
		edits = toEdits(body.Edits)
		newText, err := source.Apply(text, edits)
		if err != nil {
			return jsonBadRequest("invalid edits: " + err.Error())
		}
		text = newText
	} else {
		text = source.NewText(string(sessID), body.Source)
		if len(body.Edits) > 0 {
			newText, err := source.Apply(text, toEdits(body.Edits))
			if err != nil {
				return jsonBadRequest("invalid edits: " + err.Error())
			}
			text = newText
			edits = toEdits(body.Edits)
		}
	}

	out := parser.ParseIncremental[jsonlang.TokenKind, jsonlang.NodeKind](
		text, a.cache, oldRoot, edits, a.cfg, jsonlang.Lex, jsonlang.ParseProgram,
	)

	a.sessions.put(sessID, &session{text: text, root: out.Root})

	diagWires := make([]diagnosticWire, len(out.Diagnostics))
	for i, d := range out.Diagnostics {
		diagWires[i] = diagnosticWire{
			Kind:     d.Kind.String(),
			Offset:   d.Offset,
			Expected: d.Expected,
			Found:    d.Found,
			Message:  d.Message,
		}
	}

	var treeDump string
	if out.Root != nil {
		red := tree.FromGreenRoot(out.Root)
		treeDump = tree.Dump(red, text)
	}

	if err := a.audit.record(req.Context(), requestID, string(sessID), text.Length(), len(out.Diagnostics)); err != nil {
		// audit failures must never block a parse response; they only
		// mean one row of metadata is missing from the trail.
		_ = err
	}

	resp := parseResponse{SessionID: string(sessID), Tree: treeDump, Diagnostics: diagWires}

	if wantsRezi(req) {
		r := jsonOK(nil, fmt.Sprintf("parsed session %s (%d diagnostics)", sessID, len(out.Diagnostics)))
		r.rezi = encodeReziDiagnostics(diagnosticsWire{Diagnostics: diagWires})
		return r
	}

	return jsonCreated(resp, fmt.Sprintf("parsed session %s (%d diagnostics)", sessID, len(out.Diagnostics)))
}

func wantsRezi(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/vnd.oak.rezi")
}

// epWhoAmI returns the authenticated user's identity, a minimal stand-in
// for server/endpoints.go's user-lookup endpoints, useful for confirming a
// bearer token is accepted before spending a parse request on it.
func (a *api) epWhoAmI(req *http.Request) Result {
	u := userFromContext(req.Context())
	return jsonOK(map[string]string{"id": u.ID.String(), "username": u.Username}, "looked up caller identity")
}
