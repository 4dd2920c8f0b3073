package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dekarrin/rezi"
)

// ErrorBody is the JSON shape of any non-2xx response.
type ErrorBody struct {
	Error     string `json:"error"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// Result is the daemon's answer to one HTTP request, grounded on
// server.EndpointResult: a handler builds one and returns it rather than
// writing to the ResponseWriter directly, so logging and header application
// stay in one place.
type Result struct {
	status      int
	internalMsg string
	isErr       bool
	body        interface{}
	rezi        []byte // set only when the caller asked for application/vnd.oak.rezi
}

func jsonOK(body interface{}, internalMsg string) Result {
	return Result{status: http.StatusOK, body: body, internalMsg: internalMsg}
}

func jsonCreated(body interface{}, internalMsg string) Result {
	return Result{status: http.StatusCreated, body: body, internalMsg: internalMsg}
}

func jsonErr(status int, userMsg, internalMsg string) Result {
	return Result{
		status:      status,
		isErr:       true,
		internalMsg: internalMsg,
		body:        ErrorBody{Error: userMsg, Status: status},
	}
}

func jsonBadRequest(userMsg string) Result {
	return jsonErr(http.StatusBadRequest, userMsg, userMsg)
}

func jsonUnauthorized(internalMsg string) Result {
	return jsonErr(http.StatusUnauthorized, "authentication required", internalMsg)
}

func jsonInternalServerError(internalMsg string) Result {
	return jsonErr(http.StatusInternalServerError, "an internal server error occurred", internalMsg)
}

func (r Result) writeResponse(w http.ResponseWriter, req *http.Request, log *slog.Logger) {
	if r.status == 0 {
		http.Error(w, "an internal server error occurred", http.StatusInternalServerError)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")

	var payload []byte
	var err error
	if r.rezi != nil {
		w.Header().Set("Content-Type", "application/vnd.oak.rezi")
		payload = r.rezi
	} else {
		w.Header().Set("Content-Type", "application/json")
		payload, err = json.Marshal(r.body)
		if err != nil {
			http.Error(w, "could not marshal response", http.StatusInternalServerError)
			return
		}
	}

	if r.isErr {
		log.Error(r.internalMsg, "method", req.Method, "path", req.URL.Path, "status", r.status)
	} else {
		log.Info(r.internalMsg, "method", req.Method, "path", req.URL.Path, "status", r.status)
	}

	w.WriteHeader(r.status)
	w.Write(payload)
}

// encodeReziDiagnostics packs a diagnostics list with dekarrin/rezi, the
// same binary encoder the teacher uses to persist game state, as an
// alternate compact representation of a parse response for clients that
// send Accept: application/vnd.oak.rezi instead of JSON.
func encodeReziDiagnostics(d diagnosticsWire) []byte {
	return rezi.EncBinary(d)
}
