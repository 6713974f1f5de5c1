package sentinel

import "errors"

// Sentinel errors for network facts. Clients and the retry wrapper return
// these (optionally wrapped) so the pipeline can translate them into events.
//
// These represent factual outcomes of a request, not validation failures:
// - ErrBadURL: endpoint could not be constructed (configuration bug)
// - ErrBadServerResponse: transport failure, or a non-200/non-401 status
// - ErrUnableToAuthenticate: 401 persisted after one refresh attempt, or the
//   refresh call itself failed
// - ErrCannotParseResponse: malformed body on an otherwise 200 response
//
// ErrNotFound remains for store lookups (sub-client identity).
var (
	ErrBadURL               = errors.New("bad url")
	ErrBadServerResponse    = errors.New("bad server response")
	ErrUnableToAuthenticate = errors.New("unable to authenticate")
	ErrCannotParseResponse  = errors.New("cannot parse response")
	ErrNotFound             = errors.New("not found")
)
