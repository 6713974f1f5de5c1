package session

import "sync"

// Session is the credential state threaded through the pipeline. UserKey,
// SubClient and TermsAccepted are fixed at construction; the tokens are
// mutated only through the Store.
type Session struct {
	UserKey       string
	SubClient     string
	AccessToken   string
	RefreshToken  string
	TermsAccepted bool
}

// Store is the single owner of mutable credential state. Reads return a full
// snapshot; writes replace tokens atomically. Callers must not hold the store
// across network I/O; read a snapshot, do the call, write the result.
type Store struct {
	mu      sync.RWMutex
	session Session
}

// NewStore seeds a store with the immutable session identity. Tokens start
// empty; the supervisor must not issue validation or extraction calls before
// a successful authentication has populated them.
func NewStore(userKey, subClient string, termsAccepted bool) *Store {
	return &Store{session: Session{
		UserKey:       userKey,
		SubClient:     subClient,
		TermsAccepted: termsAccepted,
	}}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// SetTokens records the result of a full authentication.
func (s *Store) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AccessToken = access
	s.session.RefreshToken = refresh
}

// SetAccessToken records the result of a refresh. The refresh token is not
// rotated by the key service.
func (s *Store) SetAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AccessToken = access
}
