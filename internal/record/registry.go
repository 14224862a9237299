package record

import "sync"

type draftKey struct {
	sessionID string
	matchID   string
}

// Registry holds the open drafts of every session.
type Registry struct {
	mu     sync.Mutex
	drafts map[draftKey]*Draft
}

func NewRegistry() *Registry {
	return &Registry{drafts: make(map[draftKey]*Draft)}
}

// Open returns the session's draft for matchID, creating it on first use.
func (r *Registry) Open(sessionID, matchID string) *Draft {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := draftKey{sessionID: sessionID, matchID: matchID}
	d, ok := r.drafts[k]
	if !ok {
		d = NewDraft(matchID)
		r.drafts[k] = d
	}
	return d
}

func (r *Registry) Get(sessionID, matchID string) (*Draft, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drafts[draftKey{sessionID: sessionID, matchID: matchID}]
	return d, ok
}

func (r *Registry) Close(sessionID, matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.drafts, draftKey{sessionID: sessionID, matchID: matchID})
}

// CloseSession drops every draft of a session, used on logout and 401.
func (r *Registry) CloseSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k := range r.drafts {
		if k.sessionID == sessionID {
			delete(r.drafts, k)
		}
	}
}
