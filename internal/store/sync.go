package store

import "sync"

// syncState séquence les réponses d'un store. Chaque opération prend un
// numéro au départ ; une réponse n'est appliquée que si aucune opération
// démarrée après elle n'a déjà été appliquée.
type syncState struct {
	mu sync.RWMutex

	visitorID string
	kind      EventKind
	hub       *Hub

	seq     uint64
	applied uint64
	loading int
	err     string
	phase   Phase
}

func newSyncState(visitorID string, kind EventKind, hub *Hub) syncState {
	return syncState{visitorID: visitorID, kind: kind, hub: hub, phase: PhaseIdle}
}

func (s *syncState) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *syncState) beginLoading() uint64 {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.loading++
	s.err = ""
	s.phase = PhaseLoading
	s.mu.Unlock()

	s.publish()
	return seq
}

// failLoading conserve l'état précédent. Un échec déjà dépassé par une
// réponse plus récente ne positionne pas d'erreur.
func (s *syncState) failLoading(seq uint64, msg string) {
	s.mu.Lock()
	s.loading--
	if seq > s.applied {
		s.err = msg
		s.phase = PhaseError
	} else if s.phase == PhaseLoading && s.loading == 0 {
		s.phase = PhaseSynced
	}
	s.mu.Unlock()

	s.publish()
}

func (s *syncState) finishLoading(seq uint64, fn func()) bool {
	s.mu.Lock()
	s.loading--
	fresh := seq > s.applied
	if fresh {
		fn()
		s.applied = seq
		s.err = ""
	}
	if s.loading == 0 && (fresh || s.phase == PhaseLoading) {
		s.phase = PhaseSynced
	}
	s.mu.Unlock()

	s.publish()
	return fresh
}

// apply exécute fresh si la réponse est la plus récente, sinon stale (qui peut être nil).
func (s *syncState) apply(seq uint64, fresh, stale func()) bool {
	s.mu.Lock()
	ok := seq > s.applied
	if ok {
		fresh()
		s.applied = seq
	} else if stale != nil {
		stale()
	}
	s.mu.Unlock()

	s.publish()
	return ok
}

// reset rend périmées toutes les réponses en vol.
func (s *syncState) reset(fn func()) {
	s.mu.Lock()
	s.seq++
	s.applied = s.seq
	fn()
	s.err = ""
	s.phase = PhaseIdle
	s.mu.Unlock()

	s.publish()
}

func (s *syncState) publish() {
	s.hub.Publish(Event{VisitorID: s.visitorID, Kind: s.kind})
}
