package auth

import (
	"sync"

	"honnylove_storefront/internal/models"
)

// Snapshot est une copie figée de la session.
type Snapshot struct {
	User            *models.User `json:"user"`
	AccessToken     string       `json:"accessToken"`
	RefreshToken    string       `json:"refreshToken"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Session détient les identifiants du visiteur connecté.
// Seuls SetAuth, Logout et le TokenProvider la modifient ; les stores la lisent.
type Session struct {
	mu           sync.RWMutex
	user         *models.User
	accessToken  string
	refreshToken string

	// onChange est appelé hors verrou après chaque modification (persistance).
	onChange func(Snapshot)
}

func NewSession() *Session {
	return &Session{}
}

// RestoreSession recrée une session à partir d'un instantané persisté.
func RestoreSession(s Snapshot) *Session {
	sess := &Session{
		accessToken:  s.AccessToken,
		refreshToken: s.RefreshToken,
	}
	if s.User != nil {
		u := *s.User
		sess.user = &u
	}
	return sess
}

// OnChange installe le hook de persistance.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetAuth ouvre la session après connexion ou inscription.
func (s *Session) SetAuth(user models.User, accessToken, refreshToken string) {
	s.mu.Lock()
	s.user = &user
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	snap, hook := s.snapshotLocked(), s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
}

// Logout efface tous les champs.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	snap, hook := s.snapshotLocked(), s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
}

// ReplaceAccessToken remplace le jeton d'accès, utilisateur et refresh token inchangés.
// Rien n'est fait si la session a changé de refresh token entre-temps
// (déconnexion ou reconnexion pendant le rafraîchissement).
func (s *Session) ReplaceAccessToken(refreshToken, accessToken string) bool {
	s.mu.Lock()
	if s.refreshToken == "" || s.refreshToken != refreshToken {
		s.mu.Unlock()
		return false
	}
	s.accessToken = accessToken
	snap, hook := s.snapshotLocked(), s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
	return true
}

// LogoutIf ne déconnecte que si la session porte encore ce refresh token.
func (s *Session) LogoutIf(refreshToken string) bool {
	s.mu.Lock()
	if s.refreshToken != refreshToken {
		s.mu.Unlock()
		return false
	}
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	snap, hook := s.snapshotLocked(), s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
	return true
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != ""
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		AccessToken:     s.accessToken,
		RefreshToken:    s.refreshToken,
		IsAuthenticated: s.accessToken != "",
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}
