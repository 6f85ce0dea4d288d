package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DuplicateWishlistMessage est le message exact renvoyé par l'API
// quand le produit est déjà dans les favoris.
const DuplicateWishlistMessage = "Товар уже в избранном"

var (
	// ErrDuplicateWishlist : ajout d'un produit déjà présent dans les favoris.
	ErrDuplicateWishlist = errors.New("produit déjà dans les favoris")

	// ErrUnauthorized : l'API a refusé le jeton (401).
	ErrUnauthorized = errors.New("non authentifié")

	// ErrNotFound : ressource inconnue côté API (404).
	ErrNotFound = errors.New("ressource introuvable")
)

// APIError est une réponse non-2xx de l'API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: statut %d", e.Status)
	}
	return fmt.Sprintf("api: statut %d: %s", e.Status, e.Message)
}

// Is permet errors.Is(err, ErrDuplicateWishlist), errors.Is(err, ErrUnauthorized)
// et errors.Is(err, ErrNotFound).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrDuplicateWishlist:
		return e.Message == DuplicateWishlistMessage
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// newAPIError lit {"message": ...} ou {"error": ...}, sinon le corps brut.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	} else {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

// IsDuplicateWishlist indique une erreur « déjà dans les favoris ».
func IsDuplicateWishlist(err error) bool {
	return errors.Is(err, ErrDuplicateWishlist)
}
