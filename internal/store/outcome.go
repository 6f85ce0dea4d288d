package store

// Outcome est le résultat d'une opération de store. Aucune opération ne panique
// ni ne remonte d'erreur réseau brute : l'interface lit OK() pour son toast.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeUnauthenticated : pas de session, aucun appel réseau n'a eu lieu.
	OutcomeUnauthenticated
	// OutcomeDuplicate : le produit est déjà dans les favoris.
	OutcomeDuplicate
	// OutcomeFailed : l'appel a échoué, l'état local est inchangé.
	OutcomeFailed
)

func (o Outcome) OK() bool {
	return o == OutcomeOK
}

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Phase : idle -> loading -> {synced, error}, synced ré-entrable via loading.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSynced  Phase = "synced"
	PhaseError   Phase = "error"
)
