package models

import "strings"

// Canonical repair ticket statuses. Legacy rows and older clients still
// submit Spanish and shorthand spellings, which NormalizeStatus folds
// onto these four values.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var statusSynonyms = map[string]string{
	"pending":     StatusPending,
	"pendiente":   StatusPending,
	"open":        StatusPending,
	"abierto":     StatusPending,
	"in_progress": StatusInProgress,
	"in progress": StatusInProgress,
	"progress":    StatusInProgress,
	"process":     StatusInProgress,
	"proceso":     StatusInProgress,
	"en progreso": StatusInProgress,
	"en proceso":  StatusInProgress,
	"completed":   StatusCompleted,
	"completado":  StatusCompleted,
	"completa":    StatusCompleted,
	"done":        StatusCompleted,
	"finalizado":  StatusCompleted,
	"terminado":   StatusCompleted,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"cancelado":   StatusCancelled,
	"cancelada":   StatusCancelled,
}

// NormalizeStatus maps any recognized status spelling onto the canonical
// four-value domain. Unknown values coerce to pending rather than being
// rejected, matching how legacy imports were handled.
func NormalizeStatus(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := statusSynonyms[key]; ok {
		return canonical
	}
	return StatusPending
}

// IsOpenStatus reports whether a canonical status still counts as an
// open repair for booking de-duplication (pending or in_progress).
func IsOpenStatus(s string) bool {
	canonical := NormalizeStatus(s)
	return canonical == StatusPending || canonical == StatusInProgress
}
