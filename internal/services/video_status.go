package services

import "taovideo/internal/models/db_models"

// Provider job states.
const (
	stateWaiting    = "waiting"
	stateQueuing    = "queuing"
	stateGenerating = "generating"
	stateSuccess    = "success"
	stateFail       = "fail"
)

const defaultFailureMessage = "Video generation failed"

// mapProviderState maps a provider (code, state) pair onto the internal
// video status and progress. ok=false means the combination is unmapped and
// the stored status/progress must be left unchanged.
func mapProviderState(code int, state string) (status db_models.VideoStatus, progress int, ok bool) {
	switch {
	case code == 200 && state == stateSuccess:
		return db_models.VideoStatusCompleted, 100, true
	case code == 501 || state == stateFail:
		return db_models.VideoStatusFailed, 0, true
	case state == stateWaiting || state == stateQueuing:
		return db_models.VideoStatusPending, 10, true
	case state == stateGenerating:
		return db_models.VideoStatusProcessing, 50, true
	}
	return "", 0, false
}
