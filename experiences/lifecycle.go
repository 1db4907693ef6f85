package experiences

import (
	"roamio/apperr"
	"roamio/models"
)

// Lifecycle actions an experience can undergo after creation.
const (
	actionPublish = "publish"
	actionBlock   = "block"
)

// transitions is the whole state machine: only the listed (status, action)
// pairs are defined. Blocked is terminal except for the idempotent
// re-block, which is a no-op success rather than an error.
var transitions = map[models.ExperienceStatus]map[string]models.ExperienceStatus{
	models.StatusDraft: {
		actionPublish: models.StatusPublished,
		actionBlock:   models.StatusBlocked,
	},
	models.StatusPublished: {
		actionBlock: models.StatusBlocked,
	},
	models.StatusBlocked: {
		actionBlock: models.StatusBlocked,
	},
}

// Transition resolves the next status for a lifecycle action, or fails
// when the pair is undefined.
func Transition(current models.ExperienceStatus, action string) (models.ExperienceStatus, error) {
	if next, ok := transitions[current][action]; ok {
		return next, nil
	}
	switch action {
	case actionPublish:
		return "", apperr.New(apperr.CodeValidation, "experience is not in draft status")
	default:
		return "", apperr.Newf(apperr.CodeValidation, "cannot %s a %s experience", action, current)
	}
}
