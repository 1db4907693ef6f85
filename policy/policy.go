// Package policy is the single authorization decision point. Handlers never
// branch on roles themselves; they name an action, hand over the principal
// and (when ownership matters) the target resource, and act only on allow.
package policy

import (
	"roamio/apperr"
	"roamio/models"
)

type Action string

const (
	ActionSignup            Action = "signup"
	ActionCreateExperience  Action = "createExperience"
	ActionPublishExperience Action = "publishExperience"
	ActionBlockExperience   Action = "blockExperience"
	ActionEditExperience    Action = "editExperience"
	ActionBookExperience    Action = "bookExperience"
	ActionListAllUsers      Action = "listAllUsers"
	ActionMutateTask        Action = "mutateTask"
)

type rule struct {
	// allow evaluates the principal against the optional target resource.
	// For ActionSignup the principal is nil and resource is the requested
	// role; every other action requires an authenticated principal.
	allow    func(p *models.Principal, resource any) bool
	denyCode apperr.Code
	denyMsg  string
}

var table = map[Action]rule{
	ActionSignup: {
		allow: func(_ *models.Principal, resource any) bool {
			role, ok := resource.(models.Role)
			return ok && (role == models.RoleUser || role == models.RoleHost)
		},
		denyCode: apperr.CodeValidation,
		denyMsg:  "role must be user or host",
	},
	ActionCreateExperience: {
		allow: func(p *models.Principal, _ any) bool {
			return p.Role == models.RoleHost || p.Role == models.RoleAdmin
		},
		denyCode: apperr.CodeForbidden,
		denyMsg:  "only hosts can create experiences",
	},
	ActionPublishExperience: {
		allow: func(p *models.Principal, resource any) bool {
			exp, ok := resource.(*models.Experience)
			if !ok {
				return false
			}
			if p.Role == models.RoleAdmin {
				return true
			}
			return p.Role == models.RoleHost && exp.CreatedBy == p.UserID
		},
		denyCode: apperr.CodeForbidden,
		denyMsg:  "only the owning host or an admin can publish",
	},
	ActionEditExperience: {
		allow: func(p *models.Principal, resource any) bool {
			exp, ok := resource.(*models.Experience)
			if !ok {
				return false
			}
			return p.Role == models.RoleAdmin ||
				(p.Role == models.RoleHost && exp.CreatedBy == p.UserID)
		},
		denyCode: apperr.CodeForbidden,
		denyMsg:  "not your experience",
	},
	ActionBlockExperience: {
		allow: func(p *models.Principal, _ any) bool {
			return p.Role == models.RoleAdmin
		},
		denyCode: apperr.CodeForbidden,
		denyMsg:  "only admins can block experiences",
	},
	ActionBookExperience: {
		allow: func(p *models.Principal, _ any) bool {
			return p.Role != models.RoleHost
		},
		denyCode: apperr.CodeBookingForbidden,
		denyMsg:  "hosts cannot book experiences",
	},
	ActionListAllUsers: {
		allow: func(p *models.Principal, _ any) bool {
			return p.Role == models.RoleAdmin
		},
		denyCode: apperr.CodeForbidden,
		denyMsg:  "admin only",
	},
	ActionMutateTask: {
		allow: func(p *models.Principal, resource any) bool {
			task, ok := resource.(*models.Task)
			if !ok {
				return false
			}
			return task.Owner == p.UserID || p.Role == models.RoleAdmin
		},
		denyCode: apperr.CodeForbidden,
		denyMsg:  "not your task",
	},
}

// Decide returns nil on allow, or a coded error on deny. The deny shape
// does not depend on whether the resource exists; existence ordering is
// the caller's contract.
func Decide(p *models.Principal, action Action, resource any) error {
	r, ok := table[action]
	if !ok {
		return apperr.Newf(apperr.CodeForbidden, "unknown action %q", action)
	}
	if action != ActionSignup && p == nil {
		return apperr.New(apperr.CodeUnauthorized, "authentication required")
	}
	if r.allow(p, resource) {
		return nil
	}
	return apperr.New(r.denyCode, r.denyMsg)
}
