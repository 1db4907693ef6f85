package policy

import (
	"testing"

	"roamio/apperr"
	"roamio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func principal(role models.Role) *models.Principal {
	return &models.Principal{UserID: "u1", Email: "u1@example.com", Role: role}
}

func TestDecideSignup(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		allowed bool
	}{
		{"user allowed", models.RoleUser, true},
		{"host allowed", models.RoleHost, true},
		{"admin denied", models.RoleAdmin, false},
		{"unknown denied", models.Role("superuser"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decide(nil, ActionSignup, tt.role)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			}
		})
	}
}

func TestDecideCreateExperience(t *testing.T) {
	assert.NoError(t, Decide(principal(models.RoleHost), ActionCreateExperience, nil))
	assert.NoError(t, Decide(principal(models.RoleAdmin), ActionCreateExperience, nil))

	err := Decide(principal(models.RoleUser), ActionCreateExperience, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

func TestDecidePublishExperience(t *testing.T) {
	owned := &models.Experience{ExperienceID: "x1", CreatedBy: "u1"}
	foreign := &models.Experience{ExperienceID: "x2", CreatedBy: "someone-else"}

	assert.NoError(t, Decide(principal(models.RoleHost), ActionPublishExperience, owned))
	assert.NoError(t, Decide(principal(models.RoleAdmin), ActionPublishExperience, foreign))

	err := Decide(principal(models.RoleHost), ActionPublishExperience, foreign)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	err = Decide(principal(models.RoleUser), ActionPublishExperience, owned)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

func TestDecideBlockExperience(t *testing.T) {
	assert.NoError(t, Decide(principal(models.RoleAdmin), ActionBlockExperience, nil))
	for _, role := range []models.Role{models.RoleUser, models.RoleHost} {
		err := Decide(principal(role), ActionBlockExperience, nil)
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden), "role %s", role)
	}
}

func TestDecideBookExperience(t *testing.T) {
	assert.NoError(t, Decide(principal(models.RoleUser), ActionBookExperience, nil))
	assert.NoError(t, Decide(principal(models.RoleAdmin), ActionBookExperience, nil))

	// Hosts can never book, and the denial carries its own code.
	err := Decide(principal(models.RoleHost), ActionBookExperience, nil)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeBookingForbidden))
}

func TestDecideListAllUsers(t *testing.T) {
	assert.NoError(t, Decide(principal(models.RoleAdmin), ActionListAllUsers, nil))
	err := Decide(principal(models.RoleUser), ActionListAllUsers, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

func TestDecideMutateTask(t *testing.T) {
	own := &models.Task{TaskID: "t1", Owner: "u1"}
	foreign := &models.Task{TaskID: "t2", Owner: "someone-else"}

	assert.NoError(t, Decide(principal(models.RoleUser), ActionMutateTask, own))
	assert.NoError(t, Decide(principal(models.RoleAdmin), ActionMutateTask, foreign))

	err := Decide(principal(models.RoleUser), ActionMutateTask, foreign)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

func TestDecideMissingPrincipal(t *testing.T) {
	err := Decide(nil, ActionCreateExperience, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

func TestDecideEditExperience(t *testing.T) {
	owned := &models.Experience{ExperienceID: "x1", CreatedBy: "u1"}
	assert.NoError(t, Decide(principal(models.RoleHost), ActionEditExperience, owned))
	assert.NoError(t, Decide(principal(models.RoleAdmin), ActionEditExperience, owned))

	err := Decide(principal(models.RoleUser), ActionEditExperience, owned)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}
