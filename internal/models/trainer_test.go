package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

func TestApplicationStatusNext(t *testing.T) {
	cases := []struct {
		name    string
		from    ApplicationStatus
		action  Transition
		want    ApplicationStatus
		changed bool
		wantErr bool
	}{
		{"approve pending", StatusPending, TransitionApprove, StatusApproved, true, false},
		{"approve rejected", StatusRejected, TransitionApprove, StatusApproved, true, false},
		{"approve approved is noop", StatusApproved, TransitionApprove, StatusApproved, false, false},
		{"reject pending", StatusPending, TransitionReject, StatusRejected, true, false},
		{"reject rejected is noop", StatusRejected, TransitionReject, StatusRejected, false, false},
		{"reject approved conflicts", StatusApproved, TransitionReject, StatusApproved, false, true},
		{"demote approved", StatusApproved, TransitionDemote, StatusPending, true, false},
		{"demote pending is noop", StatusPending, TransitionDemote, StatusPending, false, false},
		{"demote rejected conflicts", StatusRejected, TransitionDemote, StatusRejected, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, changed, err := tc.from.Next(tc.action)
			if tc.wantErr {
				require.ErrorIs(t, err, appErrors.ErrConflict)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, next)
			assert.Equal(t, tc.changed, changed)
		})
	}
}

func TestApplicationStatusRoleFor(t *testing.T) {
	assert.Equal(t, RoleTrainer, StatusApproved.RoleFor())
	assert.Equal(t, RoleMember, StatusPending.RoleFor())
	assert.Equal(t, RoleMember, StatusRejected.RoleFor())
}
