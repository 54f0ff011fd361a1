package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	event := &Event{ID: "ev-1", UserID: "owner"}
	invite := func(eventID string, status InviteStatus) *Invite {
		return &Invite{EventID: eventID, Status: status}
	}

	tests := []struct {
		name      string
		principal Principal
		action    Action
		want      bool
	}{
		{"owner manages", Principal{UserID: "owner"}, ActionManage, true},
		{"owner views", Principal{UserID: "owner"}, ActionView, true},
		{"other user cannot manage", Principal{UserID: "other"}, ActionManage, false},
		{"other user cannot view without invite", Principal{UserID: "other"}, ActionView, false},
		{"anonymous cannot view", Principal{}, ActionView, false},
		{"accepted invite views", Principal{Invite: invite("ev-1", InviteStatusAccepted)}, ActionView, true},
		{"scanned invite views", Principal{Invite: invite("ev-1", InviteStatusScanned)}, ActionView, true},
		{"pending invite cannot view", Principal{Invite: invite("ev-1", InviteStatusPending)}, ActionView, false},
		{"invite for another event", Principal{Invite: invite("ev-2", InviteStatusAccepted)}, ActionView, false},
		{"accepted invite cannot manage", Principal{Invite: invite("ev-1", InviteStatusAccepted)}, ActionManage, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.principal, event, tt.action))
		})
	}
}

func TestAuthorize(t *testing.T) {
	event := &Event{ID: "ev-1", UserID: "owner"}

	assert.ErrorIs(t, Authorize(Principal{UserID: "owner"}, nil, ActionManage), ErrNotFound)
	assert.ErrorIs(t, Authorize(Principal{UserID: "other"}, event, ActionManage), ErrForbidden)
	assert.ErrorIs(t, Authorize(Principal{Invite: &Invite{EventID: "ev-1", Status: InviteStatusPending}}, event, ActionView), ErrForbidden)
	assert.NoError(t, Authorize(Principal{UserID: "owner"}, event, ActionManage))
}
