package requests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stridesales/fieldops-backend/pkg/enums"
)

func TestDisplayStatus(t *testing.T) {
	cases := []struct {
		name     string
		status   enums.ShoeRequestStatus
		quantity int
		returned int
		want     string
	}{
		{"pending stays pending", enums.ShoeRequestStatusPending, 5, 0, "pending"},
		{"rejected stays rejected", enums.ShoeRequestStatusRejected, 5, 5, "rejected"},
		{"approved with nothing back", enums.ShoeRequestStatusApproved, 5, 0, "approved"},
		{"approved partially returned", enums.ShoeRequestStatusApproved, 5, 3, "approved"},
		{"approved fully returned", enums.ShoeRequestStatusApproved, 5, 5, "returned"},
		{"approved over-covered by shared ledger", enums.ShoeRequestStatusApproved, 5, 8, "returned"},
		{"zero quantity never shows returned", enums.ShoeRequestStatusApproved, 0, 0, "approved"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DisplayStatus(tc.status, tc.quantity, tc.returned))
		})
	}
}

func TestIsFullyReturned(t *testing.T) {
	assert.False(t, IsFullyReturned(5, 4))
	assert.True(t, IsFullyReturned(5, 5))
	assert.True(t, IsFullyReturned(5, 6))
	assert.False(t, IsFullyReturned(0, 0))
}
