package requests

import "github.com/stridesales/fieldops-backend/pkg/enums"

// DisplayStatus maps a stored request status to the value shown to clients.
// An approved request whose recorded returns cover its quantity displays as
// "returned"; the stored status never changes. This is the single place the
// derived value is computed.
func DisplayStatus(status enums.ShoeRequestStatus, requestQty, returnedSum int) string {
	if status == enums.ShoeRequestStatusApproved && requestQty > 0 && returnedSum >= requestQty {
		return enums.ShoeRequestDisplayReturned
	}
	return string(status)
}

// IsFullyReturned reports whether the recorded return sum covers the request
// quantity. Monotone: once true it can only stay true, returns are immutable.
func IsFullyReturned(requestQty, returnedSum int) bool {
	return requestQty > 0 && returnedSum >= requestQty
}
