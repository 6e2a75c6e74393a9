package routeselect

// User-visible messages written to the error slot.
const (
	MsgSearchFailed    = "Location search failed. Please try again."
	MsgReverseFailed   = "Failed to get address for clicked location"
	MsgNotFound        = "One or both locations not found"
	MsgRouteFailed     = "Failed to calculate route. Please try different locations."
	MsgNoRouteSelected = "Please select a valid route first."
)

// ErrorSlot holds at most one message. Set replaces the previous message,
// Clear empties it.
type ErrorSlot struct {
	msg string
}

func (s *ErrorSlot) Set(msg string) { s.msg = msg }

func (s *ErrorSlot) Clear() { s.msg = "" }

func (s *ErrorSlot) Message() string { return s.msg }

func (s *ErrorSlot) Empty() bool { return s.msg == "" }
