package dto

// Progress actions accepted by the progress update endpoint
const (
	ProgressActionComplete       = "complete"
	ProgressActionUncomplete     = "uncomplete"
	ProgressActionUpdatePosition = "update_position"
)

// ProgressUpdateRequest arrives as form fields. Position stays a string:
// non-numeric input is ignored silently rather than rejected.
type ProgressUpdateRequest struct {
	Action   string `form:"action" binding:"required" example:"complete"`
	Position string `form:"position"`
}
