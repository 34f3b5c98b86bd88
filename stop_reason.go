package tableagent

// StopReason indicates why the assistant stopped generating.
type StopReason string

const (
	StopEndTurn StopReason = "end_turn"
	StopLength  StopReason = "length"
	StopError   StopReason = "error"
	StopUnknown StopReason = "unknown"
)
