package gesture

import "time"

// gestureState is the ephemeral per-touch-sequence record. It is owned
// exclusively by the Classifier, reset at the start of every sequence and
// never persisted or attached to anything shared.
type gestureState struct {
	active bool

	startX    float64
	startY    float64
	startTime time.Time

	lastMoveX float64
	lastMoveY float64
	moveCount int

	isLongPress        bool
	isSelectionAttempt bool
}
