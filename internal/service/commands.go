package service

import "sync"

// ResetCommand is the literal a device interprets as a reboot directive.
// Any other queued value is a firmware URL for OTA update.
const ResetCommand = "reset"

// CommandQueue holds at most one pending command per device. A command is
// delivered in the response to that device's next data POST and removed,
// so delivery is at-most-once and lost on restart.
type CommandQueue struct {
	mu      sync.Mutex
	pending map[string]string
}

func NewCommandQueue() *CommandQueue {
	return &CommandQueue{pending: make(map[string]string)}
}

// Prepare queues a firmware update for espID, replacing any earlier
// pending command (last write wins).
func (q *CommandQueue) Prepare(espID, firmwareURL string) error {
	id := normalizeEspID(espID)
	if id == "" || firmwareURL == "" {
		return ErrMissingFirmware
	}
	q.mu.Lock()
	q.pending[id] = firmwareURL
	q.mu.Unlock()
	return nil
}

// QueueReset queues a reset directive for espID.
func (q *CommandQueue) QueueReset(espID string) error {
	id := normalizeEspID(espID)
	if id == "" {
		return ErrMissingDevice
	}
	q.mu.Lock()
	q.pending[id] = ResetCommand
	q.mu.Unlock()
	return nil
}

// Consume removes and returns the pending command for espID, if any.
func (q *CommandQueue) Consume(espID string) (string, bool) {
	id := normalizeEspID(espID)
	q.mu.Lock()
	defer q.mu.Unlock()
	cmd, ok := q.pending[id]
	if ok {
		delete(q.pending, id)
	}
	return cmd, ok
}
