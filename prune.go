package agent

import "github.com/Protocol-Lattice/spacex-agent/src/models"

// pruneHistory bounds the conversation log with a sliding window while
// preserving the chat protocol's structural invariants: the system message
// at index 0 is never evicted, and the cut never separates a tool message
// from the assistant message that requested it.
//
// A naive suffix slice can land between an assistant tool request and its
// observations, which the API rejects. Instead the candidate window is
// advanced to its first user message: a user message never has tool-call
// dependencies pointing backward, so cutting immediately before one is
// always safe. When the window contains no user message at all (a very long
// unbroken tool chain) the cut stays at the window start; that can orphan a
// tool message and is a known limitation.
func pruneHistory(messages []models.Message, maxLen int) []models.Message {
	if maxLen <= 0 || len(messages) <= maxLen {
		return messages
	}

	window := messages[len(messages)-(maxLen-1):]

	start := 0
	for i, msg := range window {
		if msg.Role == models.RoleUser {
			start = i
			break
		}
	}

	pruned := make([]models.Message, 0, 1+len(window)-start)
	pruned = append(pruned, messages[0])
	return append(pruned, window[start:]...)
}
