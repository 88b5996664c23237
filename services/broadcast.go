// services/broadcast.go
package services

// Broadcaster fans a state-affecting event out to every session watching a
// challenge. Implemented by the websocket hub; services never block on it,
// and correctness of the state machine never depends on delivery succeeding.
type Broadcaster interface {
	Publish(challengeID uint, msgType string, payload map[string]interface{})
}

// NopBroadcaster is used by utility binaries and tests that run the engine
// without any connected sessions.
type NopBroadcaster struct{}

func (NopBroadcaster) Publish(uint, string, map[string]interface{}) {}
