package cdc_emitter

import (
	"encoding/json"
	"github.com/rs/zerolog/log"
	"time"
)

const writeTimeout = 100 * time.Millisecond

// Event describes one commit.
type Event struct {
	SessionID     string    `json:"session_id"`
	Filename      string    `json:"filename"`
	CommitID      string    `json:"commit_id"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
	ChangedSheets []string  `json:"changed_sheets"`
}

// Emit queues a commit event for broadcast. When the queue is full the event is dropped rather
// than stalling the writer that produced it.
func (m *Manager) Emit(e *Event) {
	select {
	case m.emitChan <- e:
	default:
		log.Warn().Str("commit", e.CommitID).Msg("change feed queue full, dropping event")
	}
}

// raiseCDCEvent writes the event to all connected clients. A client that cannot take the write
// within the timeout is disconnected.
func (m *Manager) raiseCDCEvent(e *Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal change feed event")
		return
	}
	message := append(data, '\n')

	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	for client := range m.clients {
		_ = client.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err = client.Write(message); err != nil {
			_ = client.Close()
			delete(m.clients, client)
		}
	}
}
