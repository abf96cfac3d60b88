package http

import (
	"encoding/json"
	"testing"
	"time"

	"cricket-stats-game/internal/app"
	"cricket-stats-game/internal/domain"
	"cricket-stats-game/internal/infra/memory"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testDate = "2025-01-15"

func newTestService() *app.GameService {
	rosters := memory.NewRosterRepository(memory.NewStaticRosterLoader(map[string][]domain.PlayerRecord{
		testDate: samplePlayers(),
	}), time.Minute)
	return app.NewGameService(memory.NewSessionStore(), rosters,
		app.WithClock(func() time.Time { return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) }),
	)
}

func newTestRouter() (*app.GameService, zerolog.Logger) {
	return newTestService(), zerolog.Nop()
}

func samplePlayers() []domain.PlayerRecord {
	return []domain.PlayerRecord{
		{ID: "1", Name: "Sachin Tendulkar", Question: "Career Test Runs", Answer: 15921},
		{ID: "2", Name: "Jacques Kallis", Question: "Test Batting Average", Answer: 55.37},
	}
}

func answerFor(playerID string) float64 {
	for _, p := range samplePlayers() {
		if p.ID == playerID {
			return p.Answer
		}
	}
	return 0
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg envelope
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
