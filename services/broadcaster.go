package services

import (
	"github.com/knightsclub/chessclub/realtime"
)

// BracketBroadcaster tells websocket subscribers that a tournament changed.
// Delivery is best effort.
type BracketBroadcaster interface {
	BracketUpdated(tournamentID int, reason string)
}

type hubBroadcaster struct {
	hub *realtime.Hub
}

func NewBracketBroadcaster(hub *realtime.Hub) BracketBroadcaster {
	if hub == nil {
		return noopBroadcaster{}
	}
	return &hubBroadcaster{hub: hub}
}

func (b *hubBroadcaster) BracketUpdated(tournamentID int, reason string) {
	b.hub.BroadcastToRoom(realtime.TournamentRoom(tournamentID), realtime.Message{
		Type: realtime.MessageBracketUpdated,
		Payload: map[string]interface{}{
			"tournament_id": tournamentID,
			"reason":        reason,
		},
	})
}

type noopBroadcaster struct{}

func (noopBroadcaster) BracketUpdated(int, string) {}
