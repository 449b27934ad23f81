package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/akinalp/studytrack/services"
	"github.com/akinalp/studytrack/ws"
)

// registerHubCallbacks wires hub events to the service layer. The ws
// package never imports services.
func registerHubCallbacks(hub *ws.Hub, streaks services.StreakService, logger zerolog.Logger) {
	hub.OnConnect(func(c *ws.Client) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ready := ws.ReadyData{UserID: c.UserID(), Name: c.Name()}
		streak, err := streaks.Get(ctx, c.UserID())
		if err != nil {
			logger.Error().Err(err).Int64("user_id", c.UserID()).Msg("failed to load streak for ready event")
		} else {
			ready.Streak = streak
		}

		c.Send(ws.Event{Op: ws.OpReady, Data: ready})
	})
}
