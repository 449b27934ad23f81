package main

import (
	"net/http"

	"github.com/akinalp/studytrack/handlers"
	"github.com/akinalp/studytrack/pkg/ratelimit"
	"github.com/akinalp/studytrack/ws"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	StudyLog *handlers.StudyLogHandler
	Streak   *handlers.StreakHandler
	WS       *ws.Handler
}

func initHandlers(svcs *Services, hub *ws.Hub, loginLimiter *ratelimit.Limiter, trustProxy bool, checkOrigin func(r *http.Request) bool) *Handlers {
	return &Handlers{
		Auth:     handlers.NewAuthHandler(svcs.Auth, svcs.Token, loginLimiter, trustProxy),
		User:     handlers.NewUserHandler(svcs.User),
		StudyLog: handlers.NewStudyLogHandler(svcs.StudyLog),
		Streak:   handlers.NewStreakHandler(svcs.Streak),
		WS:       ws.NewHandler(hub, svcs.Token, checkOrigin),
	}
}
