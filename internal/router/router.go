package routes

import (
	"net/http"

	_ "github.com/oggyb/session-messaging/internal/docs" // swagger docs
	"github.com/oggyb/session-messaging/internal/response"
	swaggerHandler "github.com/swaggo/http-swagger"
)

type AppDeps struct {
	Home      HomeHandler
	Message   MessageHandler
	Scheduler SchedulerHandler
	Metrics   http.Handler
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type MessageHandler interface {
	CreateMessage(w http.ResponseWriter, r *http.Request)
	GetSessionMessages(w http.ResponseWriter, r *http.Request)
	GetLatestMessage(w http.ResponseWriter, r *http.Request)
	CountSessionMessages(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	SearchMessages(w http.ResponseWriter, r *http.Request)
	GetMessage(w http.ResponseWriter, r *http.Request)
	DeleteMessage(w http.ResponseWriter, r *http.Request)
}

type SchedulerHandler interface {
	StartStopScheduler(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /health", d.Home.Health)

	mux.HandleFunc("POST /sessions/{sessionId}/messages", d.Message.CreateMessage)
	mux.HandleFunc("GET /sessions/{sessionId}/messages", d.Message.GetSessionMessages)
	mux.HandleFunc("GET /sessions/{sessionId}/messages/latest", d.Message.GetLatestMessage)
	mux.HandleFunc("GET /sessions/{sessionId}/messages/count", d.Message.CountSessionMessages)
	mux.HandleFunc("GET /sessions/{sessionId}", d.Message.GetSession)

	mux.HandleFunc("GET /messages/search", d.Message.SearchMessages)
	mux.HandleFunc("GET /messages/{messageId}", d.Message.GetMessage)
	mux.HandleFunc("DELETE /messages/{messageId}", d.Message.DeleteMessage)

	if d.Scheduler != nil {
		mux.HandleFunc("POST /scheduler", d.Scheduler.StartStopScheduler)
	}

	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	//Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}
