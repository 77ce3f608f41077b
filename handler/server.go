package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"

	"github.com/campushub/coursechat/broker"
	"github.com/campushub/coursechat/chat"
	"github.com/campushub/coursechat/storage"
)

type Server struct {
	apis   map[string]http.Handler
	logger *slog.Logger
}

func NewServer(courses storage.CourseRepository, videos storage.VideoRepository, brk *broker.Broker, chatService *chat.Service, logger *slog.Logger) *Server {
	return &Server{
		apis: map[string]http.Handler{
			"courses": NewCourseAPI(courses, logger),
			"videos":  NewVideoAPI(courses, videos, brk, logger),
			"chat":    NewChatAPI(chatService, logger),
		},
		logger: logger,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	originalPath := r.URL.Path
	rec := httptest.NewRecorder() // records the response to be able to mix writing headers and content

	w.Header().Add("Content-Type", "application/json")

	// route to api
	head, tail := ShiftPath(r.URL.Path)
	if len(head) == 0 {
		Index(rec)
		returnResponse(w, rec)
		return
	}
	api, ok := s.apis[head]
	if !ok {
		Error(rec, http.StatusNotFound, "Not found", fmt.Errorf("%s is not a valid path", r.URL.Path))
	} else {
		r.URL.Path = tail
		api.ServeHTTP(rec, r)
	}

	returnResponse(w, rec)
	s.logger.Info("request served", slog.String("path", originalPath), slog.Int("status", rec.Code))
}

func returnResponse(w http.ResponseWriter, rec *httptest.ResponseRecorder) {
	w.WriteHeader(rec.Code)
	for k, v := range rec.Header() {
		w.Header()[k] = v
	}
	w.Write(rec.Body.Bytes())
}

// ShiftPath splits off the first component of p, which will be cleaned of
// relative components before processing. head will never contain a slash and
// tail will always be a rooted path without trailing slash.
// See https://blog.merovius.de/posts/2017-06-18-how-not-to-use-an-http-router/
func ShiftPath(p string) (string, string) {
	p = path.Clean("/" + p)

	i := strings.Index(p[1:], "/") + 1
	if i <= 0 {
		return p[1:], "/"
	}
	return p[1:i], p[i:]
}
