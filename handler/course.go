package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/campushub/coursechat/model"
	"github.com/campushub/coursechat/storage"
)

type CourseAPI struct {
	courses storage.CourseRepository
	logger  *slog.Logger
}

func NewCourseAPI(courses storage.CourseRepository, logger *slog.Logger) *CourseAPI {
	return &CourseAPI{
		courses: courses,
		logger:  logger,
	}
}

func (c *CourseAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sub, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodPost && sub == "":
		c.Create(w, r)
	case r.Method == http.MethodGet && sub == "":
		c.List(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the course api", r.Method, sub))
	}
}

func (c *CourseAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code        string `json:"courseCode"`
		Name        string `json:"courseName"`
		Description string `json:"courseDescription"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "could not parse course", err)
		return
	}
	if req.Code == "" {
		Error(w, http.StatusBadRequest, "could not parse course", fmt.Errorf("course code is required"))
		return
	}

	course := &model.Course{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := c.courses.Save(r.Context(), course); err != nil {
		if errors.Is(err, model.ErrCourseExists) {
			c.returnErr(r.Context(), w, http.StatusConflict, "course already exists", err)
			return
		}
		c.returnErr(r.Context(), w, http.StatusInternalServerError, "could not save course", err)
		return
	}

	Message(w, http.StatusCreated, "course created")
}

func (c *CourseAPI) List(w http.ResponseWriter, r *http.Request) {
	courses, err := c.courses.FindAll(r.Context())
	if err != nil {
		c.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list courses", err)
		return
	}

	type respCourse struct {
		Code        string `json:"courseCode"`
		Name        string `json:"courseName"`
		Description string `json:"courseDescription"`
		Visibility  string `json:"visibility"`
		VideoCount  int    `json:"videoCount"`
	}
	resp := []respCourse{}
	for _, course := range courses {
		resp = append(resp, respCourse{
			Code:        course.Code,
			Name:        course.Name,
			Description: course.Description,
			Visibility:  string(course.Visibility),
			VideoCount:  len(course.VideoIDs),
		})
	}

	JSON(w, http.StatusOK, resp)
}

func (c *CourseAPI) returnErr(_ context.Context, w http.ResponseWriter, status int, message string, err error, details ...any) {
	c.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}
