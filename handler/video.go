package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campushub/coursechat/broker"
	"github.com/campushub/coursechat/model"
	"github.com/campushub/coursechat/storage"
)

type VideoAPI struct {
	courses storage.CourseRepository
	videos  storage.VideoRepository
	broker  *broker.Broker
	logger  *slog.Logger
}

func NewVideoAPI(courses storage.CourseRepository, videos storage.VideoRepository, brk *broker.Broker, logger *slog.Logger) *VideoAPI {
	return &VideoAPI{
		courses: courses,
		videos:  videos,
		broker:  brk,
		logger:  logger,
	}
}

func (v *VideoAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sub, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodPost && sub == "":
		v.SubmitBatch(w, r)
	case r.Method == http.MethodGet && sub == "":
		v.List(w, r, false)
	case r.Method == http.MethodGet && sub == "manage":
		v.List(w, r, true)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the video api", r.Method, sub))
	}
}

// SubmitBatch runs the full batch before answering: the response lists the
// outcome of every attempted video. Only an unknown course code fails the
// call as a whole.
func (v *VideoAPI) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourseCode string `json:"courseCode"`
		Videos     []struct {
			Name        string `json:"videoName"`
			Description string `json:"videoDescription"`
			Media       string `json:"media"`
		} `json:"videos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "could not parse batch", err)
		return
	}

	uploads := make([]model.Upload, 0, len(req.Videos))
	for _, video := range req.Videos {
		media, err := decodeMedia(video.Media)
		if err != nil {
			Error(w, http.StatusBadRequest, "could not decode video media", err)
			return
		}
		uploads = append(uploads, model.Upload{
			Name:        video.Name,
			Description: video.Description,
			Media:       media,
		})
	}

	result, err := v.broker.ProcessBatch(r.Context(), req.CourseCode, uploads)
	if err != nil {
		if errors.Is(err, model.ErrCourseNotFound) {
			v.returnErr(r.Context(), w, http.StatusNotFound, "unknown course code", err)
			return
		}
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not process batch", err)
		return
	}

	JSON(w, http.StatusOK, result)
}

func (v *VideoAPI) List(w http.ResponseWriter, r *http.Request, manage bool) {
	courses, err := v.findCourses(r.Context(), manage)
	if err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list videos", err)
		return
	}

	type respVideo struct {
		VideoName  string `json:"videoName"`
		Summary    string `json:"summary"`
		VideoID    string `json:"videoId"`
		Thumbnail  string `json:"thumbnail"`
		Visibility string `json:"visibility"`
		Status     string `json:"status"`
	}
	type respCourse struct {
		CourseName string      `json:"courseName"`
		CourseCode string      `json:"courseCode"`
		Visibility string      `json:"visibility"`
		Videos     []respVideo `json:"courseVideos"`
	}

	resp := []respCourse{}
	for _, course := range courses {
		videos, err := v.videos.FindByCourse(r.Context(), course.ID)
		if err != nil {
			v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list videos", err)
			return
		}

		courseResp := respCourse{
			CourseName: course.Name,
			CourseCode: course.Code,
			Visibility: string(course.Visibility),
			Videos:     []respVideo{},
		}
		for _, video := range videos {
			if !manage && (video.Status != model.StatusCompleted || video.Visibility != model.VisibilityPublic) {
				continue
			}
			courseResp.Videos = append(courseResp.Videos, respVideo{
				VideoName:  video.Name,
				Summary:    video.Description,
				VideoID:    video.IndexerID,
				Thumbnail:  video.Thumbnail,
				Visibility: string(video.Visibility),
				Status:     string(video.Status),
			})
		}
		resp = append(resp, courseResp)
	}

	JSON(w, http.StatusOK, resp)
}

func (v *VideoAPI) findCourses(ctx context.Context, manage bool) ([]*model.Course, error) {
	if manage {
		return v.courses.FindAll(ctx)
	}

	return v.courses.FindPublic(ctx)
}

func (v *VideoAPI) returnErr(_ context.Context, w http.ResponseWriter, status int, message string, err error, details ...any) {
	v.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}

// decodeMedia accepts plain base64 or a data url.
func decodeMedia(media string) ([]byte, error) {
	if strings.HasPrefix(media, "data") {
		parts := strings.SplitN(media, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed data url")
		}
		media = parts[1]
	}

	return base64.StdEncoding.DecodeString(media)
}
