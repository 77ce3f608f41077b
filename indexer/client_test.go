package indexer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campushub/coursechat/indexer"
	"github.com/campushub/coursechat/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler, timeout time.Duration) *indexer.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return indexer.NewClient(indexer.Config{
		Endpoint:     server.URL,
		Location:     "trial",
		AccountID:    "acc-1",
		AccessToken:  "token",
		PollInterval: time.Millisecond,
		Timeout:      timeout,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestUpload(t *testing.T) {
	var gotName, gotDescription string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/trial/Accounts/acc-1/Videos", r.URL.Path)
		gotName = r.URL.Query().Get("name")
		gotDescription = r.URL.Query().Get("description")

		require.NoError(t, r.ParseMultipartForm(1 << 20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		media, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "media bytes", string(media))

		json.NewEncoder(w).Encode(map[string]string{"id": "vid-42"})
	}), 0)

	id, err := client.Upload(context.Background(), model.Upload{
		Name:        "lecture-1",
		Description: "an introduction",
		Media:       []byte("media bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "vid-42", id)
	assert.Equal(t, "lecture-1", gotName)
	assert.Equal(t, "an introduction", gotDescription)
}

func TestWaitForIndex(t *testing.T) {
	polls := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trial/Accounts/acc-1/Videos/vid-42/Index", r.URL.Path)
		polls++
		state := "Processing"
		if polls >= 3 {
			state = "Processed"
		}
		fmt.Fprintf(w, `{
			"state": %q,
			"summarizedInsights": {"thumbnailId": "thumb-7"},
			"videos": [{"insights": {"transcript": [
				{"text": "hello", "instances": [{"adjustedStart": "0:00:01.2", "adjustedEnd": "0:00:02.4"}]},
				{"text": "world", "instances": [{"adjustedStart": "0:00:02.4", "adjustedEnd": "0:00:03.1"}]}
			]}}]
		}`, state)
	}), 0)

	insights, err := client.WaitForIndex(context.Background(), "vid-42")

	require.NoError(t, err)
	assert.Equal(t, 3, polls)
	assert.Equal(t, "thumb-7", insights.ThumbnailID)
	require.Len(t, insights.Phrases, 2)
	assert.Equal(t, model.Phrase{Start: 1.2, End: 2.4, Phrase: "hello"}, insights.Phrases[0])
}

func TestWaitForIndexFailed(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"state": "Failed"}`)
	}), 0)

	_, err := client.WaitForIndex(context.Background(), "vid-42")

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrIndexingTimeout)
}

func TestWaitForIndexTimeout(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"state": "Processing"}`)
	}), 2*time.Millisecond)

	_, err := client.WaitForIndex(context.Background(), "vid-42")

	require.ErrorIs(t, err, model.ErrIndexingTimeout)
}

func TestThumbnail(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trial/Accounts/acc-1/Videos/vid-42/Thumbnails/thumb-7", r.URL.Path)
		w.Write([]byte("image"))
	}), 0)

	encoded, err := client.Thumbnail(context.Background(), "vid-42", "thumb-7")

	require.NoError(t, err)
	assert.Equal(t, "aW1hZ2U=", encoded)
}

func TestPromptContent(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trial/Accounts/acc-1/Videos/vid-42/PromptContent", r.URL.Path)
		fmt.Fprint(w, `{"sections": [
			{"start": "0:00:00", "end": "0:04:30", "content": "Intro [Transcript]"},
			{"start": "0:04:30", "end": "0:10:00", "content": "Main part [Transcript]"}
		]}`)
	}), 0)

	sections, err := client.PromptContent(context.Background(), "vid-42")

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, model.PromptSection{Start: 0, End: 270, Content: "Intro [Transcript]"}, sections[0])
	assert.Equal(t, 270.0, sections[1].Start)
}
