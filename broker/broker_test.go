package broker_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/campushub/coursechat/broker"
	"github.com/campushub/coursechat/fusion"
	"github.com/campushub/coursechat/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourses struct {
	course *model.Course
}

func (f *fakeCourses) Save(_ context.Context, _ *model.Course) error { return nil }
func (f *fakeCourses) FindAll(_ context.Context) ([]*model.Course, error) {
	return []*model.Course{f.course}, nil
}
func (f *fakeCourses) FindPublic(_ context.Context) ([]*model.Course, error) {
	return []*model.Course{}, nil
}
func (f *fakeCourses) FindByCode(_ context.Context, code string) (*model.Course, error) {
	if f.course == nil || f.course.Code != code {
		return nil, fmt.Errorf("%w: %s", model.ErrCourseNotFound, code)
	}
	return f.course, nil
}

type fakeVideos struct {
	registered []*model.Video
	statuses   map[uuid.UUID]model.VideoStatus
	indexed    map[uuid.UUID]string
	thumbnails map[uuid.UUID]string
}

func newFakeVideos() *fakeVideos {
	return &fakeVideos{
		statuses:   map[uuid.UUID]model.VideoStatus{},
		indexed:    map[uuid.UUID]string{},
		thumbnails: map[uuid.UUID]string{},
	}
}

func (f *fakeVideos) Register(_ context.Context, video *model.Video) error {
	video.ID = uuid.New()
	video.Status = model.StatusPending
	f.registered = append(f.registered, video)
	f.statuses[video.ID] = model.StatusPending
	return nil
}

func (f *fakeVideos) SetStatus(_ context.Context, id uuid.UUID, status model.VideoStatus) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeVideos) SetIndexed(_ context.Context, id uuid.UUID, indexerID, thumbnail string) error {
	f.indexed[id] = indexerID
	f.thumbnails[id] = thumbnail
	return nil
}

func (f *fakeVideos) FindByCourse(_ context.Context, _ uuid.UUID) ([]*model.Video, error) {
	return f.registered, nil
}

func (f *fakeVideos) FindByIndexerID(_ context.Context, _ string) (*model.Video, error) {
	return nil, fmt.Errorf("not implemented")
}

type fakeTranscripts struct {
	saved   map[uuid.UUID]model.TranscriptRecord
	cleaned map[uuid.UUID]string
}

func newFakeTranscripts() *fakeTranscripts {
	return &fakeTranscripts{
		saved:   map[uuid.UUID]model.TranscriptRecord{},
		cleaned: map[uuid.UUID]string{},
	}
}

func (f *fakeTranscripts) Save(_ context.Context, record model.TranscriptRecord) error {
	f.saved[record.VideoID] = record
	return nil
}

func (f *fakeTranscripts) UpdateCleaned(_ context.Context, videoID uuid.UUID, cleaned string) error {
	f.cleaned[videoID] = cleaned
	return nil
}

func (f *fakeTranscripts) FindByVideo(_ context.Context, videoID uuid.UUID) (model.TranscriptRecord, error) {
	return f.saved[videoID], nil
}

type fakeSectionText struct {
	saved map[uuid.UUID][]model.PromptSection
}

func (f *fakeSectionText) SaveAll(_ context.Context, videoID uuid.UUID, sections []model.PromptSection) error {
	if f.saved == nil {
		f.saved = map[uuid.UUID][]model.PromptSection{}
	}
	f.saved[videoID] = sections
	return nil
}

func (f *fakeSectionText) Search(_ context.Context, _ uuid.UUID, _ string, _ int) ([]fusion.Candidate, error) {
	return nil, nil
}

type fakeSectionVec struct {
	saved map[uuid.UUID]int
}

func (f *fakeSectionVec) SaveAll(_ context.Context, videoID uuid.UUID, sections []model.PromptSection, vectors [][]float32) error {
	if len(sections) != len(vectors) {
		return fmt.Errorf("section/vector count mismatch")
	}
	if f.saved == nil {
		f.saved = map[uuid.UUID]int{}
	}
	f.saved[videoID] = len(sections)
	return nil
}

func (f *fakeSectionVec) Search(_ context.Context, _ uuid.UUID, _ []float32, _ int) ([]fusion.Candidate, error) {
	return nil, nil
}

// fakeIndexer fails or times out per video name.
type fakeIndexer struct {
	uploads  int
	failing  map[string]error
	timedOut map[string]bool
}

func (f *fakeIndexer) Upload(_ context.Context, upload model.Upload) (string, error) {
	f.uploads++
	if err, ok := f.failing[upload.Name]; ok {
		return "", err
	}
	return "idx-" + upload.Name, nil
}

func (f *fakeIndexer) WaitForIndex(_ context.Context, indexerID string) (model.Insights, error) {
	if f.timedOut[indexerID] {
		return model.Insights{}, fmt.Errorf("video %s: %w", indexerID, model.ErrIndexingTimeout)
	}
	return model.Insights{
		ThumbnailID: "thumb-1",
		Phrases: []model.Phrase{
			{Start: 1, End: 3, Phrase: "welcome"},
			{Start: 3, End: 6, Phrase: "to the course"},
		},
	}, nil
}

func (f *fakeIndexer) Thumbnail(_ context.Context, _, _ string) (string, error) {
	return "aW1hZ2U=", nil
}

func (f *fakeIndexer) PromptContent(_ context.Context, _ string) ([]model.PromptSection, error) {
	return []model.PromptSection{
		{Start: 0, End: 10, Content: "Welcome section. [Transcript]"},
	}, nil
}

type fakeCleaner struct {
	calls int
}

func (f *fakeCleaner) Clean(_ context.Context, timestamped, _, _ string) (string, error) {
	f.calls++
	return timestamped, nil
}

type fakeEmbedder struct{}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func testBroker(courses *fakeCourses, videos *fakeVideos, transcripts *fakeTranscripts,
	text *fakeSectionText, vec *fakeSectionVec, idx *fakeIndexer, cleaner *fakeCleaner) *broker.Broker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return broker.NewBroker(courses, videos, transcripts, text, vec, idx, cleaner, &fakeEmbedder{}, logger)
}

func TestProcessBatch(t *testing.T) {
	courses := &fakeCourses{course: &model.Course{ID: uuid.New(), Code: "CS2030", Name: "Programming Methodology"}}
	videos := newFakeVideos()
	transcripts := newFakeTranscripts()
	text := &fakeSectionText{}
	vec := &fakeSectionVec{}
	idx := &fakeIndexer{}
	cleaner := &fakeCleaner{}

	result, err := testBroker(courses, videos, transcripts, text, vec, idx, cleaner).
		ProcessBatch(context.Background(), "CS2030", []model.Upload{
			{Name: "lecture-1", Description: "intro", Media: []byte("media")},
		})

	require.NoError(t, err)
	require.Len(t, result.Videos, 1)
	assert.Equal(t, model.StatusCompleted, result.Videos[0].Status)
	assert.Equal(t, 1, result.Completed())

	require.Len(t, videos.registered, 1)
	videoID := videos.registered[0].ID
	assert.Equal(t, model.StatusCompleted, videos.statuses[videoID])
	assert.Equal(t, "idx-lecture-1", videos.indexed[videoID])
	assert.Equal(t, "data:image/jpeg;base64,aW1hZ2U=", videos.thumbnails[videoID])

	record := transcripts.saved[videoID]
	assert.Equal(t, "welcome to the course", record.Raw)
	assert.Equal(t, record.Timestamped, transcripts.cleaned[videoID])
	assert.Equal(t, 1, cleaner.calls)

	require.Len(t, text.saved[videoID], 1)
	assert.Equal(t, "Welcome section. (00:01.00) welcome\n(00:03.00) to the course", text.saved[videoID][0].Content)
	assert.Equal(t, 1, vec.saved[videoID])
}

func TestProcessBatchFailureIsolation(t *testing.T) {
	courses := &fakeCourses{course: &model.Course{ID: uuid.New(), Code: "CS2030"}}
	videos := newFakeVideos()
	idx := &fakeIndexer{failing: map[string]error{"lecture-2": fmt.Errorf("indexing exploded")}}

	result, err := testBroker(courses, videos, newFakeTranscripts(), &fakeSectionText{}, &fakeSectionVec{}, idx, &fakeCleaner{}).
		ProcessBatch(context.Background(), "CS2030", []model.Upload{
			{Name: "lecture-1"}, {Name: "lecture-2"}, {Name: "lecture-3"},
		})

	require.NoError(t, err)
	require.Len(t, result.Videos, 3)
	assert.Equal(t, model.StatusCompleted, result.Videos[0].Status)
	assert.Equal(t, model.StatusError, result.Videos[1].Status)
	assert.False(t, result.Videos[1].TimedOut)
	assert.Equal(t, model.StatusCompleted, result.Videos[2].Status)
	assert.Equal(t, 2, result.Completed())

	require.Len(t, videos.registered, 3)
	assert.Equal(t, model.StatusCompleted, videos.statuses[videos.registered[0].ID])
	assert.Equal(t, model.StatusError, videos.statuses[videos.registered[1].ID])
	assert.Equal(t, model.StatusCompleted, videos.statuses[videos.registered[2].ID])
}

func TestProcessBatchInvalidCourse(t *testing.T) {
	courses := &fakeCourses{}
	videos := newFakeVideos()
	idx := &fakeIndexer{}

	_, err := testBroker(courses, videos, newFakeTranscripts(), &fakeSectionText{}, &fakeSectionVec{}, idx, &fakeCleaner{}).
		ProcessBatch(context.Background(), "NOPE1010", []model.Upload{{Name: "lecture-1"}})

	require.ErrorIs(t, err, model.ErrCourseNotFound)
	assert.Empty(t, videos.registered)
	assert.Zero(t, idx.uploads)
}

func TestProcessBatchTimeoutDistinguished(t *testing.T) {
	courses := &fakeCourses{course: &model.Course{ID: uuid.New(), Code: "CS2030"}}
	videos := newFakeVideos()
	idx := &fakeIndexer{timedOut: map[string]bool{"idx-lecture-1": true}}

	result, err := testBroker(courses, videos, newFakeTranscripts(), &fakeSectionText{}, &fakeSectionVec{}, idx, &fakeCleaner{}).
		ProcessBatch(context.Background(), "CS2030", []model.Upload{{Name: "lecture-1"}})

	require.NoError(t, err)
	require.Len(t, result.Videos, 1)
	assert.Equal(t, model.StatusError, result.Videos[0].Status)
	assert.True(t, result.Videos[0].TimedOut)
	assert.Equal(t, model.StatusError, videos.statuses[videos.registered[0].ID])
}
