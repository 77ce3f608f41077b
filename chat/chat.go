// Package chat answers questions about an indexed video. It embeds the
// question, runs semantic and lexical retrieval over the video's sections,
// fuses both lists by reciprocal rank and prompts the answer model with the
// top passages.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campushub/coursechat/fusion"
	"github.com/campushub/coursechat/model"
	"github.com/campushub/coursechat/storage"
)

const (
	defaultTopN           = 5
	defaultRetrievalLimit = 20
)

// Embedder computes the query vector for semantic retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// AnswerGenerator produces the final answer from the fused context
// passages, the question and the conversation so far.
type AnswerGenerator interface {
	Generate(ctx context.Context, passages []string, question string, history []Exchange) (string, error)
}

// Exchange is one prior question/answer pair of the conversation.
type Exchange struct {
	UserInput         string `json:"userInput"`
	AssistantResponse string `json:"assistantResponse"`
}

// Answer carries the generated response together with the passages it was
// grounded on.
type Answer struct {
	Text     string   `json:"text"`
	Passages []string `json:"passages"`
}

type Service struct {
	videos    storage.VideoRepository
	semantic  storage.SectionVecRepository
	lexical   storage.SectionTextRepository
	embedder  Embedder
	generator AnswerGenerator
	engine    *fusion.Engine
	topN      int
	logger    *slog.Logger
}

func NewService(videos storage.VideoRepository, semantic storage.SectionVecRepository, lexical storage.SectionTextRepository,
	embedder Embedder, generator AnswerGenerator, engine *fusion.Engine, logger *slog.Logger) *Service {
	return &Service{
		videos:    videos,
		semantic:  semantic,
		lexical:   lexical,
		embedder:  embedder,
		generator: generator,
		engine:    engine,
		topN:      defaultTopN,
		logger:    logger,
	}
}

// Answer resolves the video by its indexer id, retrieves and fuses context
// and generates the response. Only completed videos can be questioned.
func (s *Service) Answer(ctx context.Context, indexerID, question string, history []Exchange) (Answer, error) {
	video, err := s.videos.FindByIndexerID(ctx, indexerID)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to resolve video: %w", err)
	}
	if video.Status != model.StatusCompleted {
		return Answer{}, fmt.Errorf("video %s is not ready for questions", indexerID)
	}

	passages, err := s.retrieve(ctx, video, question)
	if err != nil {
		return Answer{}, err
	}

	text, err := s.generator.Generate(ctx, passages, question, history)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	return Answer{Text: text, Passages: passages}, nil
}

func (s *Service) retrieve(ctx context.Context, video *model.Video, question string) ([]string, error) {
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	semantic, err := s.semantic.Search(ctx, video.ID, vector, defaultRetrievalLimit)
	if err != nil {
		return nil, fmt.Errorf("failed semantic retrieval: %w", err)
	}
	lexical, err := s.lexical.Search(ctx, video.ID, question, defaultRetrievalLimit)
	if err != nil {
		return nil, fmt.Errorf("failed lexical retrieval: %w", err)
	}

	fused := s.engine.Fuse(
		fusion.List{Candidates: semantic},
		fusion.List{Candidates: lexical},
	)
	if len(fused) > s.topN {
		fused = fused[:s.topN]
	}

	s.logger.Info("retrieved context",
		slog.String("video", video.ID.String()),
		slog.Int("semantic", len(semantic)), slog.Int("lexical", len(lexical)), slog.Int("fused", len(fused)))

	passages := make([]string, 0, len(fused))
	for _, candidate := range fused {
		passages = append(passages, candidate.Text)
	}

	return passages, nil
}
