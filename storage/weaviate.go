package storage

import (
	"context"
	"fmt"
	"net/http"

	"github.com/campushub/coursechat/fusion"
	"github.com/campushub/coursechat/model"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const className = "Section"

// Weaviate is the semantic side of the hybrid section index. Vectors come
// from the embedding provider, so the class has no vectorizer of its own.
type Weaviate struct {
	client *weaviate.Client
}

func NewWeaviate(scheme, host, apiKey string) (*Weaviate, error) {
	config := weaviate.Config{
		Scheme: scheme,
		Host:   host,
	}
	if apiKey != "" {
		config.AuthConfig = auth.ApiKey{Value: apiKey}
	}

	c, err := weaviate.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &Weaviate{client: c}, nil
}

func (w *Weaviate) ResetSchema() error {

	// delete old
	if err := w.client.Schema().ClassDeleter().WithClassName(className).Do(context.Background()); err != nil {
		// Weaviate will return a 400 if the class does not exist, so this is allowed, only return an error if it's not a 400
		if status, ok := err.(*fault.WeaviateClientError); ok && status.StatusCode != http.StatusBadRequest {
			return err
		}
	}

	// create new
	classObj := &models.Class{
		Class:      className,
		Vectorizer: "none",
		Properties: []*models.Property{
			{Name: "videoId", DataType: []string{"text"}},
			{Name: "content", DataType: []string{"text"}},
			{Name: "startSeconds", DataType: []string{"number"}},
			{Name: "endSeconds", DataType: []string{"number"}},
		},
	}

	return w.client.Schema().ClassCreator().WithClass(classObj).Do(context.Background())
}

func (w *Weaviate) SaveAll(ctx context.Context, videoID uuid.UUID, sections []model.PromptSection, vectors [][]float32) error {
	if len(sections) != len(vectors) {
		return fmt.Errorf("got %d sections but %d vectors", len(sections), len(vectors))
	}

	for i, section := range sections {
		_, err := w.client.Data().
			Creator().
			WithClassName(className).
			WithID(uuid.New().String()).
			WithProperties(map[string]any{
				"videoId":      videoID.String(),
				"content":      section.Content,
				"startSeconds": section.Start,
				"endSeconds":   section.End,
			}).
			WithVector(vectors[i]).
			Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to save section vector: %w", err)
		}
	}

	return nil
}

func (w *Weaviate) Search(ctx context.Context, videoID uuid.UUID, vector []float32, limit int) ([]fusion.Candidate, error) {
	resp, err := w.client.GraphQL().Get().
		WithClassName(className).
		WithFields(
			graphql.Field{Name: "content"},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{
				{Name: "id"},
				{Name: "certainty"},
			}},
		).
		WithNearVector(w.client.GraphQL().NearVectorArgBuilder().WithVector(vector)).
		WithWhere(filters.Where().
			WithPath([]string{"videoId"}).
			WithOperator(filters.Equal).
			WithValueText(videoID.String())).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search section vectors: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("failed to search section vectors: %s", resp.Errors[0].Message)
	}

	return parseCandidates(resp)
}

func parseCandidates(resp *models.GraphQLResponse) ([]fusion.Candidate, error) {
	get, ok := resp.Data["Get"].(map[string]any)
	if !ok {
		return []fusion.Candidate{}, nil
	}
	hits, ok := get[className].([]any)
	if !ok {
		return []fusion.Candidate{}, nil
	}

	candidates := []fusion.Candidate{}
	for _, hit := range hits {
		fields, ok := hit.(map[string]any)
		if !ok {
			continue
		}
		candidate := fusion.Candidate{}
		if content, ok := fields["content"].(string); ok {
			candidate.Text = content
		}
		if additional, ok := fields["_additional"].(map[string]any); ok {
			if id, ok := additional["id"].(string); ok {
				candidate.ID = id
			}
			if certainty, ok := additional["certainty"].(float64); ok {
				candidate.Score = certainty
			}
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}
