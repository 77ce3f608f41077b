package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/campushub/coursechat/broker"
	"github.com/campushub/coursechat/chat"
	"github.com/campushub/coursechat/fusion"
	"github.com/campushub/coursechat/handler"
	"github.com/campushub/coursechat/indexer"
	"github.com/campushub/coursechat/storage"
	"github.com/campushub/coursechat/transcript"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sashabaranov/go-openai"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	postgres, err := storage.NewPostgres(storage.PostgresInfo{
		Host:     getParam("POSTGRES_HOST", "localhost"),
		Port:     getParam("POSTGRES_PORT", "5432"),
		User:     getParam("POSTGRES_USER", "coursechat"),
		Password: getParam("POSTGRES_PASSWORD", "coursechat"),
		Database: getParam("POSTGRES_DB", "coursechat"),
	})
	if err != nil {
		logger.Error("unable to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	courseRepo := storage.NewPostgresCourseRepository(postgres)
	videoRepo := storage.NewPostgresVideoRepository(postgres)
	transcriptRepo := storage.NewPostgresTranscriptRepository(postgres)
	sectionRepo := storage.NewPostgresSectionRepository(postgres)

	weaviate, err := storage.NewWeaviate(
		getParam("WEAVIATE_SCHEME", "https"),
		getParam("WEAVIATE_HOST", "localhost:8080"),
		getParam("WEAVIATE_APIKEY", ""),
	)
	if err != nil {
		logger.Error("unable to connect to weaviate", slog.String("error", err.Error()))
		os.Exit(1)
	}

	openAIClient := openai.NewClient(getParam("OPENAI_API_KEY", ""))

	indexTimeout, err := time.ParseDuration(getParam("INDEXER_TIMEOUT", "30m"))
	if err != nil {
		logger.Error("unable to parse indexer timeout", slog.String("error", err.Error()))
		os.Exit(1)
	}
	indexerClient := indexer.NewClient(indexer.Config{
		Endpoint:    getParam("INDEXER_ENDPOINT", "https://api.videoindexer.ai"),
		Location:    getParam("INDEXER_LOCATION", "trial"),
		AccountID:   getParam("INDEXER_ACCOUNT_ID", ""),
		AccessToken: getParam("INDEXER_ACCESS_TOKEN", ""),
		Timeout:     indexTimeout,
	}, logger)

	cleaner := transcript.NewOpenAICleaner(openAIClient, transcript.NewChunker(transcript.DefaultMaxChunkLength))
	embedder := chat.NewOpenAIEmbedder(openAIClient)

	brk := broker.NewBroker(courseRepo, videoRepo, transcriptRepo, sectionRepo, weaviate,
		indexerClient, cleaner, embedder, logger)

	chatService := chat.NewService(videoRepo, weaviate, sectionRepo,
		embedder, chat.NewOpenAIAnswerer(openAIClient), fusion.NewEngine(fusion.DefaultK), logger)

	port, err := strconv.Atoi(getParam("API_PORT", "8080"))
	if err != nil {
		logger.Error("invalid port", slog.String("error", err.Error()))
		os.Exit(1)
	}
	server := handler.NewServer(courseRepo, videoRepo, brk, chatService, logger)
	go http.ListenAndServe(fmt.Sprintf(":%d", port), server)
	logger.Info("http server started", slog.Int("port", port))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt)
	<-done

	logger.Info("service stopped")
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}
