package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiraleos/docchat/internal/api"
	"github.com/kiraleos/docchat/internal/config"
	"github.com/kiraleos/docchat/internal/core"
	"github.com/kiraleos/docchat/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for loading documents at startup
	loadDirFlag := flag.String("load", "", "Load .txt/.md files from this directory as documents at startup")
	flag.Parse()

	// Initialize chat history store
	historyStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer historyStore.Close()

	// Initialize the in-memory document store with the configured chunker
	docStore := store.NewDocumentStore(func(text string) []string {
		return core.Chunk(text, config.AppConfig.ChunkSize, config.AppConfig.ChunkOverlap)
	})

	if *loadDirFlag != "" {
		numLoaded, err := docStore.LoadDir(*loadDirFlag)
		if err != nil {
			log.Fatalf("Document loading failed: %v", err)
		}
		log.Printf("Loaded %d documents from %s", numLoaded, *loadDirFlag)
	}

	// Initialize retriever
	retriever := core.NewRetriever(docStore, config.AppConfig.RetrieveTopK, config.AppConfig.RetrieveThreshold)

	// Pick the response composer: Gemini when an API key is configured,
	// the deterministic template composer otherwise.
	var composer core.ResponseComposer
	if config.AppConfig.GeminiAPIKey != "" {
		geminiComposer, err := core.NewGeminiComposer(config.AppConfig.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini composer: %v", err)
		}
		defer geminiComposer.Close()
		composer = geminiComposer
		log.Println("Using Gemini response composer")
	} else {
		composer = core.NewTemplateComposer()
		log.Println("GEMINI_API_KEY not set, using template response composer")
	}

	// Initialize Chat service
	chatService := core.NewChatService(historyStore, retriever, composer)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService, docStore, retriever)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Composer calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
