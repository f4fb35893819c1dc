// Package main is the SchemeBot terminal client: one conversation on
// stdin/stdout.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"schemebot/internal/config"
	"schemebot/internal/services/catalog"
	"schemebot/internal/services/conversation"
	"schemebot/internal/services/extract"
	"schemebot/internal/services/oracle"
	"schemebot/internal/services/recommend"
	"schemebot/internal/utils"
)

func main() {
	catalogPath := flag.String("catalog", "", "path to a schemes.json catalog (default: bundled)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}

	// The terminal owns stdout; keep routine logs quiet unless asked.
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	if err := utils.InitLogger(level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()
	logger := utils.Logger

	ctx := context.Background()

	var source catalog.Source = catalog.SeedSource{}
	if cfg.CatalogPath != "" {
		source = catalog.FileSource{Path: cfg.CatalogPath}
	}
	cat, err := catalog.Load(ctx, source, logger)
	if err != nil {
		logger.Fatal("Catalog failed to load", zap.Error(err))
	}

	var completer oracle.Completer
	if cfg.OracleEnabled() {
		gemini, err := oracle.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Gemini unavailable, extraction will use patterns only", zap.Error(err))
		} else {
			completer = gemini
		}
	}

	session := conversation.NewSession("", conversation.Deps{
		Extractor:   extract.New(completer, logger),
		Recommender: recommend.NewService(cat, logger),
		Config:      cfg,
		Logger:      logger,
	})

	fmt.Printf("SchemeBot (%d schemes loaded)\n", cat.Len())
	fmt.Println("Type your answers and press ENTER. Say restart to start over, exit to leave.")

	reply := session.Reset()
	printReply(reply.Text)

	interactive := stdinIsTerminal()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if len(reply.Choices) > 0 && interactive {
			if answer, ok := runSelect(reply.Choices); ok {
				reply = session.Handle(ctx, answer)
				printReply(reply.Text)
				continue
			}
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if exitRequested(message) {
			printReply("Goodbye! Come back any time you want to look for schemes.")
			return
		}

		reply = session.Handle(ctx, message)
		printReply(reply.Text)
	}
}

func printReply(text string) {
	fmt.Println()
	fmt.Println("Bot: " + text)
	fmt.Println()
}

// runSelect renders a closed question as an arrow-key picker and
// answers it by number, the same way a typed answer would.
func runSelect(options []string) (string, bool) {
	prompt := promptui.Select{
		Label: "Pick an answer",
		Items: options,
		Size:  10,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		// Ctrl+C inside the picker falls back to typed input.
		return "", false
	}
	return strconv.Itoa(idx + 1), true
}

func exitRequested(message string) bool {
	switch strings.ToLower(strings.Trim(message, " .!")) {
	case "exit", "quit", "bye", "goodbye", "q":
		return true
	}
	return false
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
