// Command app runs the SpaceX assistant as an interactive console chat.
//
// Examples:
//
//	export OPENAI_API_KEY=...
//	go run ./cmd/app
//
//	go run ./cmd/app -provider ollama -model llama3.1
//
// Set MONGO_URI to persist transcripts across restarts.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/colorstring"

	agent "github.com/Protocol-Lattice/spacex-agent"
	"github.com/Protocol-Lattice/spacex-agent/src/history"
	"github.com/Protocol-Lattice/spacex-agent/src/models"
)

var (
	flagProvider   = flag.String("provider", "openai", "LLM provider: openai|ollama|dummy")
	flagModel      = flag.String("model", "gpt-4o", "Model ID for the selected provider")
	flagSession    = flag.String("session", "default", "Session ID for transcript persistence")
	flagMaxHistory = flag.Int("max-history", 20, "Conversation window size in messages")
	flagResume     = flag.Bool("resume", false, "Restore the session transcript before chatting")
)

const observationPreview = 100

func main() {
	flag.Parse()

	// Best-effort: a missing .env just means plain environment variables.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	model, err := models.NewProvider(*flagProvider, *flagModel)
	if err != nil {
		fail(err)
	}

	var store history.Store
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		mongoStore, err := history.NewMongoStore(ctx, uri, "spacex_agent", "transcripts")
		if err != nil {
			fail(fmt.Errorf("connect history store: %w", err))
		}
		store = mongoStore
	}

	ag, err := agent.New(agent.Options{
		Model:      model,
		MaxHistory: *flagMaxHistory,
		History:    store,
		SessionID:  *flagSession,
		Events: agent.Events{
			AssistantText: func(text string) {
				fmt.Print(colorstring.Color("\n[cyan]Assistant: " + text + "[reset]\n"))
			},
			ToolCall: func(name, arguments string) {
				fmt.Print(colorstring.Color(fmt.Sprintf("\n[yellow][Tool Call] %s(%s)[reset]\n", name, arguments)))
			},
			Observation: func(content string) {
				fmt.Print(colorstring.Color(fmt.Sprintf("[green][Observation] %s...[reset]\n", truncate(content, observationPreview))))
			},
		},
	})
	if err != nil {
		fail(err)
	}
	defer func() {
		if err := ag.Close(context.Background()); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	if *flagResume {
		if err := ag.LoadHistory(ctx); err != nil {
			log.Printf("resume: %v", err)
		}
	}

	fmt.Print(colorstring.Color("[magenta]🚀 SpaceX AI Agent Initialized (Type 'quit' or 'exit' to stop)[reset]\n"))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if lower := strings.ToLower(input); lower == "quit" || lower == "exit" {
			break
		}

		if err := ag.Chat(ctx, input); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Print(colorstring.Color("\n[yellow]Interrupted by user. Exiting...[reset]\n"))
				break
			}
			fmt.Print(colorstring.Color(fmt.Sprintf("[red]An error occurred: %v[reset]\n", err)))
		}

		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("stdin: %v", err)
	}

	fmt.Print(colorstring.Color("[magenta]Goodbye! 👋[reset]\n"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
