package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	advisorx "github.com/techflow/ai-recruiter/agent/agents/advisor"
	orchestratorx "github.com/techflow/ai-recruiter/agent/agents/orchestrator"
	llmx "github.com/techflow/ai-recruiter/agent/llm"
	schedulex "github.com/techflow/ai-recruiter/agent/schedule"
	statex "github.com/techflow/ai-recruiter/agent/state"
	configx "github.com/techflow/ai-recruiter/pkg/config"
	_ "github.com/techflow/ai-recruiter/pkg/logger/autoload"
	openrouterx "github.com/techflow/ai-recruiter/pkg/openrouter"
	qstashx "github.com/techflow/ai-recruiter/pkg/qstash"
	vectorx "github.com/techflow/ai-recruiter/pkg/vector"
)

type AppConfig struct {
	Position         string  `envconfig:"POSITION" split_words:"true" default:"Python Developer"`
	ExitThreshold    float64 `envconfig:"EXIT_THRESHOLD" split_words:"true" default:"0.70"`
	InviteWebhookURL string  `envconfig:"INVITE_WEBHOOK_URL" split_words:"true" required:"true"`
}

const greeting = "Hi! I'm Alex from TechFlow Solutions. Thanks for your interest in our Python Developer position. Can you tell me about your experience with Python?"

func main() {
	initDB := flag.Bool("init-db", false, "recreate and seed the scheduling tables, then exit")

	appCfg := configx.MustNew[AppConfig]("RECRUITER")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	vectorCfg := configx.MustNew[vectorx.Config]("UPSTASH_VECTOR")
	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	dbCfg := configx.MustNew[schedulex.Config]("POSTGRES")

	ctx := context.Background()

	slotStore, err := schedulex.NewPostgresSlotStore(*dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect slot store")
	}
	defer slotStore.Close()

	if *initDB {
		if err := slotStore.ResetSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("reset schema")
		}
		if err := slotStore.Seed(ctx, appCfg.Position); err != nil {
			log.Fatal().Err(err).Msg("seed slots")
		}
		fmt.Println("Scheduling tables created and seeded.")
		return
	}

	sessionStore, err := statex.NewUpstashRedisStore(*redisCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect session store")
	}

	index, err := vectorx.NewIndex(*vectorCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect vector index")
	}

	openaiClient := openrouterx.NewClient(openrouterx.Config{
		BaseURL: llmCfg.BaseURL,
		APIKey:  llmCfg.APIKey,
		Timeout: llmCfg.Timeout,
	})
	embedder := advisorx.NewOpenAIEmbedder(openaiClient, llmCfg.EmbeddingModel)
	retriever := advisorx.NewVectorRetriever(index)

	notifier := schedulex.NewQStashNotifier(qstashx.MustNew(*qstashCfg), appCfg.InviteWebhookURL)
	scheduler := schedulex.NewAdvisor(slotStore, notifier, appCfg.Position)

	registry, err := advisorx.NewRegistry(ctx, *llmCfg, embedder, retriever, scheduler)
	if err != nil {
		log.Fatal().Err(err).Msg("build advisor registry")
	}

	bot, err := orchestratorx.New(sessionStore, registry, orchestratorx.Config{
		Position:                appCfg.Position,
		ExitConfidenceThreshold: appCfg.ExitThreshold,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	runConsoleChat(ctx, bot)
}

func runConsoleChat(ctx context.Context, bot *orchestratorx.Orchestrator) {
	divider := strings.Repeat("=", 60)
	fmt.Println(divider)
	fmt.Println("       TechFlow Solutions - AI Recruitment Assistant")
	fmt.Println(divider)
	fmt.Println()
	fmt.Println("Type 'quit' or 'exit' to end the conversation.")
	fmt.Println("Type 'reset' to start a new conversation.")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Println()

	sessionID := uuid.NewString()
	fmt.Printf("Recruiter: %s\n\n", greeting)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Println("\nThank you for chatting! Goodbye!")
			return
		case "reset":
			sessionID = uuid.NewString()
			fmt.Println("\n--- New Conversation ---")
			fmt.Printf("\nRecruiter: %s\n\n", greeting)
			continue
		}

		result, err := bot.HandleMessage(ctx, sessionID, input)
		if err != nil {
			log.Error().Err(err).Msg("handle message")
			fmt.Println("\nSomething went wrong. Please try again.")
			continue
		}

		fmt.Printf("\nRecruiter: %s\n", result.Reply)
		fmt.Printf("[Route: %s]\n\n", result.Route)

		if result.Phase == statex.PhaseEnded {
			fmt.Println(strings.Repeat("-", 60))
			fmt.Println("Conversation ended. Type 'reset' to start a new one.")
			fmt.Println(strings.Repeat("-", 60))
		}
	}
}
