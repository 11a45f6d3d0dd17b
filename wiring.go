package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-ticket-agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
	"github.com/tanpawarit/chative-ticket-agent/agent/inventory"
	"github.com/tanpawarit/chative-ticket-agent/agent/llm"
	"github.com/tanpawarit/chative-ticket-agent/agent/memory"
	"github.com/tanpawarit/chative-ticket-agent/agent/prompt"
	statex "github.com/tanpawarit/chative-ticket-agent/agent/state"
	configx "github.com/tanpawarit/chative-ticket-agent/pkg/config"
)

const (
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendUpstash  = "upstash"
	backendPostgres = "postgres"
	backendWeaviate = "weaviate"
)

// buildDeps wires the configured backends. cleanup closes whatever was opened.
func buildDeps(ctx context.Context, cfg orchestrator.Config) (orchestrator.Deps, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn().Err(err).Msg("close backend")
			}
		}
	}
	fail := func(err error) (orchestrator.Deps, func(), error) {
		cleanup()
		return orchestrator.Deps{}, func() {}, err
	}

	llmCfg := configx.MustNew[llm.Config]("LLM")
	if err := llmCfg.Validate(); err != nil {
		return fail(err)
	}

	genCfg := llmCfg.GenerationConfig()
	genCfg.Stop = cfg.Stop
	chatModel, err := genCfg.New(ctx)
	if err != nil {
		return fail(fmt.Errorf("create generation model: %w", err))
	}
	generator, err := llm.NewChatGenerator(chatModel)
	if err != nil {
		return fail(err)
	}

	taggerCfg := llmCfg.TaggerConfig()
	taggerModel, err := taggerCfg.New(ctx)
	if err != nil {
		return fail(fmt.Errorf("create tagger model: %w", err))
	}
	tagger, err := llm.NewChatTagger(ctx, taggerModel)
	if err != nil {
		return fail(err)
	}

	store, err := buildStore(cfg, &closers)
	if err != nil {
		return fail(err)
	}
	inv, err := buildInventory(ctx, cfg, &closers)
	if err != nil {
		return fail(err)
	}
	mem, err := buildMemory(ctx, cfg, *llmCfg)
	if err != nil {
		return fail(err)
	}

	bank, err := prompt.LoadBank()
	if err != nil {
		return fail(err)
	}

	return orchestrator.Deps{
		Store:     store,
		Inventory: inv,
		Memory:    mem,
		Generator: generator,
		Tagger:    tagger,
		Bank:      bank,
	}, cleanup, nil
}

func buildStore(cfg orchestrator.Config, closers *[]func() error) (statex.Store, error) {
	switch cfg.SessionBackend {
	case backendMemory, "":
		return statex.NewMemoryStore(), nil
	case backendRedis:
		redisCfg := configx.MustNew[statex.RedisConfig]("SESSION_REDIS")
		client := statex.NewRedisClient(*redisCfg)
		*closers = append(*closers, client.Close)
		return statex.NewRedisStore(client, statex.WithTTL(cfg.SessionTTL))
	case backendUpstash:
		upstashCfg := configx.MustNew[statex.UpstashRedisConfig]("SESSION_UPSTASH")
		return statex.NewUpstashRedisStore(*upstashCfg, statex.WithTTL(cfg.SessionTTL))
	default:
		return nil, fmt.Errorf("%w: unknown session backend %q", contractx.ErrValidation, cfg.SessionBackend)
	}
}

func buildInventory(ctx context.Context, cfg orchestrator.Config, closers *[]func() error) (contractx.Inventory, error) {
	switch cfg.InventoryBackend {
	case backendMemory, "":
		inv := inventory.NewMemoryInventory()
		rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		if _, err := inventory.Fill(ctx, inv, rng, nil, cfg.SeedFlights); err != nil {
			return nil, fmt.Errorf("seed inventory: %w", err)
		}
		return inv, nil
	case backendPostgres:
		pgCfg := configx.MustNew[inventory.PostgresConfig]("INVENTORY")
		db := inventory.OpenPostgres(*pgCfg)
		*closers = append(*closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return inventory.NewPostgresInventory(db), nil
	default:
		return nil, fmt.Errorf("%w: unknown inventory backend %q", contractx.ErrValidation, cfg.InventoryBackend)
	}
}

func buildMemory(ctx context.Context, cfg orchestrator.Config, llmCfg llm.Config) (contractx.MemoryGateway, error) {
	embedder, err := memory.NewOpenAIEmbedder(llmCfg.EmbeddingClient(), llmCfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	var index memory.Index
	switch cfg.MemoryBackend {
	case backendMemory, "":
		index = memory.NewLocalIndex()
	case backendWeaviate:
		wvCfg := configx.MustNew[memory.WeaviateConfig]("MEMORY")
		client, err := memory.NewWeaviateClient(*wvCfg)
		if err != nil {
			return nil, err
		}
		wv, err := memory.NewWeaviateIndex(client, wvCfg.ClassName)
		if err != nil {
			return nil, err
		}
		if err := wv.EnsureClass(ctx); err != nil {
			return nil, err
		}
		index = wv
	default:
		return nil, fmt.Errorf("%w: unknown memory backend %q", contractx.ErrValidation, cfg.MemoryBackend)
	}
	return memory.NewGateway(embedder, index)
}
