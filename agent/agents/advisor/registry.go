package advisor

import (
	"context"
	"fmt"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
	llmx "github.com/techflow/ai-recruiter/agent/llm"
	promptx "github.com/techflow/ai-recruiter/agent/prompt"
)

type registryImpl struct {
	exit      contractx.ExitClassifier
	info      contractx.InfoAdvisor
	scheduler contractx.SchedulingAdvisor
	screener  contractx.Screener
}

func (r *registryImpl) Exit() contractx.ExitClassifier { return r.exit }

func (r *registryImpl) Info() contractx.InfoAdvisor { return r.info }

func (r *registryImpl) Scheduler() contractx.SchedulingAdvisor { return r.scheduler }

func (r *registryImpl) Screener() contractx.Screener { return r.screener }

// NewRegistry builds the LLM-backed advisors and combines them with the
// scheduling advisor, which talks to the slot store rather than a model.
func NewRegistry(
	ctx context.Context,
	cfg llmx.Config,
	embedder contractx.Embedder,
	retriever contractx.Retriever,
	scheduler contractx.SchedulingAdvisor,
) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()

	exitModelCfg := cfg.OpenRouterFor(contractx.AgentTypeExit)
	exitModel, err := exitModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create exit model: %v", contractx.ErrModelInvoke, err)
	}
	infoModelCfg := cfg.OpenRouterFor(contractx.AgentTypeInfo)
	infoModel, err := infoModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create info model: %v", contractx.ErrModelInvoke, err)
	}
	screenerModelCfg := cfg.OpenRouterFor(contractx.AgentTypeScreener)
	screenerModel, err := screenerModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create screener model: %v", contractx.ErrModelInvoke, err)
	}

	exit, err := newExitClassifier(ctx, exitModel, prompts.Exit, prompts.Farewell)
	if err != nil {
		return nil, err
	}
	info, err := newInfoAdvisor(ctx, infoModel, prompts.Info, embedder, retriever)
	if err != nil {
		return nil, err
	}
	screen, err := newScreener(ctx, screenerModel, prompts.Screener)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		exit:      exit,
		info:      info,
		scheduler: scheduler,
		screener:  screen,
	}, nil
}
