package finetune

import (
	"context"
	"fmt"
	"os"

	openaisdk "github.com/openai/openai-go"
)

// SubmitExitTuning uploads the JSONL training file and starts a fine-tuning
// job for the exit classifier. It returns the job ID; progress is tracked on
// the provider's dashboard, not here.
func SubmitExitTuning(ctx context.Context, client *openaisdk.Client, jsonlPath, baseModel string) (string, error) {
	f, err := os.Open(jsonlPath)
	if err != nil {
		return "", fmt.Errorf("open training file: %w", err)
	}
	defer f.Close()

	file, err := client.Files.New(ctx, openaisdk.FileNewParams{
		File:    f,
		Purpose: openaisdk.FilePurposeFineTune,
	})
	if err != nil {
		return "", fmt.Errorf("upload training file: %w", err)
	}

	job, err := client.FineTuning.Jobs.New(ctx, openaisdk.FineTuningJobNewParams{
		Model:        openaisdk.FineTuningJobNewParamsModel(baseModel),
		TrainingFile: file.ID,
	})
	if err != nil {
		return "", fmt.Errorf("create fine-tuning job: %w", err)
	}
	return job.ID, nil
}
