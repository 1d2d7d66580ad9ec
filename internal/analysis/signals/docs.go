package signals

import (
	"context"

	"github.com/mikematt33/gitgrade/internal/analysis"
	"github.com/mikematt33/gitgrade/pkg/models"
)

func fetchLanguages(ctx context.Context, client analysis.Client, target analysis.TargetRepository, s *models.RepositorySignals) error {
	langs, err := client.ListLanguages(ctx, target.Owner, target.Name)
	if err != nil {
		return err
	}
	s.LanguageByteCounts = langs
	return nil
}

func fetchReadme(ctx context.Context, client analysis.Client, target analysis.TargetRepository, s *models.RepositorySignals) error {
	text, err := client.GetReadme(ctx, target.Owner, target.Name)
	if err != nil {
		return err
	}
	s.HasReadme = true
	s.ReadmeText = text
	return nil
}

func fetchWorkflows(ctx context.Context, client analysis.Client, target analysis.TargetRepository, s *models.RepositorySignals) error {
	workflows, err := client.ListWorkflows(ctx, target.Owner, target.Name)
	if err != nil {
		return err
	}
	s.HasContinuousIntegration = workflows.GetTotalCount() > 0
	return nil
}
