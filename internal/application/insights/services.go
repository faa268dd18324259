package insights

import (
	"context"

	"github.com/google/uuid"

	app "github.com/bryanwahyu/datalens/internal/application"
	"github.com/bryanwahyu/datalens/internal/application/datasets"
	"github.com/bryanwahyu/datalens/internal/domain/ai"
	"github.com/bryanwahyu/datalens/internal/domain/dataset"
	"github.com/bryanwahyu/datalens/internal/domain/insight"
	"github.com/bryanwahyu/datalens/internal/infra/ai/prompt"
)

// Service answers natural-language questions about a dataset. When no
// model client is configured the local keyword planner answers instead,
// so the endpoint works without an API key.
type Service struct {
	Repo     insight.Repository
	Datasets *datasets.Service
	Client   ai.Client // nil berarti pakai planner lokal
	Clock    app.Clock
}

type AskCommand struct {
	TenantID  string
	DatasetID string
	Question  string
}

// Ask profile dataset → interpretasi pertanyaan → simpan hasil.
// Quota error dari model diteruskan apa adanya supaya caller bisa
// balas 429.
func (s *Service) Ask(ctx context.Context, cmd AskCommand) (*insight.Insight, error) {
	d, rows, err := s.Datasets.LoadRows(ctx, cmd.TenantID, dataset.DatasetID(cmd.DatasetID))
	if err != nil {
		return nil, err
	}

	source := insight.SourceLocal
	var result string
	if s.Client != nil {
		result, err = s.Client.Interpret(ctx, cmd.Question, prompt.Profile(d, rows))
		if err != nil {
			return nil, err
		}
		source = insight.SourceOpenAI
	} else {
		result = prompt.PlanLocally(cmd.Question, d.Columns)
	}

	in := &insight.Insight{
		ID:        insight.InsightID(uuid.New().String()),
		TenantID:  cmd.TenantID,
		DatasetID: cmd.DatasetID,
		Question:  cmd.Question,
		Result:    result,
		Source:    source,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// History ambil insight per halaman
func (s *Service) History(ctx context.Context, tenant string, page, pageSize int) ([]*insight.Insight, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

// LatestByDataset ambil insight terakhir untuk satu dataset
func (s *Service) LatestByDataset(ctx context.Context, tenant, datasetID string) (*insight.Insight, error) {
	return s.Repo.LatestByDataset(ctx, tenant, datasetID)
}
