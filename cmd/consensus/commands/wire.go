package commands

import (
	"time"

	"github.com/wonny/consensus/internal/admission"
	"github.com/wonny/consensus/internal/analysis"
	"github.com/wonny/consensus/internal/contracts"
	"github.com/wonny/consensus/internal/snapshot"
	"github.com/wonny/consensus/internal/source"
	"github.com/wonny/consensus/internal/source/naver"
	"github.com/wonny/consensus/internal/source/pykrx"
	"github.com/wonny/consensus/internal/source/quote"
	"github.com/wonny/consensus/internal/strategy"
	"github.com/wonny/consensus/pkg/config"
	"github.com/wonny/consensus/pkg/httputil"
	"github.com/wonny/consensus/pkg/logger"
	redisclient "github.com/wonny/consensus/pkg/redis"
)

// buildService wires the full pipeline: adapters → resolver → assembler →
// strategies → facade. The worker is returned alongside the service for
// surfaces that call it directly (peer search). The cleanup closes shared
// resources.
// ⭐ SSOT: 의존성 조립은 이 함수에서만
func buildService(cfg *config.Config, log *logger.Logger) (*analysis.Service, *pykrx.Worker, func(), error) {
	httpClient := httputil.New(log)

	worker := pykrx.NewWorker(cfg.Worker, log)
	naverClient := naver.NewClient(httpClient, log).
		WithBaseURLs(cfg.Naver.BaseURL, cfg.Naver.ChartURL)
	quoteClient := quote.NewClient(httpClient, log).
		WithBaseURL(cfg.Quote.BaseURL)

	// Fallback priority per field group: the subprocess worker first, then
	// the lighter REST quote, then scraping.
	chains := source.Chains{
		Market: []source.Adapter[contracts.MarketData]{
			pykrx.NewMarketAdapter(worker),
			quote.NewMarketAdapter(quoteClient),
			naver.NewMarketAdapter(naverClient),
		},
		Financial: []source.Adapter[contracts.FinancialData]{
			pykrx.NewFinancialAdapter(worker),
			naver.NewFinancialAdapter(naverClient),
		},
		Technical: []source.Adapter[contracts.TechnicalData]{
			pykrx.NewTechnicalAdapter(worker),
			naver.NewTechnicalAdapter(naverClient),
		},
		Flow: []source.Adapter[contracts.FlowData]{
			pykrx.NewFlowAdapter(worker),
			naver.NewFlowAdapter(naverClient),
		},
	}

	resolver := source.NewResolver(chains, cfg.SourceTimeout, log)
	assembler := snapshot.NewAssembler(resolver, log)
	registry := strategy.NewRegistry(log)

	admit, cleanup, err := buildAdmission(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	return analysis.NewService(assembler, registry, admit, log), worker, cleanup, nil
}

// buildAdmission picks the admission backend: the shared Redis counter when
// enabled, an in-process limiter otherwise.
func buildAdmission(cfg *config.Config, log *logger.Logger) (contracts.AdmissionFunc, func(), error) {
	if !cfg.Redis.Enabled {
		return admission.NewLocal(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
			func() {}, nil
	}

	client, err := redisclient.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}

	limiter := redisclient.NewRateLimiter(client, "consensus")
	admit := admission.NewRedis(limiter, "analyze",
		cfg.RateLimit.RequestsPerMinute, time.Minute)

	log.Info("Using Redis-backed rate limiting")
	return admit, func() { client.Close() }, nil
}
