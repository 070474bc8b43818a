// cmd/worker-manager/backends.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"match-workers/internal/cache"
	awsclients "match-workers/internal/common/aws"
	"match-workers/internal/common/config"
	"match-workers/internal/common/database"
	"match-workers/internal/common/logger"
	"match-workers/internal/enhance"
	"match-workers/internal/matching/driver"
	"match-workers/internal/matching/scorer"
	"match-workers/internal/notify"
	"match-workers/internal/search"
	"match-workers/internal/store"
)

// backends holds every connection the workers share. Optional backends are
// nil when not configured.
type backends struct {
	db       *sql.DB
	closeDB  func() error
	store    *store.Store
	redis    *database.RedisClient
	index    *search.CandidateIndex
	enhancer enhance.Enhancer
	notifier *notify.Notifier
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func connectBackends(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger) (*backends, error) {
	b := &backends{}

	// --- Match store ---
	dialect, ok := store.DialectFor(cfg.Matching.Store)
	if !ok {
		return nil, fmt.Errorf("unsupported matching.store %q", cfg.Matching.Store)
	}
	switch dialect {
	case store.SQLite:
		lite, err := database.NewSQLite(cfg.Database.SQLite)
		if err != nil {
			return nil, err
		}
		b.db, b.closeDB = lite.DB, lite.Close
	default:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.ConnectPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}
		b.db, b.closeDB = pg.DB, pg.Close
	}

	b.store = store.New(b.db, dialect)
	if err := b.store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate match store: %w", err)
	}
	zapLog.Info("match store ready", zap.String("dialect", dialect.Name))

	// --- Redis: result cache and pair guard ---
	if cfg.Database.Redis.Address != "" {
		err := retryWithBackoff(func() error {
			var err error
			b.redis, err = database.ConnectRedis(ctx, cfg.Database.Redis)
			return err
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			return nil, err
		}
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Info("Redis not configured; result cache and cross-process guard disabled")
	}

	// --- Elasticsearch candidate index ---
	if cfg.Database.Elasticsearch.GetURL() != "" {
		var es *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			es, err = database.ConnectElasticsearch(ctx, cfg.Database.Elasticsearch)
			return err
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return nil, err
		}
		b.index = search.NewCandidateIndex(es.Client, cfg.Database.Elasticsearch.CandidateIndex)
		if err := b.index.EnsureIndex(ctx); err != nil {
			return nil, err
		}
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Database.Elasticsearch.CandidateIndex))
	} else if cfg.Matching.CandidateSource == "elasticsearch" {
		return nil, fmt.Errorf("matching.candidate_source is elasticsearch but no elasticsearch address is configured")
	}

	// --- Recommendation enhancer ---
	if g := cfg.Integrations.Gemini; g.Enabled {
		gem, err := enhance.NewGemini(ctx, g.APIKey, g.Model, config.GetDuration(g.Timeout), log)
		if err != nil {
			return nil, err
		}
		b.enhancer = gem
		zapLog.Info("recommendation enhancer enabled", zap.String("model", gem.Model()))
	}

	// --- Digest notifications ---
	awsCfg := cfg.Integrations.AWS
	if awsCfg.SES.Enabled || awsCfg.SNS.Enabled {
		sdkCfg, err := awsclients.LoadConfig(ctx, awsCfg.Region)
		if err != nil {
			return nil, err
		}
		var (
			sesClient awsclients.SESAPI
			snsClient awsclients.SNSAPI
		)
		if awsCfg.SES.Enabled {
			sesClient = awsclients.NewSESClient(sdkCfg)
		}
		if awsCfg.SNS.Enabled {
			snsClient = awsclients.NewSNSClient(sdkCfg)
		}
		b.notifier = notify.New(notify.Config{
			EmailEnabled: awsCfg.SES.Enabled,
			FromEmail:    awsCfg.SES.FromEmail,
			SMSEnabled:   awsCfg.SNS.Enabled,
			SMSSenderID:  awsCfg.SNS.DefaultSMSSenderID,
		}, sesClient, snsClient, log)
		zapLog.Info("digest notifications enabled",
			zap.Bool("email", awsCfg.SES.Enabled),
			zap.Bool("sms", awsCfg.SNS.Enabled),
		)
	}

	return b, nil
}

// newDriver maps the matching settings onto the driver and its ports.
func (b *backends) newDriver(cfg *config.Config, log logger.Logger) (*driver.Driver, error) {
	m := cfg.Matching

	scorerCfg := scorer.DefaultConfig()
	if !m.Weights.IsZero() {
		scorerCfg.Weights = scorer.Weights{
			Skill:      m.Weights.Skill,
			Experience: m.Weights.Experience,
			Location:   m.Weights.Location,
			Education:  m.Weights.Education,
			Preference: m.Weights.Preference,
		}
	}
	sc, err := scorer.New(scorerCfg)
	if err != nil {
		return nil, fmt.Errorf("matching.weights: %w", err)
	}

	deps := driver.Deps{
		Scorer:     sc,
		Store:      b.store,
		Jobs:       b.store,
		Candidates: b.store,
		Guard:      driver.NewMemoryGuard(),
		Logger:     log,
	}
	if m.CandidateSource == "elasticsearch" && b.index != nil {
		deps.Candidates = b.index
	}
	if b.redis != nil {
		host, _ := os.Hostname()
		deps.Cache = cache.NewResultCache(b.redis.Client, time.Duration(m.CacheTTLMinutes)*time.Minute)
		deps.Guard = cache.NewGuard(b.redis.Client, time.Duration(m.GuardTTLSeconds)*time.Second, fmt.Sprintf("%s:%d", host, os.Getpid()))
	}

	return driver.New(driver.Config{
		MinScore:      m.MinScore,
		MatchTTL:      time.Duration(m.MatchTTLDays) * 24 * time.Hour,
		Parallelism:   m.Parallelism,
		MaxJobsPerRun: m.MaxJobsPerRun,
		TopInTally:    driver.DefaultConfig().TopInTally,
	}, deps), nil
}

// ready pings every connected backend.
func (b *backends) ready(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("match store: %w", err)
	}
	if b.redis != nil {
		if err := b.redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (b *backends) close(zapLog *zap.Logger) {
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			zapLog.Error("error closing Redis", zap.Error(err))
		}
	}
	if b.closeDB != nil {
		if err := b.closeDB(); err != nil {
			zapLog.Error("error closing match store", zap.Error(err))
		}
	}
}
