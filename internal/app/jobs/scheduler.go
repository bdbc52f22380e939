// Package jobs периодическое обслуживание: завершение кампаний и очистка брошенных корзин.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSpec расписание по умолчанию
const DefaultSpec = "@every 10m"

// limiterIdle после стольких минут простоя ключ лимитера удаляется
const limiterIdle = 30 * time.Minute

// Store операции репозитория, которые выполняет обслуживание
type Store interface {
	FinishExpiredCampaigns(now time.Time) (int64, error)
	PurgeStaleDrafts(before time.Time) (int64, error)
}

// Cleaner структура с устаревающими ключами (лимитер запросов)
type Cleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// Result итог одного прогона
type Result struct {
	FinishedCampaigns int64
	PurgedDrafts      int64
	LimiterKeys       int
}

type Scheduler struct {
	store    Store
	limiter  Cleaner
	draftTTL time.Duration
	spec     string
	cron     *cron.Cron
	now      func() time.Time
}

// NewScheduler limiter может быть nil
func NewScheduler(store Store, limiter Cleaner, spec string, draftTTL time.Duration) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	return &Scheduler{
		store:    store,
		limiter:  limiter,
		draftTTL: draftTTL,
		spec:     spec,
		cron:     cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start регистрирует задачу и запускает планировщик
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(); err != nil {
			logrus.WithError(err).Error("maintenance run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid maintenance spec %q: %w", s.spec, err)
	}
	s.cron.Start()
	logrus.Infof("maintenance scheduled: %s", s.spec)
	return nil
}

// Stop останавливает планировщик и ждёт текущий прогон, но не дольше ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce выполняет все задачи обслуживания
func (s *Scheduler) RunOnce() (Result, error) {
	var res Result
	now := s.now()

	finished, err := s.store.FinishExpiredCampaigns(now)
	if err != nil {
		return res, fmt.Errorf("finish expired campaigns: %w", err)
	}
	res.FinishedCampaigns = finished

	if s.draftTTL > 0 {
		purged, err := s.store.PurgeStaleDrafts(now.Add(-s.draftTTL))
		if err != nil {
			return res, fmt.Errorf("purge stale drafts: %w", err)
		}
		res.PurgedDrafts = purged
	}

	if s.limiter != nil {
		res.LimiterKeys = s.limiter.Cleanup(limiterIdle)
	}

	if res.FinishedCampaigns > 0 || res.PurgedDrafts > 0 {
		logrus.WithFields(logrus.Fields{
			"finished_campaigns": res.FinishedCampaigns,
			"purged_drafts":      res.PurgedDrafts,
			"limiter_keys":       res.LimiterKeys,
		}).Info("maintenance done")
	}
	return res, nil
}
