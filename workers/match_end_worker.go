// workers/match_end_worker.go
package workers

import (
	"time"

	"league-stats-engine/cache"
	"league-stats-engine/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MatchEndWorker periodically flips ONGOING matches whose scheduled end
// time has elapsed to RESULT_UPLOADED and drops the cached aggregates
// for the affected leagues. The check is idempotent: a match already
// flipped is simply not selected again.
type MatchEndWorker struct {
	db       *gorm.DB
	cache    *cache.Cache
	interval time.Duration
	log      *logrus.Logger
}

func NewMatchEndWorker(db *gorm.DB, ca *cache.Cache, log *logrus.Logger) *MatchEndWorker {
	if log == nil {
		log = logrus.New()
	}
	return &MatchEndWorker{
		db:       db,
		cache:    ca,
		interval: 1 * time.Minute,
		log:      log,
	}
}

// Start schedules the scan. Returns the scheduler so the caller can shut
// it down.
func (w *MatchEndWorker) Start() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.scan),
	)
	if err != nil {
		return nil, err
	}
	sched.Start()
	return sched, nil
}

func (w *MatchEndWorker) scan() {
	var matches []models.Match
	now := time.Now()
	err := w.db.
		Where("status = ?", models.MatchOngoing).
		Find(&matches).Error
	if err != nil {
		w.log.WithError(err).Error("match-end scan failed")
		return
	}

	leagues := make(map[string]bool)
	for _, m := range matches {
		if now.Before(m.EndTime()) {
			continue
		}
		m.Status = models.MatchResultUploaded
		if err := w.db.Save(&m).Error; err != nil {
			w.log.WithError(err).WithField("match", m.ID).Error("failed to mark match ended")
			continue
		}
		leagues[m.LeagueID] = true
		w.log.WithFields(logrus.Fields{"match": m.ID, "league": m.LeagueID}).Info("match ended, awaiting result")
	}

	for leagueID := range leagues {
		w.cache.ClearPattern("league:" + leagueID)
	}
}
