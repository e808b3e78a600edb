// Package janitor periodically removes stale files from the upload and
// scratch directories. Pipelines delete their own artifacts; the janitor
// catches uploads nobody transcribed and leftovers from crashed runs.
package janitor

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/icron"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/log"
)

type Janitor struct {
	cronExpr string
	ttl      time.Duration
	dirs     []string
	cron     *cron.Cron
}

func New(cronExpr string, ttl time.Duration, dirs ...string) *Janitor {
	return &Janitor{
		cronExpr: cronExpr,
		ttl:      ttl,
		dirs:     dirs,
		cron:     cron.New(),
	}
}

// Start schedules sweeps; the first sweep runs at the next cron trigger.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.cronExpr, func() {
		removed := j.Sweep()
		if removed > 0 {
			log.Info("Janitor removed %d stale files", removed)
		}
	}); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}

// Sweep removes regular files older than the TTL and returns how many were
// deleted. Subdirectories are left in place.
func (j *Janitor) Sweep() int {
	cutoff := time.Now().Add(-j.ttl)
	removed := 0

	for _, dir := range j.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn("Janitor cannot read %s: %v", dir, err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Warn("Janitor failed to remove %s: %v", path, err)
				continue
			}
			removed++
		}
	}
	return removed
}

// TriggerInfo reports the next scheduled sweep.
func (j *Janitor) TriggerInfo() (*icron.TriggerInfo, error) {
	return icron.GetTriggerInfo(j.cronExpr, time.Now())
}
