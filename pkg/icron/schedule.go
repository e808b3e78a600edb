package icron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

type TriggerInfo struct {
	Expression string        `json:"expression"`
	Next       time.Time     `json:"next"`
	Until      time.Duration `json:"until"`
}

// GetTriggerInfo parses a standard 5-field cron expression (descriptors
// like @hourly allowed) and reports the next trigger after refTime.
func GetTriggerInfo(cronExpr string, refTime time.Time) (*TriggerInfo, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour |
		cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	next := schedule.Next(refTime)
	return &TriggerInfo{
		Expression: cronExpr,
		Next:       next,
		Until:      next.Sub(refTime),
	}, nil
}
