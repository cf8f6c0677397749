package tasks

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

// NextCronRun returns the next activation time of a standard cron expression.
func NextCronRun(expr string) (time.Time, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(time.Now()), nil
}

// CronSchedule returns an option that defers the task to the expression's
// next activation. Falls back to one hour out when the expression does not
// parse.
func CronSchedule(expr string) asynq.Option {
	next, err := NextCronRun(expr)
	if err != nil {
		next = time.Now().Add(1 * time.Hour)
	}
	return asynq.ProcessAt(next)
}
