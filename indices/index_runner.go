package indices

import (
	cron "github.com/robfig/cron/v3"
)

// StartCron schedules a nightly full re-index as a safety net for
// events lost while the service was down.
func StartCron() {
	crontab := cron.New(cron.WithSeconds())
	crontab.AddFunc("0 0 23 * * ?", IndicesFullSync)
	crontab.Start()
}
