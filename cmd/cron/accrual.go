package main

import (
	"context"
	"log"
	"time"

	"neftit/internal/datastore"
	"neftit/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// fallback when the config table carries no schedule; five past
// midnight UTC.
const defaultAccrualSchedule = "5 0 * * *"

type AccrualJob struct {
	container *do.Injector
}

func NewAccrualJob(container *do.Injector) *AccrualJob {
	return &AccrualJob{container}
}

func (j *AccrualJob) Start(cronRunner *cron.Cron) {
	schedule := defaultAccrualSchedule

	db, err := do.Invoke[*bun.DB](j.container)
	if err != nil {
		log.Println(err)
		return
	}

	timeline, err := datastore.GetConfigByKey(context.Background(), db, services.CONFIG_CRONJOB_TIME_ACCRUAL)
	if err == nil && timeline != nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err = cronRunner.AddFunc(schedule, j.runScheduledTask)
	log.Println("Accrual cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
}

func (j *AccrualJob) runScheduledTask() {
	ctx := context.Background()
	log.Println("Start daily reward accrual ...")

	serviceStaking, err := do.Invoke[*services.ServiceStaking](j.container)
	if err != nil {
		log.Println(err)
		return
	}

	if err := serviceStaking.AccrueDay(ctx, time.Now()); err != nil {
		log.Println("accrual run failed:", err)
		return
	}

	log.Println("Daily reward accrual done")
}
