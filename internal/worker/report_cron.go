package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReportSource renders the production report to a file.
type ReportSource interface {
	SaveReportPDF(ctx context.Context) (string, error)
}

// ReportJob renders the production suggestion PDF and mails it.
type ReportJob struct {
	source     ReportSource
	dispatcher *Dispatcher
	recipients []string
	timeout    time.Duration
}

func NewReportJob(source ReportSource, dispatcher *Dispatcher, recipients []string) *ReportJob {
	return &ReportJob{source: source, dispatcher: dispatcher, recipients: recipients, timeout: 2 * time.Minute}
}

// Run generates one report. It satisfies cron.Job.
func (j *ReportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if err := j.RunContext(ctx); err != nil {
		log.Error().Err(err).Msg("report_cron: run failed")
	}
}

func (j *ReportJob) RunContext(ctx context.Context) error {
	path, err := j.source.SaveReportPDF(ctx)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	log.Info().Str("path", path).Msg("report_cron: report generated")

	if len(j.recipients) == 0 {
		return nil
	}
	return j.dispatcher.EnqueueEmail(ctx, EmailJob{
		To:             j.recipients,
		Subject:        "Production suggestions " + time.Now().Format("2006-01-02"),
		Body:           "Attached is the current production suggestion report.",
		AttachmentPath: path,
	})
}

// StartReportCron schedules job on spec (standard 5-field cron syntax).
// An empty spec disables scheduling and returns a nil scheduler.
func StartReportCron(spec string, job cron.Job) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})))
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("report_cron: invalid schedule %q: %w", spec, err)
	}
	c.Start()
	log.Info().Str("schedule", spec).Msg("report_cron: started")
	return c, nil
}

// cronLogger routes robfig/cron logging to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
