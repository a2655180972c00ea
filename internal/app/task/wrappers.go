/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-05-12 01:27:22
 * @LastEditTime: 2026-05-22 22:02:37
 * @LastEditors: memorymap
 */
package task

import (
	"log/slog"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type JobWrapper = cron.JobWrapper

// NewLoggingWrapper logs the start and end of every run under a fresh execution ID.
func NewLoggingWrapper(logger *slog.Logger) JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			jobLogger := logger.With(
				slog.String("job_name", getJobName(j)),
				slog.String("execution_id", uuid.New().String()),
			)

			startTime := time.Now()
			jobLogger.Debug("Job execution started")
			j.Run()
			jobLogger.Debug("Job execution finished", slog.Duration("duration", time.Since(startTime)))
		})
	}
}

// NewPanicRecoveryWrapper keeps a panicking job from taking the process down.
func NewPanicRecoveryWrapper(logger *slog.Logger) JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Job panicked",
						slog.String("job_name", getJobName(j)),
						slog.Any("panic", r),
						slog.String("stack_trace", string(debug.Stack())),
					)
				}
			}()
			j.Run()
		})
	}
}

// getJobName prefers the job's Name method and falls back to its type name.
func getJobName(j cron.Job) string {
	if named, ok := j.(interface{ Name() string }); ok {
		return named.Name()
	}
	jobType := reflect.TypeOf(j)
	if jobType.Kind() == reflect.Ptr {
		return jobType.Elem().String()
	}
	return jobType.String()
}
