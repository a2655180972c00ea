/*
 * @Description: 정기 작업 정의
 * @Author: memorymap
 * @Date: 2026-03-29 11:21:54
 * @LastEditTime: 2026-04-13 03:09:12
 * @LastEditors: memorymap
 */
package task

import (
	"log"
	"time"
)

// Job is a cron.Job with a readable name for the logging wrapper.
type Job interface {
	Run()
	Name() string
}

// SessionSweeper is satisfied by *upload.Manager.
type SessionSweeper interface {
	Sweep() int
	PurgeOrphanPreviews(olderThan time.Duration) (int, error)
}

// SessionSweepJob closes upload sessions that have been idle past their TTL.
type SessionSweepJob struct {
	sweeper SessionSweeper
}

func NewSessionSweepJob(sweeper SessionSweeper) *SessionSweepJob {
	return &SessionSweepJob{sweeper: sweeper}
}

func (j *SessionSweepJob) Run() {
	if n := j.sweeper.Sweep(); n > 0 {
		log.Printf("[Task] '%s' closed %d idle upload sessions", j.Name(), n)
	}
}

func (j *SessionSweepJob) Name() string {
	return "SessionSweepJob"
}

// PreviewCleanupJob deletes preview files left on disk by sessions that no longer exist.
type PreviewCleanupJob struct {
	sweeper   SessionSweeper
	olderThan time.Duration
}

func NewPreviewCleanupJob(sweeper SessionSweeper, olderThan time.Duration) *PreviewCleanupJob {
	return &PreviewCleanupJob{sweeper: sweeper, olderThan: olderThan}
}

func (j *PreviewCleanupJob) Run() {
	n, err := j.sweeper.PurgeOrphanPreviews(j.olderThan)
	if err != nil {
		log.Printf("[Task] '%s' failed: %v", j.Name(), err)
		return
	}
	if n > 0 {
		log.Printf("[Task] '%s' removed %d orphan previews", j.Name(), n)
	}
}

func (j *PreviewCleanupJob) Name() string {
	return "PreviewCleanupJob"
}
