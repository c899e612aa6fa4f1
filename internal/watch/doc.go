// Package watch reruns a job on a cron schedule until its context is cancelled.
package watch
