// Package jobs holds the scheduled background work: payment reminders,
// trial expiry and stale photo cleanup. Schedules are fixed; jobs run under
// a shared cron scheduler and isolate their own failures so a bad record
// never stops a run or the process.
package jobs
