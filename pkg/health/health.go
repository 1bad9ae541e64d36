// Package health probes infrastructure dependencies for the status command.
package health

import (
	"context"
	"time"
)

// Checker is satisfied by any infrastructure dependency that exposes a Ping
// method (database.Database qualifies).
type Checker interface {
	Ping(ctx context.Context) error
}

// Result is the outcome of one probe.
type Result struct {
	Name    string
	OK      bool
	Latency time.Duration
	Err     error
}

// Report aggregates probe results. Status is "ok" or "degraded".
type Report struct {
	Status  string
	Results []Result
}

// Check probes every checker in order, each bounded by timeout.
func Check(ctx context.Context, timeout time.Duration, checks map[string]Checker, order ...string) Report {
	rep := Report{Status: "ok"}
	for _, name := range order {
		c, ok := checks[name]
		if !ok {
			continue
		}
		pctx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := c.Ping(pctx)
		cancel()

		rep.Results = append(rep.Results, Result{
			Name:    name,
			OK:      err == nil,
			Latency: time.Since(start),
			Err:     err,
		})
		if err != nil {
			rep.Status = "degraded"
		}
	}
	return rep
}
