/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package server

import (
	"context"
	"log"
	"time"
)

// refreshHour is the local hour of the daily refresh.
const refreshHour = 9

// Scheduler fires one refresh per day at 09:00 in the configured
// timezone.
type Scheduler struct {
	server   *Server
	location *time.Location
}

func NewScheduler(s *Server, location *time.Location) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{server: s, location: location}
}

// Run blocks until ctx is cancelled. Each tick runs in the calling
// goroutine; a slow refresh delays the next computation, never stacks
// it.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := nextRunAfter(time.Now().In(s.location))
		log.Printf("next scheduled refresh at %s", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.server.RunScheduledRefresh(ctx)
		}
	}
}

// nextRunAfter returns the next 09:00 strictly after now, in now's
// location.
func nextRunAfter(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), refreshHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
