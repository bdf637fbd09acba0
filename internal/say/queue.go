/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package say

import "log/slog"

type entry struct {
	text string
	opts map[string]any
}

// Queue plays several dialogues one after another on a Service.
type Queue struct {
	svc     *Service
	pending []entry
	started int
}

func NewQueue(svc *Service) *Queue { return &Queue{svc: svc} }

// Enqueue adds a dialogue. Options are checked when it starts.
func (q *Queue) Enqueue(text string, opts map[string]any) {
	q.pending = append(q.pending, entry{text: text, opts: opts})
}

// Len returns the number of dialogues that have not started yet.
func (q *Queue) Len() int { return len(q.pending) }

// Started returns how many dialogues the queue has opened.
func (q *Queue) Started() int { return q.started }

// Idle reports whether nothing is showing and nothing is waiting.
func (q *Queue) Idle() bool { return !q.svc.Active() && len(q.pending) == 0 }

// Update opens the next dialogue when the service is idle and then advances
// the service by one frame. Entries whose options are rejected are dropped.
func (q *Queue) Update() {
	for !q.svc.Active() && len(q.pending) > 0 {
		e := q.pending[0]
		q.pending = q.pending[1:]
		if err := q.svc.Say(e.text, e.opts); err != nil {
			q.svc.log.Warn("drop queued dialogue", slog.Any("err", err))
			continue
		}
		q.started++
	}
	q.svc.Update()
}
