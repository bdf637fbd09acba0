/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package reveal

import "testing"

func TestTick_HalfSpeedCompletesPage(t *testing.T) {
	e := New(0.5)
	e.SetPages([]int{5})
	if e.Count() != 1 || e.LineComplete() {
		t.Fatalf("unexpected initial state: count=%v line=%v", e.Count(), e.LineComplete())
	}
	var events []Event
	for i := 0; i < 10; i++ {
		if ev := e.Tick(); ev != 0 {
			events = append(events, ev)
		}
	}
	if e.Count() != 5 || !e.LineComplete() || !e.DialogueComplete() {
		t.Fatalf("after 10 ticks: count=%v line=%v dialogue=%v", e.Count(), e.LineComplete(), e.DialogueComplete())
	}
	if len(events) != 1 || !events[0].Has(PageComplete) || !events[0].Has(DialogueComplete) {
		t.Fatalf("expected a single combined completion event, got %v", events)
	}
}

func TestTick_MonotonicAndResetOnPageChange(t *testing.T) {
	e := New(0.7)
	e.SetPages([]int{4, 6})
	prev := e.Count()
	for i := 0; i < 20; i++ {
		e.Tick()
		if e.Count() < prev {
			t.Fatalf("count decreased: %v -> %v", prev, e.Count())
		}
		if e.DialogueComplete() {
			t.Fatalf("dialogue cannot complete on the first of two pages")
		}
		prev = e.Count()
	}
	if !e.LineComplete() || e.Visible() != 4 {
		t.Fatalf("expected first page complete, visible=%d", e.Visible())
	}
	if !e.NextPage() {
		t.Fatalf("NextPage should advance")
	}
	if e.Page() != 1 || e.Count() != 1 || e.LineComplete() || e.DialogueComplete() {
		t.Fatalf("unexpected state after NextPage: page=%d count=%v", e.Page(), e.Count())
	}
	if e.NextPage() {
		t.Fatalf("NextPage on the last page must be a no-op")
	}
	for i := 0; i < 20; i++ {
		e.Tick()
		if e.DialogueComplete() && !e.LineComplete() {
			t.Fatalf("dialogue complete implies line complete")
		}
	}
	if !e.DialogueComplete() {
		t.Fatalf("expected dialogue complete on last page")
	}
}

func TestFinishLine_ReportsOnceAndTickStaysQuiet(t *testing.T) {
	e := New(1)
	e.SetPages([]int{10, 3})
	ev := e.FinishLine()
	if !ev.Has(PageComplete) || ev.Has(DialogueComplete) {
		t.Fatalf("unexpected finish event %v", ev)
	}
	if e.Visible() != 10 {
		t.Fatalf("visible = %d, want 10", e.Visible())
	}
	if ev := e.Tick(); ev != 0 {
		t.Fatalf("tick after finish should not report again, got %v", ev)
	}
	e.NextPage()
	if ev := e.FinishLine(); !ev.Has(DialogueComplete) {
		t.Fatalf("finishing the last page should complete the dialogue, got %v", ev)
	}
}

func TestPreviousPageAndRestart(t *testing.T) {
	e := New(2)
	e.SetPages([]int{3, 3, 3})
	if e.PreviousPage() {
		t.Fatalf("PreviousPage on first page must be a no-op")
	}
	e.NextPage()
	e.NextPage()
	e.FinishLine()
	if !e.PreviousPage() || e.Page() != 1 || e.Count() != 1 || e.LineComplete() {
		t.Fatalf("unexpected state after PreviousPage: page=%d count=%v", e.Page(), e.Count())
	}
	e.Restart()
	if e.Page() != 0 || e.Count() != 1 {
		t.Fatalf("restart should return to the first character of page 0")
	}
}

func TestSingleCharacterDialogueStartsComplete(t *testing.T) {
	e := New(1)
	e.SetPages([]int{1})
	if !e.LineComplete() || !e.DialogueComplete() {
		t.Fatalf("one character dialogue should be complete immediately")
	}
	if ev := e.Tick(); ev != 0 {
		t.Fatalf("no transition expected, got %v", ev)
	}
}

func TestEmptyPageSetIsInert(t *testing.T) {
	e := New(1)
	if ev := e.Tick(); ev != 0 {
		t.Fatalf("tick on empty set reported %v", ev)
	}
	if ev := e.FinishLine(); ev != 0 {
		t.Fatalf("finish on empty set reported %v", ev)
	}
	if e.NextPage() || e.PreviousPage() {
		t.Fatalf("navigation on empty set must be a no-op")
	}
	if e.Pages() != 0 || e.Visible() != 0 {
		t.Fatalf("unexpected state for empty set")
	}
}

func TestSetSpeedClampsNegative(t *testing.T) {
	e := New(-3)
	if e.Speed() != 0 {
		t.Fatalf("speed = %v, want 0", e.Speed())
	}
	e.SetSpeed(1.5)
	if e.Speed() != 1.5 {
		t.Fatalf("speed = %v, want 1.5", e.Speed())
	}
}

func TestOneCharacterFirstPageCompletesOnTick(t *testing.T) {
	e := New(1)
	e.SetPages([]int{1, 2})
	if e.LineComplete() || e.DialogueComplete() {
		t.Fatalf("flags must start false when more pages follow")
	}
	if ev := e.Tick(); ev != PageComplete {
		t.Fatalf("first tick = %v, want PageComplete", ev)
	}
	if ev := e.Tick(); ev != 0 {
		t.Fatalf("transition reported twice: %v", ev)
	}
	if !e.NextPage() {
		t.Fatalf("expected a second page")
	}
	if ev := e.Tick(); ev != PageComplete|DialogueComplete {
		t.Fatalf("last page tick = %v", ev)
	}
}
