//go:build !ebiten

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"strings"
	"testing"
)

func TestRunStub_ReturnsHelpfulError(t *testing.T) {
	err := Run(RunOptions{})
	if err == nil {
		t.Fatal("expected error from Run() in non-ebiten build, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "window not built") || !strings.Contains(msg, "-tags ebiten") {
		t.Fatalf("unexpected error message: %q", msg)
	}
}

func TestRunOptionsDefaults(t *testing.T) {
	var o RunOptions
	o.defaults()
	if o.ScreenWidth != 400 || o.ScreenHeight != 240 || o.Scale != 2 || o.Title == "" || o.Background.IsZero() {
		t.Fatalf("unexpected defaults %+v", o)
	}
}
