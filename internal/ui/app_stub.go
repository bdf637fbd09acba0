//go:build !ebiten

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import "fmt"

// Run opens the dialogue window. Builds without the ebiten tag stay headless
// and only report how to get a window.
func Run(_ RunOptions) error {
	return fmt.Errorf("window not built in this binary. Rebuild with: go run -tags ebiten ./cmd/dialoguebox play <file>")
}
