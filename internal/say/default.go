/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package say

import "sync"

var (
	defaultService *Service
	defaultOnce    sync.Once
)

// Default returns the process-wide service, creating it with a default
// configuration on first use.
func Default() *Service {
	defaultOnce.Do(func() {
		if defaultService == nil {
			defaultService = New(Config{})
		}
	})
	return defaultService
}

// SetDefault replaces the process-wide service.
func SetDefault(svc *Service) {
	defaultOnce.Do(func() {})
	defaultService = svc
}

// Say calls Say on the default service.
func Say(text string, opts map[string]any) error { return Default().Say(text, opts) }

// Set calls Set on the default service.
func Set(key string, value any) error { return Default().Set(key, value) }

// Setup calls Setup on the default service.
func Setup(cfg map[string]any) error { return Default().Setup(cfg) }
