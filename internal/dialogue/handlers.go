/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dialogue

import "dialoguebox/internal/input"

// Handlers returns the input handlers the box installs while enabled.
func (b *Box) Handlers() input.Handlers {
	return input.Handlers{
		ConfirmDown:   b.PressConfirm,
		ConfirmUp:     b.ReleaseConfirm,
		SecondaryDown: b.PressSecondary,
		SecondaryUp:   b.ReleaseSecondary,
	}
}

// PressConfirm speeds the reveal up, turns the page once it is complete and
// closes the box after the last page. A box without pages closes at once.
func (b *Box) PressConfirm() {
	b.engine.SetSpeed(b.speed * b.fastFactor)
	switch {
	case len(b.pages) == 0 || b.engine.DialogueComplete():
		b.Disable()
	case b.engine.LineComplete():
		b.NextPage()
	}
}

// ReleaseConfirm restores the default speed.
func (b *Box) ReleaseConfirm() { b.engine.SetSpeed(b.speed) }

// PressSecondary skips ahead: it finishes the current page, or turns to the
// next page and finishes that one too, or closes the box after the last page.
func (b *Box) PressSecondary() {
	switch {
	case len(b.pages) == 0:
		b.Disable()
	case !b.engine.LineComplete():
		b.FinishLine()
	case b.engine.DialogueComplete():
		b.Disable()
	default:
		if b.NextPage() {
			b.FinishLine()
		}
	}
}

// ReleaseSecondary restores the default speed.
func (b *Box) ReleaseSecondary() { b.engine.SetSpeed(b.speed) }
