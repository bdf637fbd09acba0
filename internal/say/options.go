/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package say

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"dialoguebox/internal/dialogue"
	"dialoguebox/internal/textlayout"
)

var (
	// ErrUnknownOption is returned when an option name is not registered.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidValue is returned when a value has the wrong type or range.
	ErrInvalidValue = errors.New("invalid option value")
)

// Option names understood by Set, Setup and Say.
const (
	KeyWidth              = "width"
	KeyHeight             = "height"
	KeyX                  = "x"
	KeyY                  = "y"
	KeyPadding            = "padding"
	KeyFont               = "font"
	KeyFontFamily         = "font-family"
	KeySkin               = "nineslice"
	KeyPromptIcon         = "prompt-icon"
	KeySpeed              = "speed"
	KeyOnOpen             = "onOpen"
	KeyOnPageComplete     = "onPageComplete"
	KeyOnDialogueComplete = "onDialogueComplete"
	KeyOnClose            = "onClose"
)

// skinAlias is accepted in place of KeySkin.
const skinAlias = "skin"

// accessor reads and writes one option. get reports false when the option
// has no value, in which case an override is undone by set(nil).
type accessor struct {
	get func() (any, bool)
	set func(v any) error
}

// fontChoice is the restorable font state: a single font or a family.
type fontChoice struct {
	font   *textlayout.Font
	family *textlayout.Family
}

func (s *Service) registerOptions() {
	s.options = map[string]accessor{
		KeyWidth:   s.number(s.box.Width, s.box.SetWidth, 1),
		KeyHeight:  s.number(s.box.Height, s.box.SetHeight, 1),
		KeyX:       s.number(func() float64 { return s.x }, func(v float64) { s.x = v }, math.Inf(-1)),
		KeyY:       s.number(func() float64 { return s.y }, func(v float64) { s.y = v }, math.Inf(-1)),
		KeyPadding: s.number(s.box.Padding, s.box.SetPadding, 0),
		KeySpeed:   s.number(s.box.Speed, s.box.SetSpeed, 0),
		KeyFont: {
			get: s.fontChoice,
			set: s.setFont,
		},
		KeyFontFamily: {
			get: s.fontChoice,
			set: s.setFont,
		},
		KeySkin: {
			get: func() (any, bool) { return s.box.NineSlice(), s.box.NineSlice() != nil },
			set: func(v any) error {
				switch sk := v.(type) {
				case nil:
					s.box.SetNineSlice(nil)
				case *dialogue.NineSlice:
					s.box.SetNineSlice(sk)
				default:
					return fmt.Errorf("%w: %s expects a nine-slice, got %T", ErrInvalidValue, KeySkin, v)
				}
				return nil
			},
		},
		KeyPromptIcon: {
			get: func() (any, bool) { return s.box.PromptIcon(), s.box.PromptIcon() != nil },
			set: func(v any) error {
				switch img := v.(type) {
				case nil:
					s.box.SetPromptIcon(nil)
				case image.Image:
					s.box.SetPromptIcon(img)
				default:
					return fmt.Errorf("%w: %s expects an image, got %T", ErrInvalidValue, KeyPromptIcon, v)
				}
				return nil
			},
		},
		KeyOnOpen:             s.hook(KeyOnOpen, &s.onOpen),
		KeyOnPageComplete:     s.hook(KeyOnPageComplete, &s.onPageComplete),
		KeyOnDialogueComplete: s.hook(KeyOnDialogueComplete, &s.onDialogueComplete),
		KeyOnClose:            s.hook(KeyOnClose, &s.onClose),
	}
}

// Keys lists the registered option names in sorted order.
func (s *Service) Keys() []string {
	keys := make([]string, 0, len(s.options))
	for k := range s.options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func canonicalKey(key string) string {
	if key == skinAlias {
		return KeySkin
	}
	return key
}

func (s *Service) number(get func() float64, set func(float64), lowest float64) accessor {
	return accessor{
		get: func() (any, bool) { return get(), true },
		set: func(v any) error {
			f, err := toFloat(v)
			if err != nil {
				return err
			}
			if f < lowest {
				return fmt.Errorf("%w: %v is below %v", ErrInvalidValue, f, lowest)
			}
			set(f)
			return nil
		},
	}
}

func (s *Service) hook(name string, slot *func()) accessor {
	return accessor{
		get: func() (any, bool) { return *slot, *slot != nil },
		set: func(v any) error {
			switch fn := v.(type) {
			case nil:
				*slot = nil
			case func():
				*slot = fn
			default:
				return fmt.Errorf("%w: %s expects a function, got %T", ErrInvalidValue, name, v)
			}
			return nil
		},
	}
}

func (s *Service) fontChoice() (any, bool) {
	return fontChoice{font: s.box.Font(), family: s.box.Family()}, true
}

func (s *Service) setFont(v any) error {
	switch f := v.(type) {
	case fontChoice:
		if f.family != nil {
			s.box.SetFontFamily(f.family)
		} else {
			s.box.SetFont(f.font)
		}
	case *textlayout.Font:
		s.box.SetFont(f)
	case *textlayout.Family:
		if f == nil {
			return fmt.Errorf("%w: nil font family", ErrInvalidValue)
		}
		s.box.SetFontFamily(f)
	case string:
		fam, err := s.resolveFamily(f)
		if err != nil {
			return err
		}
		s.box.SetFontFamily(fam)
	default:
		return fmt.Errorf("%w: font expects a font, family or family name, got %T", ErrInvalidValue, v)
	}
	return nil
}

// resolveFamily looks up a family name, optionally suffixed with a style as
// in "go:italic" to set the whole box in that variant.
func (s *Service) resolveFamily(spec string) (*textlayout.Family, error) {
	name, styleName, _ := strings.Cut(spec, ":")
	style, ok := textlayout.ParseStyle(styleName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown font style %q", ErrInvalidValue, styleName)
	}
	var fam *textlayout.Family
	switch {
	case name == "" || name == "basic":
		fam = textlayout.BasicFamily().WithLeading(s.leading)
	case s.fonts == nil:
		return nil, fmt.Errorf("%w: no font library for family %q", ErrInvalidValue, name)
	default:
		var err error
		if fam, err = s.fonts.Family(name, s.fontSize, s.dpi, s.leading); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	}
	if style != textlayout.Normal {
		fam = fam.Styled(style)
	}
	return fam, nil
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, fmt.Errorf("%w: expected a number, got %T", ErrInvalidValue, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v is not finite", ErrInvalidValue, f)
	}
	return f, nil
}
