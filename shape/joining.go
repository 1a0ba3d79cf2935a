package shape

import "strings"

// This file applies contextual letter forms for the Arabic script.
// Arabic letters change shape with their neighbors, and the print
// renderer selects glyphs by codepoint, so the presentation-form
// codepoints are substituted directly. Hebrew needs no joining and
// passes through untouched.

// forms holds the isolated, final, initial and medial presentation
// codepoints of one letter. A zero marks a form the letter lacks.
type forms [4]rune

const (
	formIsolated = iota
	formFinal
	formInitial
	formMedial
)

func (f forms) dual() bool { return f[formInitial] != 0 }

// pick returns the form for the given neighbor joins, falling back to
// final or isolated when a letter lacks the ideal form.
func (f forms) pick(joinsPrev, joinsNext bool) rune {
	switch {
	case joinsPrev && joinsNext && f[formMedial] != 0:
		return f[formMedial]
	case joinsNext && !joinsPrev && f[formInitial] != 0:
		return f[formInitial]
	case joinsPrev && f[formFinal] != 0:
		return f[formFinal]
	default:
		return f[formIsolated]
	}
}

// arabicForms maps the base Arabic block to Forms-B presentation
// codepoints. Letters outside the map are left as they are.
var arabicForms = map[rune]forms{
	'ء': {'ﺀ', 0, 0, 0},
	'آ': {'ﺁ', 'ﺂ', 0, 0},
	'أ': {'ﺃ', 'ﺄ', 0, 0},
	'ؤ': {'ﺅ', 'ﺆ', 0, 0},
	'إ': {'ﺇ', 'ﺈ', 0, 0},
	'ئ': {'ﺉ', 'ﺊ', 'ﺋ', 'ﺌ'},
	'ا': {'ﺍ', 'ﺎ', 0, 0},
	'ب': {'ﺏ', 'ﺐ', 'ﺑ', 'ﺒ'},
	'ة': {'ﺓ', 'ﺔ', 0, 0},
	'ت': {'ﺕ', 'ﺖ', 'ﺗ', 'ﺘ'},
	'ث': {'ﺙ', 'ﺚ', 'ﺛ', 'ﺜ'},
	'ج': {'ﺝ', 'ﺞ', 'ﺟ', 'ﺠ'},
	'ح': {'ﺡ', 'ﺢ', 'ﺣ', 'ﺤ'},
	'خ': {'ﺥ', 'ﺦ', 'ﺧ', 'ﺨ'},
	'د': {'ﺩ', 'ﺪ', 0, 0},
	'ذ': {'ﺫ', 'ﺬ', 0, 0},
	'ر': {'ﺭ', 'ﺮ', 0, 0},
	'ز': {'ﺯ', 'ﺰ', 0, 0},
	'س': {'ﺱ', 'ﺲ', 'ﺳ', 'ﺴ'},
	'ش': {'ﺵ', 'ﺶ', 'ﺷ', 'ﺸ'},
	'ص': {'ﺹ', 'ﺺ', 'ﺻ', 'ﺼ'},
	'ض': {'ﺽ', 'ﺾ', 'ﺿ', 'ﻀ'},
	'ط': {'ﻁ', 'ﻂ', 'ﻃ', 'ﻄ'},
	'ظ': {'ﻅ', 'ﻆ', 'ﻇ', 'ﻈ'},
	'ع': {'ﻉ', 'ﻊ', 'ﻋ', 'ﻌ'},
	'غ': {'ﻍ', 'ﻎ', 'ﻏ', 'ﻐ'},
	'ـ': {'ـ', 'ـ', 'ـ', 'ـ'}, // tatweel joins both sides
	'ف': {'ﻑ', 'ﻒ', 'ﻓ', 'ﻔ'},
	'ق': {'ﻕ', 'ﻖ', 'ﻗ', 'ﻘ'},
	'ك': {'ﻙ', 'ﻚ', 'ﻛ', 'ﻜ'},
	'ل': {'ﻝ', 'ﻞ', 'ﻟ', 'ﻠ'},
	'م': {'ﻡ', 'ﻢ', 'ﻣ', 'ﻤ'},
	'ن': {'ﻥ', 'ﻦ', 'ﻧ', 'ﻨ'},
	'ه': {'ﻩ', 'ﻪ', 'ﻫ', 'ﻬ'},
	'و': {'ﻭ', 'ﻮ', 0, 0},
	'ى': {'ﻯ', 'ﻰ', 0, 0},
	'ي': {'ﻱ', 'ﻲ', 'ﻳ', 'ﻴ'},
}

// lamAlef maps the alef variants that ligate with a preceding lam to the
// isolated and final ligature forms.
var lamAlef = map[rune][2]rune{
	'آ': {'ﻵ', 'ﻶ'},
	'أ': {'ﻷ', 'ﻸ'},
	'إ': {'ﻹ', 'ﻺ'},
	'ا': {'ﻻ', 'ﻼ'},
}

const lam = 'ل'

// isTransparent reports whether a rune is a combining mark that neither
// breaks nor causes joining.
func isTransparent(r rune) bool {
	switch {
	case r >= 0x0610 && r <= 0x061A:
		return true
	case r >= 0x064B && r <= 0x065F:
		return true
	case r == 0x0670:
		return true
	case r >= 0x06D6 && r <= 0x06ED:
		return true
	}
	return false
}

func isArabicBlock(r rune) bool { return r >= 0x0600 && r <= 0x06FF }

// Join substitutes contextual presentation forms for Arabic letters,
// including the lam-alef ligatures. Operates on logical order; callers
// reverse for display afterwards.
func Join(s string) string {
	if !strings.ContainsFunc(s, isArabicBlock) {
		return s
	}
	rs := []rune(s)
	out := make([]rune, 0, len(rs))
	prevDual := false
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if isTransparent(r) {
			out = append(out, r)
			continue
		}
		f, ok := arabicForms[r]
		if !ok {
			out = append(out, r)
			prevDual = false
			continue
		}
		if r == lam && i+1 < len(rs) {
			if lig, ok := lamAlef[rs[i+1]]; ok {
				if prevDual {
					out = append(out, lig[1])
				} else {
					out = append(out, lig[0])
				}
				prevDual = false
				i++
				continue
			}
		}
		joinsNext := f.dual() && joinableAfter(rs, i)
		out = append(out, f.pick(prevDual, joinsNext))
		prevDual = f.dual()
	}
	return string(out)
}

// joinableAfter reports whether the next non-transparent rune after
// position i is an Arabic letter that accepts a join from its left.
// Hamza has no final form and never joins.
func joinableAfter(rs []rune, i int) bool {
	for j := i + 1; j < len(rs); j++ {
		if isTransparent(rs[j]) {
			continue
		}
		f, ok := arabicForms[rs[j]]
		return ok && f[formFinal] != 0
	}
	return false
}
