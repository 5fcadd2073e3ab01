package hierdoc

import (
	"strings"
	"unicode/utf8"
)

// Outline grammar constants.
const (
	// IndentStep is the number of spaces in one indent level.
	IndentStep = 4
	// MaxWordsInName limits names derived from free text.
	MaxWordsInName = 5
	// MaxHeaderLevel is the number of outline levels rendered as Markdown
	// headers.
	MaxHeaderLevel = 2

	// Content markers keep their line; comment markers drop it.
	Markers        = "*-+>&i="
	CommentMarkers = "0x"

	maxNamePrefix = 20
)

// NameDividers separate a leading name from the rest of a line, in
// priority order.
var NameDividers = []string{":", " - "}

var indentUnit = strings.Repeat(" ", IndentStep)

// Paragraph is one outline line: its text without indent, and the indent
// level it was found at.
type Paragraph struct {
	Text  string
	Level int
}

// NewParagraph returns a paragraph at level. If adjust is set, leading
// indent steps are moved from text into the level.
func NewParagraph(text string, level int, adjust bool) Paragraph {
	p := Paragraph{Text: text, Level: level}
	if adjust {
		p.adjust()
	}
	return p
}

func (p *Paragraph) adjust() {
	for hasIndent(p.Text) {
		p.Level++
		p.Text = p.Text[IndentStep:]
	}
}

func hasIndent(text string) bool {
	return len(text) > IndentStep && strings.HasPrefix(text, indentUnit)
}

// Line reconstructs the indented source line.
func (p Paragraph) Line() string {
	return strings.Repeat(indentUnit, p.Level) + p.Text
}

// SetLine replaces the text and re-derives the level from its indent.
func (p *Paragraph) SetLine(text string) {
	p.Text = text
	p.adjust()
}

// HasIndent reports whether the text still starts with an indent step.
func (p Paragraph) HasIndent() bool { return hasIndent(p.Text) }

// Mark returns the line's marker, or 0 when there is none.
func (p Paragraph) Mark() rune {
	if len(p.Text) > 2 && p.Text[1] == ' ' {
		c := p.Text[0]
		if strings.IndexByte(Markers, c) >= 0 || strings.IndexByte(CommentMarkers, c) >= 0 {
			return rune(c)
		}
	}
	return 0
}

// IsCommented reports whether the line carries a comment marker.
func (p Paragraph) IsCommented() bool {
	m := p.Mark()
	return m != 0 && strings.ContainsRune(CommentMarkers, m)
}

// TextWithoutMark returns the text after the marker.
func (p Paragraph) TextWithoutMark() string {
	if p.Mark() != 0 {
		return p.Text[2:]
	}
	return p.Text
}

// tagSpan returns the raw tag and the offset of the text following it.
func (p Paragraph) tagSpan() (string, int, bool) {
	text := p.TextWithoutMark() + " "
	if !strings.HasPrefix(text, "[") {
		return "", 0, false
	}
	end := strings.Index(text, "] ")
	if end <= 2 {
		return "", 0, false
	}
	return text[1:end], end + 2, true
}

// Tag returns the bracketed tag, lower-cased with spaces as underscores.
func (p Paragraph) Tag() string {
	raw, _, ok := p.tagSpan()
	if !ok {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(raw), " ", "_")
}

// TextWithoutTag returns the text after the marker and the tag.
func (p Paragraph) TextWithoutTag() string {
	text := p.TextWithoutMark()
	_, off, ok := p.tagSpan()
	if !ok {
		return text
	}
	if off >= len(text) {
		return ""
	}
	return text[off:]
}

// HasName returns the raw name prefix of the line: the parenthesized form,
// or a short prefix before a divider.
func (p Paragraph) HasName() (string, bool) {
	name, _, ok := splitName(p.TextWithoutTag())
	return name, ok
}

// splitName cuts text into a raw name and the rest of the line.
func splitName(text string) (name, rest string, ok bool) {
	if strings.HasPrefix(text, "(") {
		if i := strings.Index(text, ")"); i > 2 {
			return text[1:i], text[i+1:], true
		}
	}
	prefix, cut := text, 0
	for _, d := range NameDividers {
		if before, _, found := strings.Cut(prefix, d); found {
			prefix, cut = before, len(d)
		}
		if utf8.RuneCountInString(prefix) < maxNamePrefix {
			if prefix == "" {
				return "", text, false
			}
			return prefix, text[len(prefix)+cut:], true
		}
	}
	return "", text, false
}

// Name derives the node name of the line.
func (p Paragraph) Name() string {
	text := p.TextWithoutTag()
	if strings.HasPrefix(text, "(") {
		if i := strings.Index(text, ")"); i > 2 {
			text = text[1:i]
		}
	}
	for _, d := range NameDividers {
		text, _, _ = strings.Cut(text, d)
	}
	text = strings.TrimSpace(text)
	if words := strings.Split(text, " "); len(words) > MaxWordsInName {
		text = strings.Join(words[:MaxWordsInName], " ")
	}
	text = strings.ReplaceAll(strings.ToLower(text), " ", "_")
	return Transliterate(text)
}

// Content returns the text after the marker, the tag and the name.
func (p Paragraph) Content() string {
	text := p.TextWithoutTag()
	if _, rest, ok := splitName(text); ok {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}

// Markdown renders the line as a header when its level is below
// [MaxHeaderLevel], and as indented text otherwise.
func (p Paragraph) Markdown() string {
	if p.Level+1 <= MaxHeaderLevel {
		return strings.Repeat("#", p.Level+1) + " " + p.TextWithoutMark()
	}
	return strings.Repeat(indentUnit, p.Level-MaxHeaderLevel) + p.Text
}

// =============================================================================
// Transliteration
// =============================================================================

var translit = func() map[rune]rune {
	from := []rune("абвгдеёжзийклмнопрстуфхцчшщъыьэюяАБВГДЕЁЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯ")
	to := []rune("abvgdeejzijklmnoprstufhzcss_y_euaABVGDEEJZIJKLMNOPRSTUFHZCSS_Y_EUA")
	m := make(map[rune]rune, len(from))
	for i, r := range from {
		m[r] = to[i]
	}
	return m
}()

// Transliterate replaces Cyrillic letters with Latin ones, one rune each.
func Transliterate(text string) string {
	return strings.Map(func(r rune) rune {
		if t, ok := translit[r]; ok {
			return t
		}
		return r
	}, text)
}
