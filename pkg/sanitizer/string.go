package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reNotSlug        = regexp.MustCompile(`[^a-z0-9]+`)
	reNotIdentifier  = regexp.MustCompile(`[^a-z0-9_]+`)
	reMultiHyphen    = regexp.MustCompile(`-+`)
	reMultiUnderline = regexp.MustCompile(`_+`)
)

// TrimAndNormalize trims s and collapses every run of whitespace to one space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		result.WriteRune(r)
		lastWasSpace = false
	}
	return result.String()
}

func lower(s string) string {
	return strings.ToLower(s)
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeNotes strips control characters but keeps line breaks.
func NormalizeNotes(notes string) string {
	notes = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, notes)
	return strings.TrimSpace(notes)
}

// NormalizeLabel lowercases and collapses whitespace: "Whiteboard  Wall" -> "whiteboard wall".
func NormalizeLabel(label string) string {
	return Pipeline{TrimAndNormalize, lower}.Apply(label)
}

func NormalizeEmail(email string) string {
	return Pipeline{strings.TrimSpace, lower}.Apply(email)
}

// NormalizeSubdomain maps "Acme Labs" to "acme-labs".
func NormalizeSubdomain(s string) string {
	return Pipeline{
		strings.TrimSpace,
		lower,
		func(s string) string { return reNotSlug.ReplaceAllString(s, "-") },
		func(s string) string { return reMultiHyphen.ReplaceAllString(s, "-") },
		func(s string) string { return strings.Trim(s, "-") },
	}.Apply(s)
}

// NormalizeIdentifier maps free text to a snake_case key, e.g. "Meeting Room" -> "meeting_room".
func NormalizeIdentifier(s string) string {
	return Pipeline{
		strings.TrimSpace,
		lower,
		func(s string) string { return reNotIdentifier.ReplaceAllString(s, "_") },
		func(s string) string { return reMultiUnderline.ReplaceAllString(s, "_") },
		func(s string) string { return strings.Trim(s, "_") },
	}.Apply(s)
}
