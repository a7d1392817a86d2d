package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options controls how a piece of user content is validated.
type Options struct {
	// Field is the input name reported in validation errors
	Field string

	MinLength int
	MaxLength int

	// AllowURLs permits links and email addresses in the content. Post and
	// comment bodies disallow them; profile bios allow them.
	AllowURLs bool
}

// Injection and script patterns rejected in all user content. Matching is
// case-insensitive via the (?i) flag.
var maliciousPatterns = []*regexp.Regexp{
	// SQL statements with both a verb and a target clause
	regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|UNION|ALTER|CREATE|EXEC)\b.*\b(FROM|INTO|TABLE|WHERE|DATABASE)\b`),
	// Script and frame injection
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)<\s*iframe`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)vbscript\s*:`),
	// Inline event handlers like onclick= or onload =
	regexp.MustCompile(`(?i)\bon\w+\s*=`),
	// Any other HTML tag
	regexp.MustCompile(`(?i)<\s*/?\s*[a-z][^>]*>`),
	// data: URIs that are not images
	regexp.MustCompile(`(?i)data\s*:\s*(?:text|application)/`),
}

var (
	urlPattern   = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

	capsRunPattern        = regexp.MustCompile(`[A-Z]{10,}`)
	punctuationRunPattern = regexp.MustCompile(`[!?]{5,}`)

	collapseWhitespace = regexp.MustCompile(`\s+`)
)

// ValidateContent checks a piece of user content against length limits,
// injection patterns, link policy, spam heuristics, and the moderation
// blacklist. The first failing rule is returned as the error.
func (v *Validator) ValidateContent(content string, opts Options) error {
	trimmed := strings.TrimSpace(content)

	// Limits are in characters, not bytes
	length := utf8.RuneCountInString(trimmed)
	if opts.MinLength > 0 && length < opts.MinLength {
		return fmt.Errorf("%s must be at least %d characters", opts.Field, opts.MinLength)
	}
	if opts.MaxLength > 0 && length > opts.MaxLength {
		return fmt.Errorf("%s must be at most %d characters", opts.Field, opts.MaxLength)
	}

	for _, pattern := range maliciousPatterns {
		if pattern.MatchString(trimmed) {
			return fmt.Errorf("%s contains disallowed content", opts.Field)
		}
	}

	if !opts.AllowURLs {
		if urlPattern.MatchString(trimmed) {
			return fmt.Errorf("%s may not contain links", opts.Field)
		}
		if emailPattern.MatchString(trimmed) {
			return fmt.Errorf("%s may not contain email addresses", opts.Field)
		}
	}

	if isSpam(trimmed) {
		return fmt.Errorf("%s looks like spam", opts.Field)
	}

	if word := v.matchBlacklist(trimmed); word != "" {
		return fmt.Errorf("%s contains blocked language", opts.Field)
	}

	return nil
}

// isSpam applies the spam heuristics: long repeated-character runs, the same
// word three times in a row, shouting in all caps, and excess punctuation.
func isSpam(content string) bool {
	if hasCharRun(content, 6) {
		return true
	}
	if hasTripledWord(content) {
		return true
	}
	if capsRunPattern.MatchString(content) {
		return true
	}
	if punctuationRunPattern.MatchString(content) {
		return true
	}
	return false
}

// hasCharRun reports whether any character repeats n or more times in a row.
func hasCharRun(content string, n int) bool {
	var prev rune
	run := 0
	for _, r := range content {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// hasTripledWord reports whether the same word appears three times in
// immediate succession, case-insensitively.
func hasTripledWord(content string) bool {
	words := strings.FieldsFunc(content, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	run := 1
	for i := 1; i < len(words); i++ {
		if strings.EqualFold(words[i], words[i-1]) {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

// Sanitize normalizes content for storage: angle brackets are stripped,
// whitespace runs collapse to a single space, and the result is trimmed.
func Sanitize(content string) string {
	cleaned := strings.NewReplacer("<", "", ">", "").Replace(content)
	cleaned = collapseWhitespace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
