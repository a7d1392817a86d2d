package validation

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gotcha-app/backend/internal/logger"
	"go.uber.org/zap"
)

// Field length limits
const (
	TitleMinLength       = 5
	TitleMaxLength       = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 1000
	CommentMinLength     = 1
	CommentMaxLength     = 500
	BioMaxLength         = 500
)

// defaultBlacklist is used when no blacklist file is configured or the
// configured file cannot be read.
var defaultBlacklist = []string{
	"spam",
	"scam",
	"hate",
	"violence",
	"abuse",
	"harassment",
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// reservedUsernameWords may not appear anywhere inside a username.
var reservedUsernameWords = []string{
	"admin",
	"root",
	"system",
	"test",
	"null",
	"undefined",
}

// Validator checks user content against moderation rules. The blacklist is
// loaded once at construction; construct a single Validator and share it.
type Validator struct {
	blacklist []string
}

// New creates a Validator with the built-in blacklist.
func New() *Validator {
	return &Validator{blacklist: defaultBlacklist}
}

// NewFromFile creates a Validator whose blacklist is loaded from a
// newline-delimited file. Blank lines and lines starting with # are skipped.
// If the file cannot be read the built-in blacklist is used instead.
func NewFromFile(path string) *Validator {
	if path == "" {
		return New()
	}

	words, err := loadBlacklistFile(path)
	if err != nil {
		logger.Warn("Could not load blacklist file, using built-in fallback",
			zap.String("path", path),
			zap.Error(err),
		)
		return New()
	}

	logger.InfoWithFields("Loaded moderation blacklist",
		zap.String("path", path),
		zap.Int("words", len(words)),
	)
	return &Validator{blacklist: words}
}

func loadBlacklistFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("blacklist file %s contains no words", path)
	}
	return words, nil
}

// matchBlacklist returns the first blacklisted word found as a substring of
// the content, or "" when the content is clean.
func (v *Validator) matchBlacklist(content string) string {
	lowered := strings.ToLower(content)
	for _, word := range v.blacklist {
		if strings.Contains(lowered, word) {
			return word
		}
	}
	return ""
}

// ValidateTitle validates an annoyance title
func (v *Validator) ValidateTitle(title string) error {
	return v.ValidateContent(title, Options{
		Field:     "title",
		MinLength: TitleMinLength,
		MaxLength: TitleMaxLength,
	})
}

// ValidateDescription validates an annoyance description
func (v *Validator) ValidateDescription(description string) error {
	return v.ValidateContent(description, Options{
		Field:     "description",
		MinLength: DescriptionMinLength,
		MaxLength: DescriptionMaxLength,
	})
}

// ValidateComment validates a comment body
func (v *Validator) ValidateComment(content string) error {
	return v.ValidateContent(content, Options{
		Field:     "content",
		MinLength: CommentMinLength,
		MaxLength: CommentMaxLength,
	})
}

// ValidateBio validates a profile bio. Bios may be empty and may contain
// links.
func (v *Validator) ValidateBio(bio string) error {
	if strings.TrimSpace(bio) == "" {
		return nil
	}
	return v.ValidateContent(bio, Options{
		Field:     "bio",
		MaxLength: BioMaxLength,
		AllowURLs: true,
	})
}

// ValidateUsername checks username shape and reserved words. Usernames are
// 3-20 characters of letters, digits, and underscores, and may not contain
// reserved words like "admin" anywhere inside them.
func (v *Validator) ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username must be 3-20 characters of letters, numbers, and underscores")
	}

	lowered := strings.ToLower(username)
	for _, reserved := range reservedUsernameWords {
		if strings.Contains(lowered, reserved) {
			return fmt.Errorf("username may not contain %q", reserved)
		}
	}

	if word := v.matchBlacklist(lowered); word != "" {
		return fmt.Errorf("username contains blocked language")
	}

	return nil
}
