// Package naming converts between payload field names, column names and
// resource (table) names. All conversions are pure functions.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

var (
	// "firstName" -> "first_Name", "address1Line" -> "address1_Line"
	lowerUpper = regexp.MustCompile(`([\p{Ll}\d])(\p{Lu})`)
	// "HTTPServer" -> "HTTP_Server"
	upperRun = regexp.MustCompile(`(\p{Lu})(\p{Lu}\p{Ll})`)
)

// Config holds naming customization options.
type Config struct {
	// PluralOverrides maps singular -> custom plural
	// Example: {"person": "people", "staff": "staff"}
	PluralOverrides map[string]string `mapstructure:"plural_overrides"`

	// SingularOverrides maps plural -> custom singular
	// Example: {"people": "person"}
	SingularOverrides map[string]string `mapstructure:"singular_overrides"`
}

// DefaultConfig returns a config with no overrides.
func DefaultConfig() Config {
	return Config{
		PluralOverrides:   make(map[string]string),
		SingularOverrides: make(map[string]string),
	}
}

// Namer pluralizes and singularizes resource names. Overrides are consulted
// before the inflection rules.
type Namer struct {
	config Config
}

// New creates a Namer with the given configuration.
func New(cfg Config) *Namer {
	if cfg.PluralOverrides == nil {
		cfg.PluralOverrides = make(map[string]string)
	}
	if cfg.SingularOverrides == nil {
		cfg.SingularOverrides = make(map[string]string)
	}
	// An override in one direction implies the inverse so round trips hold.
	for singular, plural := range cfg.PluralOverrides {
		if _, ok := cfg.SingularOverrides[plural]; !ok {
			cfg.SingularOverrides[plural] = singular
		}
	}
	return &Namer{config: cfg}
}

// Default returns a Namer with default configuration.
func Default() *Namer {
	return New(DefaultConfig())
}

// Pluralize converts a singular word to its plural form.
// Example: "employee" -> "employees", "person" -> "people"
func (n *Namer) Pluralize(word string) string {
	if override, ok := n.config.PluralOverrides[word]; ok {
		return override
	}
	return inflection.Plural(word)
}

// Singularize converts a plural word to its singular form.
// Example: "departments" -> "department", "people" -> "person"
func (n *Namer) Singularize(word string) string {
	if override, ok := n.config.SingularOverrides[word]; ok {
		return override
	}
	return inflection.Singular(word)
}

// TableName converts an entity name to its table and route name.
// Example: "jobTitle" -> "job_titles"
func (n *Namer) TableName(entityName string) string {
	return n.Pluralize(ToColumnCase(entityName))
}

// EntityKey converts a table or route name to the key entities are indexed by.
// Example: "Job_Titles" -> "job_title"
func (n *Namer) EntityKey(resourceName string) string {
	return n.Singularize(strings.ToLower(resourceName))
}

// ToColumnCase converts a camelCase or PascalCase identifier to snake_case.
// Identifiers already in snake_case are returned unchanged.
// Example: "firstName" -> "first_name", "HTTPServer" -> "http_server"
func ToColumnCase(s string) string {
	if s == "" {
		return s
	}
	out := upperRun.ReplaceAllString(s, "${1}_${2}")
	out = lowerUpper.ReplaceAllString(out, "${1}_${2}")
	out = strings.ReplaceAll(out, "-", "_")
	out = strings.ReplaceAll(out, " ", "_")
	return strings.ToLower(out)
}

// ToFieldCase converts snake_case to camelCase.
// Example: "first_name" -> "firstName"
func ToFieldCase(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
