package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the UI messages for every supported language.
type Catalog struct {
	messages map[string]map[string]string
}

var (
	registerOnce sync.Once
	registerErr  error
	defaultCat   *Catalog
)

// Load parses the embedded catalogs and registers them with x/text/message.
// It is safe to call more than once; registration happens a single time.
func Load() (*Catalog, error) {
	registerOnce.Do(func() {
		defaultCat, registerErr = LoadFromFS(localesFS)
		if registerErr == nil {
			registerErr = defaultCat.Register()
		}
	})
	return defaultCat, registerErr
}

// LoadFromFS reads every locales/*.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	c := &Catalog{messages: map[string]map[string]string{}}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if _, ok := parseSupported(locale); !ok {
			return nil, fmt.Errorf("catalog %s: unsupported locale %q", path, locale)
		}
		if _, exists := c.messages[locale]; exists {
			return nil, fmt.Errorf("catalog %s: locale %q defined twice", path, locale)
		}
		c.messages[locale] = file.Messages
	}

	if _, ok := c.messages[Default().String()]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", Default())
	}
	return c, nil
}

// Register publishes the messages to the x/text/message default catalog.
func (c *Catalog) Register() error {
	for locale, messages := range c.messages {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		for key, msg := range messages {
			if err := message.SetString(tag, key, msg); err != nil {
				return fmt.Errorf("register %s/%s: %w", locale, key, err)
			}
		}
	}
	return nil
}

// Keys returns the message keys of a locale, sorted.
func (c *Catalog) Keys(locale string) []string {
	keys := make([]string, 0, len(c.messages[locale]))
	for k := range c.messages[locale] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Printer returns a message printer for tag. Load must have been called for
// translations to be available; untranslated keys print as themselves.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// T translates a single key.
func T(tag language.Tag, key string) string {
	return Printer(tag).Sprintf(key)
}
