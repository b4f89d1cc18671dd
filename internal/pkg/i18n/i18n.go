package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

const DefaultLocale = "en"

type Translations map[string]string

//go:embed locales
var bundled embed.FS

var (
	locales  = make(map[string]Translations)
	mu       sync.RWMutex
	loadOnce sync.Once
)

// LoadTranslations reads <root>/<locale>/notifications.yaml for every locale
// directory under root, replacing what was loaded before.
func LoadTranslations(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}

	loaded := make(map[string]Translations)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := path.Join(root, locale, "notifications.yaml")

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			continue
		}

		var catalog struct {
			Notifications Translations `yaml:"NOTIFICATIONS"`
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}
		loaded[locale] = catalog.Notifications
	}

	mu.Lock()
	locales = loaded
	mu.Unlock()
	return nil
}

func ensureLoaded() {
	loadOnce.Do(func() {
		mu.RLock()
		empty := len(locales) == 0
		mu.RUnlock()
		if empty {
			// the bundle is compiled in; a parse error here is caught by tests
			_ = LoadTranslations(bundled, "locales")
		}
	})
}

// Translate falls back to English, then to the key itself.
func Translate(locale, key string) string {
	ensureLoaded()

	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != DefaultLocale {
		if trans, ok := locales[DefaultLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}

func Format(locale, key string, args ...any) string {
	return fmt.Sprintf(Translate(locale, key), args...)
}
