// Package i18n renders the CLI's user-facing text from the embedded message
// catalogues in lang/.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	goLocale "github.com/jeandeaual/go-locale"
	i18nLib "github.com/kaptinlin/go-i18n"
	"golang.org/x/text/language"
)

const (
	defaultLocale = "en-GB"

	// TestModeVariable makes T return keys verbatim.
	TestModeVariable = "LSK_TEST"
	// LanguageVariable overrides the locale taken from LANG and the OS.
	LanguageVariable = "LSK_LANG"
)

//go:embed lang/*.json
var messages embed.FS

type LocaleProvider interface {
	GetLocales() ([]string, error)
}

type DefaultLocaleProvider struct{}

func (provider DefaultLocaleProvider) GetLocales() ([]string, error) {
	return goLocale.GetLocales()
}

type TData map[string]interface{}

type Tvars struct {
	Count int
	Data  *TData
}

// catalogueSource names the directory of <locale>.json files to load.
type catalogueSource struct {
	files embed.FS
	dir   string
}

type catalogue struct {
	// go-i18n caches formatters without locking.
	mu        sync.Mutex
	bundle    *i18nLib.I18n
	localizer *i18nLib.Localizer
}

var (
	source                        = catalogueSource{files: messages, dir: "lang"}
	localeProvider LocaleProvider = DefaultLocaleProvider{}

	activeMu sync.Mutex
	active   *catalogue
)

// ResetForTesting drops the loaded catalogue so the next T call re-reads the
// source and the user's locales.
func ResetForTesting() {
	activeMu.Lock()
	active = nil
	activeMu.Unlock()
}

// T translates key for the user's locale. Unknown keys come back unchanged.
func T(key string, args ...Tvars) string {
	if _, present := os.LookupEnv(TestModeVariable); present {
		return formatKeyAndArgs(key, args...)
	}
	if len(args) > 1 {
		panic("i18n: T accepts at most one Tvars")
	}

	var vars map[string]interface{}
	if len(args) == 1 {
		vars = map[string]interface{}{"count": args[0].Count}
		if args[0].Data != nil {
			for name, value := range *args[0].Data {
				vars[name] = value
			}
		}
	}

	return current().translate(key, vars)
}

func current() *catalogue {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active == nil {
		loaded, err := loadCatalogue(source, getUserLocales())
		if err != nil {
			panic(err)
		}
		active = loaded
	}
	return active
}

func loadCatalogue(src catalogueSource, userLocales []string) (*catalogue, error) {
	entries, err := src.files.ReadDir(src.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list message catalogues in %s: %w", src.dir, err)
	}

	locales := []string{defaultLocale}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".json" {
			continue
		}
		locale := strings.TrimSuffix(name, ".json")
		if !strings.EqualFold(locale, defaultLocale) {
			locales = append(locales, locale)
		}
	}

	bundle := i18nLib.NewBundle(
		i18nLib.WithDefaultLocale(defaultLocale),
		i18nLib.WithLocales(locales...),
	)
	if err := bundle.LoadFS(src.files, path.Join(src.dir, "*.json")); err != nil {
		return nil, fmt.Errorf("failed to load message catalogues from %s: %w", src.dir, err)
	}

	return &catalogue{
		bundle:    bundle,
		localizer: bundle.NewLocalizer(buildLocalizerLocales(userLocales)...),
	}, nil
}

func (c *catalogue) translate(key string, vars map[string]interface{}) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if vars == nil {
		return c.localizer.Get(key)
	}
	return c.localizer.Get(key, i18nLib.Vars(vars))
}

func getUserLocales() []string {
	for _, variable := range []string{LanguageVariable, "LANG"} {
		if envLocale := strings.TrimSpace(os.Getenv(variable)); envLocale != "" {
			return []string{envLocale}
		}
	}

	detected, err := localeProvider.GetLocales()
	if err != nil {
		return []string{language.English.String()}
	}

	locales := make([]string, 0, len(detected))
	for _, localeName := range detected {
		if localeName != "" {
			locales = append(locales, localeName)
		}
	}
	return locales
}

func formatKeyAndArgs(key string, args ...Tvars) string {
	var sb strings.Builder
	sb.WriteString(key)
	for i, arg := range args {
		sb.WriteString(fmt.Sprintf(", Arg %d: {Count: %d, Data: %v}", i+1, arg.Count, arg.Data))
	}
	return sb.String()
}

// buildLocalizerLocales turns raw locale names into canonical tags, each
// followed by its base language, without duplicates.
func buildLocalizerLocales(rawLocales []string) []string {
	locales := make([]string, 0, len(rawLocales)*2)
	seen := make(map[string]struct{}, len(rawLocales)*2)
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		locales = append(locales, tag)
	}

	for _, localeName := range rawLocales {
		normalized := normalizeLocale(localeName)
		if normalized == "" {
			continue
		}
		tag, err := language.Parse(normalized)
		if err != nil {
			continue
		}
		add(tag.String())
		if base, _ := tag.Base(); base.String() != "" {
			add(base.String())
		}
	}

	return locales
}

// normalizeLocale turns POSIX locale names such as en_GB.UTF-8@euro into a
// BCP 47 candidate. C and POSIX carry no language and become empty.
func normalizeLocale(localeName string) string {
	if cut := strings.IndexAny(localeName, ".@"); cut >= 0 {
		localeName = localeName[:cut]
	}
	if localeName == "C" || localeName == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(localeName, "_", "-")
}
