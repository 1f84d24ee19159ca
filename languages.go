package gomt

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a human-language label paired with its ISO 639-1 code.
type Language struct {
	Label string // English display name, e.g. "German"
	Code  string // Base language code, e.g. "de"
}

// NewLanguage builds a Language from a BCP 47 tag.
func NewLanguage(tag language.Tag) Language {
	base, _ := tag.Base()
	return Language{
		Label: display.English.Languages().Name(tag),
		Code:  base.String(),
	}
}

// Languages offered by the default pair table.
var (
	English = NewLanguage(language.English)
	German  = NewLanguage(language.German)
	French  = NewLanguage(language.French)
	Spanish = NewLanguage(language.Spanish)
	Italian = NewLanguage(language.Italian)
	Dutch   = NewLanguage(language.Dutch)
)

// knownLanguages are matched by label before falling back to tag parsing.
var knownLanguages = func() []Language {
	langs := []Language{English, German, French, Spanish, Italian, Dutch}
	for _, tag := range []language.Tag{
		language.Arabic, language.Chinese, language.Czech, language.Danish,
		language.Finnish, language.Greek, language.Hebrew, language.Hindi,
		language.Hungarian, language.Japanese, language.Korean, language.Norwegian,
		language.Persian, language.Polish, language.Portuguese, language.Romanian,
		language.Russian, language.Swedish, language.Turkish, language.Ukrainian,
		language.Urdu, language.Vietnamese,
	} {
		langs = append(langs, NewLanguage(tag))
	}
	return langs
}()

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// LanguageCode returns the ISO code for a language label ("German" -> "de").
// Labels that are already codes are normalized. Returns false if the label
// is not recognized.
func LanguageCode(label string) (string, bool) {
	for _, l := range knownLanguages {
		if strings.EqualFold(l.Label, label) {
			return l.Code, true
		}
	}
	tag, err := language.Parse(NormalizeLocale(label))
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	return base.String(), true
}

// LanguageLabel returns the English display name for a code ("de" -> "German").
// Falls back to the code itself if it cannot be parsed.
func LanguageLabel(code string) string {
	tag, err := language.Parse(NormalizeLocale(code))
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
// It accepts labels ("Arabic") as well as codes ("ar", "ar_SA").
func GetDirection(lang string) string {
	code, ok := LanguageCode(lang)
	if !ok {
		code = strings.ToLower(strings.Split(NormalizeLocale(lang), "-")[0])
	}
	if RTLLanguages[code] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(lang string) bool {
	return GetDirection(lang) == "rtl"
}

// NormalizeLocale converts a locale to BCP 47 form (e.g., "es_ES" → "es-ES").
func NormalizeLocale(lang string) string {
	return strings.ReplaceAll(lang, "_", "-")
}
