package gomt

import "testing"

func TestLanguageLabels(t *testing.T) {
	tests := []struct {
		lang  Language
		label string
		code  string
	}{
		{English, "English", "en"},
		{German, "German", "de"},
		{French, "French", "fr"},
		{Spanish, "Spanish", "es"},
		{Italian, "Italian", "it"},
		{Dutch, "Dutch", "nl"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if tt.lang.Label != tt.label {
				t.Errorf("Label = %q, want %q", tt.lang.Label, tt.label)
			}
			if tt.lang.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.lang.Code, tt.code)
			}
		})
	}
}

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		input string
		code  string
		ok    bool
	}{
		{"German", "de", true},
		{"german", "de", true},
		{"Dutch", "nl", true},
		{"Swedish", "sv", true},
		{"de", "de", true},
		{"pt_BR", "pt", true},
		{"es-MX", "es", true},
		{"not a language!", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, ok := LanguageCode(tt.input)
			if ok != tt.ok || code != tt.code {
				t.Errorf("LanguageCode(%q) = (%q, %v), want (%q, %v)", tt.input, code, ok, tt.code, tt.ok)
			}
		})
	}
}

func TestLanguageLabel(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"de", "German"},
		{"fr", "French"},
		{"nl", "Dutch"},
		{"not a language!", "not a language!"}, // fallback
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := LanguageLabel(tt.code)
			if result != tt.expected {
				t.Errorf("LanguageLabel(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestGetDirection(t *testing.T) {
	tests := []struct {
		lang     string
		expected string
	}{
		{"ar_SA", "rtl"},
		{"he_IL", "rtl"},
		{"fa", "rtl"},
		{"Arabic", "rtl"},
		{"Hebrew", "rtl"},
		{"Urdu", "rtl"},
		{"German", "ltr"},
		{"English", "ltr"},
		{"es_ES", "ltr"},
		{"ja_JP", "ltr"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			result := GetDirection(tt.lang)
			if result != tt.expected {
				t.Errorf("GetDirection(%q) = %q, want %q", tt.lang, result, tt.expected)
			}
		})
	}
}

func TestIsRTL(t *testing.T) {
	if !IsRTL("ar") {
		t.Error("IsRTL(ar) should be true")
	}
	if IsRTL("Italian") {
		t.Error("IsRTL(Italian) should be false")
	}
}

func TestNormalizeLocale(t *testing.T) {
	if got := NormalizeLocale("es_ES"); got != "es-ES" {
		t.Errorf("NormalizeLocale(es_ES) = %q", got)
	}
	if got := NormalizeLocale("en"); got != "en" {
		t.Errorf("NormalizeLocale(en) = %q", got)
	}
}
