package teamtl

import "strings"

// LanguageNames maps base language codes to the names used in provider prompts.
var LanguageNames = map[string]string{
	"ar": "Arabic",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"fi": "Finnish",
	"fr": "French",
	"ga": "Irish",
	"he": "Hebrew",
	"hi": "Hindi",
	"hr": "Croatian",
	"hu": "Hungarian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sv": "Swedish",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"zh": "Chinese",
}

// regionalVariants clarifies locales whose base name alone is ambiguous.
var regionalVariants = map[string]string{
	"es_ES": "Use Castilian Spanish as spoken in Spain.",
	"es_MX": "Use Mexican Spanish.",
	"pt_BR": "Use Brazilian Portuguese.",
	"pt_PT": "Use European Portuguese as spoken in Portugal.",
	"zh_CN": "Use Simplified Chinese characters.",
	"zh_TW": "Use Traditional Chinese characters.",
	"fr_CA": "Use Canadian French.",
	"en_GB": "Use British English spelling.",
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[normalizeBaseLang(langCode)]; ok {
		return name
	}
	return langCode
}

// GetLocaleClarification returns a prompt hint for regional variants, or "".
func GetLocaleClarification(langCode string) string {
	return regionalVariants[NormalizeLocale(langCode)]
}

// NormalizeLocale converts a language code to the underscore format (e.g., "es-ES" → "es_ES").
// It is used for prompt lookups only; cache keys keep the caller's spelling.
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// normalizeBaseLang extracts the base language code (e.g., "en" from "en_US" or "en-GB").
func normalizeBaseLang(lang string) string {
	lang = NormalizeLocale(lang)
	return strings.ToLower(strings.Split(lang, "_")[0])
}
