package speech

import "golang.org/x/text/language"

// Narration voices by language. The matcher picks the closest supported
// language for the requester's locale; English is the fallback.
var supportedLanguages = []language.Tag{
	language.English, // first entry is the matcher fallback
	language.Spanish,
	language.Portuguese,
	language.French,
	language.German,
	language.Indonesian,
	language.Japanese,
}

var voiceByLanguage = map[language.Tag]string{
	language.English:    "en-US-Journey",
	language.Spanish:    "es-ES-Lumen",
	language.Portuguese: "pt-BR-Aurora",
	language.French:     "fr-FR-Eclat",
	language.German:     "de-DE-Klang",
	language.Indonesian: "id-ID-Cahaya",
	language.Japanese:   "ja-JP-Hikari",
}

var matcher = language.NewMatcher(supportedLanguages)

// VoiceForLocale resolves the narration voice for a BCP 47 locale string.
// Unparseable or unsupported locales fall back to the English voice.
func VoiceForLocale(locale string) (voice, languageCode string) {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	_, index, _ := matcher.Match(tag)
	matched := supportedLanguages[index]
	return voiceByLanguage[matched], matched.String()
}
