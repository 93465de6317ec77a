package plants

// Language is one of the fixed translation targets.
type Language struct {
	Code string
	Name string
}

var indianLanguages = [...]Language{
	{Code: "hi", Name: "Hindi"},
	{Code: "bn", Name: "Bengali"},
	{Code: "te", Name: "Telugu"},
	{Code: "mr", Name: "Marathi"},
	{Code: "ta", Name: "Tamil"},
	{Code: "ur", Name: "Urdu"},
	{Code: "gu", Name: "Gujarati"},
	{Code: "kn", Name: "Kannada"},
	{Code: "ml", Name: "Malayalam"},
	{Code: "pa", Name: "Punjabi"},
	{Code: "or", Name: "Odia"},
	{Code: "as", Name: "Assamese"},
	{Code: "mai", Name: "Maithili"},
	{Code: "sa", Name: "Sanskrit"},
}

// TranslationLanguages returns the fixed translation language set in order.
func TranslationLanguages() []Language {
	out := make([]Language, len(indianLanguages))
	copy(out, indianLanguages[:])
	return out
}

// TranslationCodes returns the codes of TranslationLanguages.
func TranslationCodes() []string {
	out := make([]string, 0, len(indianLanguages))
	for _, l := range indianLanguages {
		out = append(out, l.Code)
	}
	return out
}

// IsTranslationCode reports whether code belongs to the fixed set.
func IsTranslationCode(code string) bool {
	for _, l := range indianLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}
