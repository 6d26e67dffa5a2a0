package taxonomy

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// The language vocabulary is open: this table only folds common spellings and
// native-script names into one label.
var languageAliases = []Alias{
	{"english", "English"},
	{"hindi", "Hindi"},
	{"हिन्दी", "Hindi"},
	{"हिंदी", "Hindi"},
	{"bengali", "Bengali"},
	{"bangla", "Bengali"},
	{"বাংলা", "Bengali"},
	{"marathi", "Marathi"},
	{"मराठी", "Marathi"},
	{"kannada", "Kannada"},
	{"ಕನ್ನಡ", "Kannada"},
	{"tamil", "Tamil"},
	{"தமிழ்", "Tamil"},
	{"telugu", "Telugu"},
	{"తెలుగు", "Telugu"},
	{"malayalam", "Malayalam"},
	{"മലയാളം", "Malayalam"},
	{"gujarati", "Gujarati"},
	{"ગુજરાતી", "Gujarati"},
	{"punjabi", "Punjabi"},
	{"panjabi", "Punjabi"},
	{"ਪੰਜਾਬੀ", "Punjabi"},
	{"odia", "Odia"},
	{"oriya", "Odia"},
	{"ଓଡ଼ିଆ", "Odia"},
	{"urdu", "Urdu"},
	{"اردو", "Urdu"},
	{"nepali", "Nepali"},
	{"नेपाली", "Nepali"},
	{"spanish", "Spanish"},
	{"español", "Spanish"},
	{"espanol", "Spanish"},
	{"castellano", "Spanish"},
	{"french", "French"},
	{"français", "French"},
	{"francais", "French"},
	{"portuguese", "Portuguese"},
	{"português", "Portuguese"},
	{"portugues", "Portuguese"},
	{"german", "German"},
	{"deutsch", "German"},
	{"swahili", "Swahili"},
	{"kiswahili", "Swahili"},
	{"arabic", "Arabic"},
	{"العربية", "Arabic"},
	{"chinese", "Chinese"},
	{"mandarin", "Chinese"},
	{"中文", "Chinese"},
	{"indonesian", "Indonesian"},
	{"bahasa indonesia", "Indonesian"},
	{"vietnamese", "Vietnamese"},
	{"tiếng việt", "Vietnamese"},
	{"amharic", "Amharic"},
	{"አማርኛ", "Amharic"},
	{"zulu", "Zulu"},
	{"isizulu", "Zulu"},
	{"xhosa", "Xhosa"},
	{"isixhosa", "Xhosa"},
	{"afrikaans", "Afrikaans"},
}

var (
	languageMapper = NewMapper(languageAliases)

	// Two-letter bases stand alone; three-letter bases need a subtag so words
	// like "new" are not read as ISO 639-2 codes.
	languageCode = regexp.MustCompile(`^(?:[a-z]{2}|[a-z]{3}-[a-z0-9]{2,8})(?:-[a-z0-9]{2,8})*$`)
)

// MapLanguage resolves a raw language label. Besides the alias table, bare
// BCP-47 codes ("en", "hi-IN", "zh_Hant", "hin-IN") resolve to their English name.
func MapLanguage(raw string) (string, bool) {
	in := Normalize(raw)
	if in == "" {
		return "", false
	}
	if c, ok := languageMapper.exact[in]; ok {
		return c, true
	}
	if name, ok := languageFromCode(in); ok {
		if c, ok := languageMapper.exact[Normalize(name)]; ok {
			return c, true
		}
		return name, true
	}
	return languageMapper.substring(in)
}

func languageFromCode(in string) (string, bool) {
	code := strings.ReplaceAll(in, "_", "-")
	if !languageCode.MatchString(code) {
		return "", false
	}
	base, err := language.ParseBase(strings.SplitN(code, "-", 2)[0])
	if err != nil {
		return "", false
	}
	name := display.English.Languages().Name(base)
	if name == "" {
		return "", false
	}
	return name, true
}
