package export

import (
	"golang.org/x/text/language"
)

// SupportedLocales lists the locales with a known short date layout. The
// first entry is what unmatched viewers get.
var SupportedLocales = []language.Tag{
	language.MustParse("en-KE"),
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Swahili,
}

var shortDateLayouts = []string{
	"02/01/2006",
	"1/2/2006",
	"02/01/2006",
	"02.01.2006",
	"02/01/2006",
	"02/01/2006",
}

var localeMatcher = language.NewMatcher(SupportedLocales)

// MatchLocale picks the best supported locale for the given preferences.
func MatchLocale(prefs ...language.Tag) language.Tag {
	if len(prefs) == 0 {
		return SupportedLocales[0]
	}
	_, idx, conf := localeMatcher.Match(prefs...)
	if conf == language.No {
		return SupportedLocales[0]
	}
	return SupportedLocales[idx]
}

// ShortDateLayout returns the locale-default short date layout for tag.
func ShortDateLayout(tag language.Tag) string {
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return shortDateLayouts[0]
	}
	return shortDateLayouts[idx]
}
