// Package vocab holds the closed vocabularies used by metadata sources:
// ComicInfo age ratings, manga reading direction and yes/no flags.
package vocab

import "strings"

// AgeRating is a ComicInfo age rating.
type AgeRating string

const (
	AgeRatingUnknown        AgeRating = "Unknown"
	AgeRatingAdultsOnly     AgeRating = "Adults Only 18+"
	AgeRatingEarlyChildhood AgeRating = "Early Childhood"
	AgeRatingEveryone       AgeRating = "Everyone"
	AgeRatingEveryone10     AgeRating = "Everyone 10+"
	AgeRatingG              AgeRating = "G"
	AgeRatingKidsToAdults   AgeRating = "Kids to Adults"
	AgeRatingM              AgeRating = "M"
	AgeRatingMA15           AgeRating = "MA15+"
	AgeRatingMature17       AgeRating = "Mature 17+"
	AgeRatingPG             AgeRating = "PG"
	AgeRatingR18            AgeRating = "R18+"
	AgeRatingPending        AgeRating = "Rating Pending"
	AgeRatingTeen           AgeRating = "Teen"
	AgeRatingX18            AgeRating = "X18+"
)

// Manga tells whether a comic is a manga and its reading direction.
type Manga string

const (
	MangaUnknown        Manga = "Unknown"
	MangaNo             Manga = "No"
	MangaYes            Manga = "Yes"
	MangaYesRightToLeft Manga = "YesAndRightToLeft"
)

// Vocabulary names accepted by Resolve.
const (
	AgeRatingName = "AgeRating"
	MangaName     = "Manga"
	YesNoName     = "YesNo"
)

var vocabularies = map[string][]string{
	AgeRatingName: {
		string(AgeRatingUnknown),
		string(AgeRatingAdultsOnly),
		string(AgeRatingEarlyChildhood),
		string(AgeRatingEveryone),
		string(AgeRatingEveryone10),
		string(AgeRatingG),
		string(AgeRatingKidsToAdults),
		string(AgeRatingM),
		string(AgeRatingMA15),
		string(AgeRatingMature17),
		string(AgeRatingPG),
		string(AgeRatingR18),
		string(AgeRatingPending),
		string(AgeRatingTeen),
		string(AgeRatingX18),
	},
	MangaName: {
		string(MangaUnknown),
		string(MangaNo),
		string(MangaYes),
		string(MangaYesRightToLeft),
	},
	YesNoName: {"Unknown", "No", "Yes"},
}

// Resolve returns the member of the named vocabulary matching token.
// Matching ignores case and surrounding whitespace; the canonical spelling is
// returned. Unknown vocabularies and unrecognized tokens yield false.
func Resolve(name, token string) (string, bool) {
	members, ok := vocabularies[name]
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	for _, m := range members {
		if strings.EqualFold(m, token) {
			return m, true
		}
	}
	return "", false
}

// ParseAgeRating resolves an age rating token.
func ParseAgeRating(token string) (AgeRating, bool) {
	m, ok := Resolve(AgeRatingName, token)
	return AgeRating(m), ok
}

// ParseManga resolves a manga token.
func ParseManga(token string) (Manga, bool) {
	m, ok := Resolve(MangaName, token)
	return Manga(m), ok
}

// IsYes reports whether token resolves to the "Yes" member of YesNo.
func IsYes(token string) bool {
	m, ok := Resolve(YesNoName, token)
	return ok && m == "Yes"
}
