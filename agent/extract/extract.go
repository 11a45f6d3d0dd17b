// Package extract holds the slot extractors. Every extractor is a pure
// function of its input and reports a miss as ok=false.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	maleWords = []string{
		"male", "man", "guy", "gentleman", "he-man", "masculine", "manful", "manlike",
		"virile", "androcentric", "androcratic", "androgenous", "staminate", "anthropoidal",
	}
	femaleWords = []string{
		"female", "woman", "lady", "ladylike", "she-woman", "feminine", "womanful", "womanlike",
		"girl", "dame", "distaff", "heroine", "broad",
	}
	serviceClasses = []string{"economy", "business", "first"}

	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	documentRe = regexp.MustCompile(`(\d\s*\d\s*\d\s*\d)\s*(\d{6})`)
	birthRe    = regexp.MustCompile(`\b(?:(\d{4})[-./](\d{1,2})[-./](\d{1,2})|(\d{1,2})[-./](\d{1,2})[-./](\d{4}))\b`)
	spaceRe    = regexp.MustCompile(`\s+`)

	maleRe   = wordsRe(maleWords)
	femaleRe = wordsRe(femaleWords)
)

// MinAge is the minimal age for a passenger, counted in days.
const MinAge = 18 * 365 * 24 * time.Hour

// City returns the first candidate contained in text. Matching is case sensitive.
func City(text string, cities []string) (string, bool) {
	for _, c := range cities {
		if c != "" && strings.Contains(text, c) {
			return c, true
		}
	}
	return "", false
}

// TicketID returns the first id that appears in text as a whitespace
// delimited token.
func TicketID(text string, ids []int64) (int64, bool) {
	tokens := strings.Fields(text)
	for _, id := range ids {
		want := strconv.FormatInt(id, 10)
		for _, tok := range tokens {
			if tok == want {
				return id, true
			}
		}
	}
	return 0, false
}

// Gender matches whole words of either vocabulary. A reply naming both
// resolves to male.
func Gender(text string) (string, bool) {
	if maleRe.MatchString(text) {
		return "male", true
	}
	if femaleRe.MatchString(text) {
		return "female", true
	}
	return "", false
}

func ClassOfService(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, c := range serviceClasses {
		if strings.Contains(lower, c) {
			return c, true
		}
	}
	return "", false
}

func Email(text string) (string, bool) {
	m := emailRe.FindString(text)
	return m, m != ""
}

// DocumentNumber returns the passport number normalized to "NNNN NNNNNN".
func DocumentNumber(text string) (string, bool) {
	m := documentRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return spaceRe.ReplaceAllString(m[1], "") + " " + m[2], true
}

// BirthDate accepts YYYY-MM-DD or DD-MM-YYYY (separators - . /) and rejects
// dates less than MinAge before now. The result is formatted YYYY-MM-DD.
func BirthDate(text string, now time.Time) (string, bool) {
	m := birthRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	var year, month, day string
	if m[1] != "" {
		year, month, day = m[1], m[2], m[3]
	} else {
		day, month, year = m[4], m[5], m[6]
	}
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)

	dt := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, now.Location())
	if dt.Year() != y || int(dt.Month()) != mo || dt.Day() != d {
		return "", false
	}
	if now.Sub(dt) < MinAge {
		return "", false
	}
	return dt.Format(time.DateOnly), true
}

// StripDocumentNumber blanks out a document number so its digit groups are
// not read as other values.
func StripDocumentNumber(text string) string {
	return documentRe.ReplaceAllString(text, " ")
}

// wordsRe matches any of words as a case-insensitive whole word.
func wordsRe(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)(?:^|[^\w-])(?:` + strings.Join(quoted, "|") + `)(?:[^\w-]|$)`)
}
