package core

import "strings"

// IrishCounties maps lowercase county names to their canonical spelling.
var IrishCounties = map[string]string{
	"carlow":    "Carlow",
	"cavan":     "Cavan",
	"clare":     "Clare",
	"cork":      "Cork",
	"donegal":   "Donegal",
	"dublin":    "Dublin",
	"galway":    "Galway",
	"kerry":     "Kerry",
	"kildare":   "Kildare",
	"kilkenny":  "Kilkenny",
	"laois":     "Laois",
	"leitrim":   "Leitrim",
	"limerick":  "Limerick",
	"longford":  "Longford",
	"louth":     "Louth",
	"mayo":      "Mayo",
	"meath":     "Meath",
	"monaghan":  "Monaghan",
	"offaly":    "Offaly",
	"roscommon": "Roscommon",
	"sligo":     "Sligo",
	"tipperary": "Tipperary",
	"waterford": "Waterford",
	"westmeath": "Westmeath",
	"wexford":   "Wexford",
	"wicklow":   "Wicklow",
	"antrim":    "Antrim",
	"armagh":    "Armagh",
	"down":      "Down",
	"fermanagh": "Fermanagh",
	"derry":     "Derry",
	"tyrone":    "Tyrone",
}

var countyPrefixes = []string{"county ", "co. ", "co.", "co "}

// NormalizeCounty converts "Co. Dublin", "county dublin" and "DUBLIN" to
// "Dublin". If the county is not recognized, returns the trimmed input.
func NormalizeCounty(s string) string {
	s = strings.TrimSpace(s)
	key := strings.ToLower(s)
	for _, p := range countyPrefixes {
		if strings.HasPrefix(key, p) {
			key = strings.TrimSpace(key[len(p):])
			break
		}
	}

	if name, ok := IrishCounties[key]; ok {
		return name
	}
	return s
}

// NormalizeEircode upper-cases an Eircode and separates the three character
// routing key from the unique identifier: "d01a1b2" becomes "D01 A1B2".
// Anything that is not seven alphanumerics is returned trimmed.
func NormalizeEircode(s string) string {
	s = strings.TrimSpace(s)
	compact := strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if len(compact) != 7 || !isAlnum(compact) {
		return s
	}
	return compact[:3] + " " + compact[3:]
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
