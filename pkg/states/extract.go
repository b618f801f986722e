package states

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

var policyNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`AUTO[- ]?[A-Z0-9-]+`),
	regexp.MustCompile(`[A-Z]{2,4}-?\d{6,10}`),
	regexp.MustCompile(`[A-Z]\d{8,12}`),
	regexp.MustCompile(`\d{8,12}`),
}

// extractPolicyNumber pulls a policy number out of free text. Returns ""
// when nothing looks like one.
func extractPolicyNumber(text string) string {
	t := strings.ToUpper(strings.TrimSpace(text))
	for _, re := range policyNumberPatterns {
		if m := re.FindString(t); m != "" {
			return strings.TrimRight(m, "-")
		}
	}
	return ""
}

var digitsOnly = regexp.MustCompile(`\D`)

// extractPhone returns the 10-digit US phone number in the text, stripping
// a leading country code.
func extractPhone(text string) string {
	digits := digitsOnly.ReplaceAllString(text, "")
	switch {
	case len(digits) == 10:
		return digits
	case len(digits) == 11 && digits[0] == '1':
		return digits[1:]
	}
	return ""
}

// formatPhone renders 10 digits as "(555) 123-4567".
func formatPhone(digits string) string {
	if len(digits) != 10 {
		return digits
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

var zipPattern = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)

func extractZIP(text string) string {
	return zipPattern.FindString(text)
}

var approximateWords = []string{"about", "around", "approximately", "roughly", "sometime", "maybe", "i think"}

var (
	isoDatePattern     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashDatePattern   = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?\b`)
	monthNamePattern   = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?`)
	monthsAbbreviation = map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	}
)

// parseDate reads an incident date from free text. Relative words, numeric
// formats and month names are accepted; a missing year defaults to the
// current one. The approximate flag reports hedging words in the answer.
func parseDate(text string, now time.Time) (date time.Time, approximate, ok bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, w := range approximateWords {
		if strings.Contains(t, w) {
			approximate = true
			break
		}
	}
	day := func(d time.Time) time.Time {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	}
	switch {
	case strings.Contains(t, "day before yesterday"):
		return day(now.AddDate(0, 0, -2)), approximate, true
	case strings.Contains(t, "yesterday"):
		return day(now.AddDate(0, 0, -1)), approximate, true
	case strings.Contains(t, "today"), strings.Contains(t, "this morning"), strings.Contains(t, "tonight"), strings.Contains(t, "earlier"):
		return day(now), approximate, true
	case strings.Contains(t, "last night"):
		return day(now.AddDate(0, 0, -1)), approximate, true
	}
	if m := isoDatePattern.FindStringSubmatch(t); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		dayNum, _ := strconv.Atoi(m[3])
		if d, valid := buildDate(year, month, dayNum, now); valid {
			return d, approximate, true
		}
	}
	if m := slashDatePattern.FindStringSubmatch(t); m != nil {
		month, _ := strconv.Atoi(m[1])
		dayNum, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		if d, valid := buildDate(year, month, dayNum, now); valid {
			return d, approximate, true
		}
	}
	if m := monthNamePattern.FindStringSubmatch(t); m != nil {
		month := monthsAbbreviation[m[1]]
		dayNum, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if d, valid := buildDate(year, int(month), dayNum, now); valid {
			return d, approximate, true
		}
	}
	return time.Time{}, approximate, false
}

func buildDate(year, month, day int, now time.Time) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	// Reject rollovers like February 31.
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}

var (
	clockPattern   = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	hourOnlyAmPm   = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)\b`)
	timeOfDayWords = []struct {
		word string
		time string
	}{
		{"midnight", "00:00"},
		{"midday", "12:00"},
		{"noon", "12:00"},
		{"morning", "09:00"},
		{"afternoon", "14:00"},
		{"evening", "18:00"},
		{"night", "21:00"},
	}
)

// parseTimeOfDay reads a time as "HH:MM". Day-part words map to
// representative hours and are flagged approximate.
func parseTimeOfDay(text string) (clock string, approximate, ok bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if m := clockPattern.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if h, valid := adjustHour(hour, m[3]); valid && minute < 60 {
			return fmt.Sprintf("%02d:%02d", h, minute), false, true
		}
	}
	if m := hourOnlyAmPm.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if h, valid := adjustHour(hour, m[2]); valid {
			return fmt.Sprintf("%02d:00", h), false, true
		}
	}
	for _, w := range timeOfDayWords {
		if strings.Contains(t, w.word) {
			return w.time, true, true
		}
	}
	return "", false, false
}

func adjustHour(hour int, meridiem string) (int, bool) {
	switch meridiem {
	case "pm":
		if hour >= 1 && hour <= 11 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var digitPattern = regexp.MustCompile(`\d+`)

// extractNumber reads a small count from digits or number words.
func extractNumber(text string) (int, bool) {
	t := strings.ToLower(text)
	if m := digitPattern.FindString(t); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			return n, true
		}
	}
	for word, n := range numberWords {
		if regexp.MustCompile(`\b` + word + `\b`).MatchString(t) {
			return n, true
		}
	}
	return 0, false
}

var lossTypeKeywords = []struct {
	lossType string
	keywords []string
}{
	{"glass", []string{"glass", "windshield", "window crack", "chip", "cracked window"}},
	{"theft", []string{"theft", "stole", "stolen", "broke in", "break-in", "broken into", "burglar"}},
	{"vandalism", []string{"vandal", "keyed", "slashed", "graffiti", "smashed"}},
	{"fire", []string{"fire", "caught fire", "burn"}},
	{"weather", []string{"weather", "hail", "flood", "storm", "tree fell", "fallen tree", "wind", "lightning", "tornado", "hurricane"}},
	{"collision", []string{"collision", "accident", "crash", "hit", "rear-end", "rear end", "fender", "t-bone", "sideswipe", "backed into"}},
	{"other", []string{"other", "something else"}},
}

// extractLossType maps an answer to one of the loss type values. Exact
// option values win over keyword matches.
func extractLossType(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, entry := range lossTypeKeywords {
		if t == entry.lossType {
			return entry.lossType
		}
	}
	for _, entry := range lossTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(t, kw) {
				return entry.lossType
			}
		}
	}
	return ""
}

// extractWeatherType maps an answer to a weather loss subtype.
func extractWeatherType(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "hail"):
		return "hail"
	case containsAny(t, "flood", "water", "submerg"):
		return "flood"
	case containsAny(t, "tree", "branch", "limb"):
		return "tree"
	case containsAny(t, "wind", "storm", "tornado", "hurricane"):
		return "wind"
	}
	return ""
}

// extractTheftType maps an answer to a theft loss subtype.
func extractTheftType(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "attempt"):
		return "attempted_theft"
	case containsAny(t, "items", "belong", "inside", "contents", "broke in", "broken into"):
		return "items_stolen"
	case containsAny(t, "vehicle", "car", "stolen", "gone", "missing", "took it"):
		return "vehicle_stolen"
	}
	return ""
}

var damageAreaKeywords = []struct {
	area     string
	keywords []string
}{
	{"windshield", []string{"windshield"}},
	{"front", []string{"front"}},
	{"rear", []string{"rear", "back bumper", "trunk", "tailgate"}},
	{"driver_side", []string{"driver side", "driver's side", "driver door", "left side", "left door"}},
	{"passenger_side", []string{"passenger side", "passenger's side", "passenger door", "right side", "right door"}},
	{"hood", []string{"hood"}},
	{"roof", []string{"roof", "top"}},
	{"windows", []string{"window", "glass"}},
	{"undercarriage", []string{"under", "undercarriage", "frame"}},
	{"interior", []string{"interior", "inside", "seats", "dashboard"}},
	{"total", []string{"total", "everywhere", "all over", "entire"}},
}

// parseDamageAreas maps a free-text answer to damage area values. Unmatched
// answers fall back to a single "other" area.
func parseDamageAreas(text string) []string {
	t := strings.ToLower(text)
	var areas []string
	seen := map[string]bool{}
	for _, entry := range damageAreaKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(t, kw) && !seen[entry.area] {
				seen[entry.area] = true
				areas = append(areas, entry.area)
				break
			}
		}
	}
	if len(areas) == 0 {
		areas = []string{"other"}
	}
	return areas
}

// damageSeverityEstimates maps a coarse severity to a dollar estimate used
// until a real appraisal exists.
var damageSeverityEstimates = map[string]float64{
	"minor":    500,
	"moderate": 3000,
	"major":    10000,
	"total":    20000,
}

// extractDamageSeverity maps an answer to a coarse damage severity.
func extractDamageSeverity(text string) string {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "total", "destroyed", "totaled", "totalled"):
		return "total"
	case containsAny(t, "major", "severe", "significant", "bad", "crushed"):
		return "major"
	case containsAny(t, "moderate", "dent", "medium"):
		return "moderate"
	case containsAny(t, "minor", "small", "scratch", "ding", "light"):
		return "minor"
	}
	return ""
}

// extractPropertyType classifies non-vehicle property damage.
func extractPropertyType(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "fence"):
		return "fence"
	case strings.Contains(t, "mailbox"):
		return "mailbox"
	case containsAny(t, "building", "wall", "house", "garage", "storefront"):
		return "building"
	case containsAny(t, "pole", "post", "lamp"):
		return "pole"
	case strings.Contains(t, "sign"):
		return "sign"
	case containsAny(t, "guardrail", "guard rail", "barrier"):
		return "guardrail"
	case containsAny(t, "tree", "bush", "hedge", "landscap"):
		return "tree"
	}
	return "other"
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// extractVehicleYear reads a model year between 1980 and 2030.
func extractVehicleYear(text string) int {
	for _, m := range yearPattern.FindAllString(text, -1) {
		year, err := strconv.Atoi(m)
		if err == nil && year >= 1980 && year <= 2030 {
			return year
		}
	}
	return 0
}

var vehicleColors = []string{
	"black", "white", "silver", "gray", "grey", "red", "blue", "green",
	"yellow", "orange", "brown", "gold", "tan", "maroon",
}

var vehicleMakes = map[string]string{
	"toyota": "Toyota", "honda": "Honda", "ford": "Ford",
	"chevrolet": "Chevrolet", "chevy": "Chevrolet", "nissan": "Nissan",
	"bmw": "BMW", "mercedes": "Mercedes-Benz", "audi": "Audi",
	"volkswagen": "Volkswagen", "vw": "Volkswagen", "hyundai": "Hyundai",
	"kia": "Kia", "subaru": "Subaru", "mazda": "Mazda", "lexus": "Lexus",
	"jeep": "Jeep", "dodge": "Dodge", "ram": "Ram", "gmc": "GMC",
	"tesla": "Tesla", "volvo": "Volvo", "acura": "Acura",
	"infiniti": "Infiniti", "cadillac": "Cadillac", "buick": "Buick",
	"chrysler": "Chrysler",
}

var platePattern = regexp.MustCompile(`\b[A-Z0-9]{5,8}\b`)

// parseVehicleDescription pulls whatever vehicle details a free-text
// description mentions: year, color, make, a following model word and a
// plate-looking token containing at least one digit.
func parseVehicleDescription(text string) fnol.VehicleData {
	v := fnol.VehicleData{}
	lower := strings.ToLower(text)

	v.Year = extractVehicleYear(text)
	for _, color := range vehicleColors {
		if regexp.MustCompile(`\b` + color + `\b`).MatchString(lower) {
			v.Color = titleWords(color)
			break
		}
	}
	words := strings.Fields(lower)
	for i, w := range words {
		cleaned := strings.Trim(w, ".,!?")
		if mk, ok := vehicleMakes[cleaned]; ok {
			v.Make = mk
			if i+1 < len(words) {
				next := strings.Trim(words[i+1], ".,!?")
				if isModelWord(next) {
					v.Model = titleWords(next)
				}
			}
			break
		}
	}
	yearStr := ""
	if v.Year != 0 {
		yearStr = strconv.Itoa(v.Year)
	}
	for _, m := range platePattern.FindAllString(strings.ToUpper(text), -1) {
		if m == yearStr || !strings.ContainsAny(m, "0123456789") {
			continue
		}
		v.LicensePlate = m
		break
	}
	return v
}

// isModelWord filters out tokens that cannot be a model name.
func isModelWord(w string) bool {
	if w == "" || extractVehicleYear(w) != 0 {
		return false
	}
	if _, isMake := vehicleMakes[w]; isMake {
		return false
	}
	for _, color := range vehicleColors {
		if w == color {
			return false
		}
	}
	switch w {
	case "car", "truck", "suv", "van", "sedan", "with", "and", "plate", "license":
		return false
	}
	return true
}

var insuranceCarriers = []struct {
	keyword string
	name    string
}{
	{"state farm", "State Farm"},
	{"geico", "GEICO"},
	{"progressive", "Progressive"},
	{"allstate", "Allstate"},
	{"usaa", "USAA"},
	{"liberty mutual", "Liberty Mutual"},
	{"farmers", "Farmers"},
	{"nationwide", "Nationwide"},
	{"travelers", "Travelers"},
	{"american family", "American Family"},
	{"esurance", "Esurance"},
}

var insurancePolicyPattern = regexp.MustCompile(`\b[A-Z0-9-]{6,15}\b`)

// parseInsuranceInfo pulls a known carrier name and a policy-number-looking
// token from a free-text answer.
func parseInsuranceInfo(text string) (carrier, policyNumber string) {
	lower := strings.ToLower(text)
	for _, c := range insuranceCarriers {
		if strings.Contains(lower, c.keyword) {
			carrier = c.name
			break
		}
	}
	for _, m := range insurancePolicyPattern.FindAllString(strings.ToUpper(text), -1) {
		if strings.ContainsAny(m, "0123456789") {
			policyNumber = m
			break
		}
	}
	return carrier, policyNumber
}

// usStates maps lower-case state names to their postal abbreviations.
var usStates = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT",
	"delaware": "DE", "florida": "FL", "georgia": "GA", "hawaii": "HI",
	"idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME",
	"maryland": "MD", "massachusetts": "MA", "michigan": "MI",
	"minnesota": "MN", "mississippi": "MS", "missouri": "MO",
	"montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM",
	"new york": "NY", "north carolina": "NC", "north dakota": "ND",
	"ohio": "OH", "oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA",
	"rhode island": "RI", "south carolina": "SC", "south dakota": "SD",
	"tennessee": "TN", "texas": "TX", "utah": "UT", "vermont": "VT",
	"virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY",
}

var stateAbbrPattern = regexp.MustCompile(`\b([A-Z]{2})\b`)

// extractUSState finds a US state mentioned in a location string and
// returns its postal abbreviation.
func extractUSState(text string) string {
	lower := strings.ToLower(text)
	// Longest names first so "west virginia" is not read as "virginia".
	names := make([]string, 0, len(usStates))
	for name := range usStates {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	for _, name := range names {
		if strings.Contains(lower, name) {
			return usStates[name]
		}
	}
	valid := map[string]bool{}
	for _, abbr := range usStates {
		valid[abbr] = true
	}
	for _, m := range stateAbbrPattern.FindAllString(text, -1) {
		if valid[m] {
			return m
		}
	}
	return ""
}
