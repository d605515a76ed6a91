package utils

import "strings"

var transmissionTypes = map[string]string{
	"1": "Manual",
	"2": "Automatic",
}

var bodyTypes = map[string]string{
	"1":  "Sports / Coupe",
	"2":  "Convertible",
	"3":  "Sedan",
	"4":  "Hatchback",
	"5":  "SUV",
	"6":  "Other",
	"7":  "Van / Bus",
	"8":  "Estate",
	"9":  "MPV",
	"10": "Pickup",
	"11": "Small City Car",
}

// TransmissionLabel turns a numeric transmission code into a label.
// Values that are not codes are returned unchanged, empty input gives "N/A".
func TransmissionLabel(code string) string {
	return label(transmissionTypes, code)
}

// BodyTypeLabel turns a numeric body type code into a label.
func BodyTypeLabel(code string) string {
	return label(bodyTypes, code)
}

func label(table map[string]string, code string) string {
	code = strings.TrimSpace(code)
	if l, ok := table[code]; ok {
		return l
	}
	if code == "" {
		return "N/A"
	}
	return code
}
