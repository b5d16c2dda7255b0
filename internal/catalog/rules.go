package catalog

import "strings"

// The inference tables below are ordered; the first matching rule wins. They
// are data rather than conditionals so individual rules can be tested and the
// vocabulary extended without touching the dispatch.

type typeRule struct {
	keywords  []string
	fieldType FieldType
}

var typeRules = []typeRule{
	{[]string{"date"}, FieldTypeDate},
	{[]string{"email"}, FieldTypeEmail},
	{[]string{"number", "amount", "reg_no"}, FieldTypeNumber},
	{[]string{"url"}, FieldTypeURL},
	{[]string{"gender", "relation", "he_she", "his_her", "relationship", "religion", "level"}, FieldTypeOption},
}

type valueRule struct {
	keywords []string
	value    string
}

var defaultValueRules = []valueRule{
	{[]string{"name", "full_name", "student_name", "applicant_name"}, "Joe Doe"},
	{[]string{"address", "sender_address", "my_address", "location", "residence"}, "24 Avenue Avenue, Osato Junction, Benin City, Edo State"},
	{[]string{"street"}, "24 Avenue Avenue"},
	{[]string{"city", "town"}, "Benin City"},
	{[]string{"state"}, "Edo State"},
	{[]string{"department", "dept"}, "Production Engineering"},
	{[]string{"faculty"}, "Engineering"},
	{[]string{"college", "institution", "university", "school"}, "University of Benin"},
	{[]string{"mat_no", "matric_no", "reg_no", "id", "student_id", "registration_number"}, "ENG2204223"},
	{[]string{"gender"}, "Male"},
	{[]string{"his_her", "his_she"}, "his"},
	{[]string{"him_her", "him_she"}, "him"},
	{[]string{"he_she", "heshe"}, "he"},
	// Date-like fields stay blank; the transformer fills the current date
	// at render time.
	{[]string{"date", "time"}, ""},
}

var helpTextRules = []valueRule{
	{[]string{"name", "full_name"}, "Enter your full name (e.g., John Smith)"},
	{[]string{"address"}, "Enter your full address separated by commas"},
	{[]string{"department"}, "Enter your department name"},
	{[]string{"faculty"}, "Enter your faculty name"},
	{[]string{"mat_no", "reg_no", "jamb_reg_no"}, "Enter your matriculation/registration number"},
	{[]string{"date"}, "Leave blank for current date or enter custom date"},
	{[]string{"gender"}, "Select your gender"},
	{[]string{"email"}, "Enter your email address"},
}

type optionRule struct {
	keywords []string
	options  []string
}

var optionRules = []optionRule{
	{[]string{"gender"}, []string{"Male", "Female"}},
	{[]string{"his_her"}, []string{"his", "her"}},
	{[]string{"him_her"}, []string{"him", "her"}},
	{[]string{"he_she"}, []string{"he", "she"}},
	{[]string{"religion"}, []string{"Christian", "Muslim"}},
	{[]string{"relationship", "relation"}, []string{"son", "daughter", "niece", "nephew", "brother", "sister"}},
}

// InferType classifies a field by its base name.
func InferType(baseName string) FieldType {
	lower := strings.ToLower(baseName)
	for _, rule := range typeRules {
		if containsAny(lower, rule.keywords) {
			return rule.fieldType
		}
	}
	return FieldTypeText
}

// InferDefault derives the pre-filled form value for a base name. Unmatched
// names fall back to a humanized prompt.
func InferDefault(baseName string) string {
	lower := strings.ToLower(baseName)
	for _, rule := range defaultValueRules {
		if containsAny(lower, rule.keywords) {
			return rule.value
		}
	}
	return "Enter " + Humanize(baseName)
}

// InferHelpText derives the form help text for a base name.
func InferHelpText(baseName string) string {
	lower := strings.ToLower(baseName)
	for _, rule := range helpTextRules {
		if containsAny(lower, rule.keywords) {
			return rule.value
		}
	}
	return "Please enter " + strings.ToLower(Humanize(baseName))
}

// InferOptions derives the choice list for option-typed fields. Non-option
// vocabulary yields nil.
func InferOptions(baseName string) []string {
	lower := strings.ToLower(baseName)
	for _, rule := range optionRules {
		if containsAny(lower, rule.keywords) {
			return append([]string(nil), rule.options...)
		}
	}
	return nil
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
