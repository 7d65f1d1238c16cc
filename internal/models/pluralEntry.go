package models

import (
	"regexp"
	"sort"
)

const (
	LocalizedFormatKey  = "NSStringLocalizedFormatKey"
	FormatSpecTypeKey   = "NSStringFormatSpecTypeKey"
	FormatValueTypeKey  = "NSStringFormatValueTypeKey"
	PluralRuleSpecType  = "NSStringPluralRuleType"
	pluralCategoryCount = 6
)

// PluralCategories lists the CLDR plural categories a variable can carry.
var PluralCategories = [pluralCategoryCount]string{"zero", "one", "two", "few", "many", "other"}

var pluralVariablePattern = regexp.MustCompile(`%#@(.*?)@`)

// PluralVariableNames returns the distinct %#@name@ variables in value, in
// first-seen order.
func PluralVariableNames(value string) []string {
	matches := pluralVariablePattern.FindAllStringSubmatch(value, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Variable is the pluralization rule attached to one format variable. Rules
// are written by translators; the generator only creates empty ones and must
// carry whatever it finds on disk through untouched.
type Variable struct {
	Name       string
	SpecType   string
	ValueType  string
	Categories map[string]string
	// Extra holds keys this tool does not know about, preserved as decoded.
	Extra map[string]any
}

func NewVariable(name string) Variable {
	return Variable{Name: name, SpecType: PluralRuleSpecType}
}

// Merge fills every rule field left empty on v from existing. Structure comes
// from v, translated content from existing.
func (v Variable) Merge(existing Variable) Variable {
	merged := Variable{
		Name:      v.Name,
		SpecType:  firstNonEmpty(existing.SpecType, v.SpecType),
		ValueType: firstNonEmpty(existing.ValueType, v.ValueType),
	}

	if len(v.Categories)+len(existing.Categories) > 0 {
		merged.Categories = make(map[string]string, pluralCategoryCount)
		for category, text := range v.Categories {
			merged.Categories[category] = text
		}
		for category, text := range existing.Categories {
			if text != "" {
				merged.Categories[category] = text
			}
		}
	}

	if len(v.Extra)+len(existing.Extra) > 0 {
		merged.Extra = make(map[string]any, len(v.Extra)+len(existing.Extra))
		for key, value := range v.Extra {
			merged.Extra[key] = value
		}
		for key, value := range existing.Extra {
			merged.Extra[key] = value
		}
	}

	return merged
}

// Dict renders the variable as the dictionary stored in a .stringsdict file.
func (v Variable) Dict() map[string]any {
	dict := make(map[string]any, len(v.Extra)+len(v.Categories)+2)
	for key, value := range v.Extra {
		dict[key] = value
	}
	specType := v.SpecType
	if specType == "" {
		specType = PluralRuleSpecType
	}
	dict[FormatSpecTypeKey] = specType
	if v.ValueType != "" {
		dict[FormatValueTypeKey] = v.ValueType
	}
	for category, text := range v.Categories {
		dict[category] = text
	}
	return dict
}

// VariableFromDict is the inverse of Dict.
func VariableFromDict(name string, dict map[string]any) Variable {
	variable := Variable{Name: name}
	for key, raw := range dict {
		text, isString := raw.(string)
		switch {
		case key == FormatSpecTypeKey && isString:
			variable.SpecType = text
		case key == FormatValueTypeKey && isString:
			variable.ValueType = text
		case isPluralCategory(key) && isString:
			if variable.Categories == nil {
				variable.Categories = make(map[string]string, pluralCategoryCount)
			}
			variable.Categories[key] = text
		default:
			if variable.Extra == nil {
				variable.Extra = make(map[string]any)
			}
			variable.Extra[key] = raw
		}
	}
	return variable
}

// PluralEntry is one row of a .stringsdict table.
type PluralEntry struct {
	Key       string
	Value     string
	Variables []Variable
}

// NewPluralEntry builds an entry with one empty variable per name.
func NewPluralEntry(key string, value string, names []string) PluralEntry {
	variables := make([]Variable, 0, len(names))
	for _, name := range names {
		variables = append(variables, NewVariable(name))
	}
	return PluralEntry{Key: key, Value: value, Variables: variables}
}

func (e PluralEntry) Variable(name string) (Variable, bool) {
	for _, variable := range e.Variables {
		if variable.Name == name {
			return variable, true
		}
	}
	return Variable{}, false
}

// SortedVariableNames returns the variable names in lexical order.
func (e PluralEntry) SortedVariableNames() []string {
	names := make([]string, 0, len(e.Variables))
	for _, variable := range e.Variables {
		names = append(names, variable.Name)
	}
	sort.Strings(names)
	return names
}

// Merge copies translated rule content from existing into e. Callers must
// have checked that value and variable names agree.
func (e PluralEntry) Merge(existing PluralEntry) PluralEntry {
	merged := PluralEntry{Key: e.Key, Value: e.Value, Variables: make([]Variable, 0, len(e.Variables))}
	for _, variable := range e.Variables {
		if previous, ok := existing.Variable(variable.Name); ok {
			variable = variable.Merge(previous)
		}
		merged.Variables = append(merged.Variables, variable)
	}
	return merged
}

// Dict renders the entry as stored under its key in a .stringsdict file.
func (e PluralEntry) Dict() map[string]any {
	dict := make(map[string]any, len(e.Variables)+1)
	dict[LocalizedFormatKey] = e.Value
	for _, variable := range e.Variables {
		dict[variable.Name] = variable.Dict()
	}
	return dict
}

// PluralEntryFromDict decodes the dictionary stored under key. Every
// dictionary-valued member is treated as a variable.
func PluralEntryFromDict(key string, dict map[string]any) PluralEntry {
	entry := PluralEntry{Key: key}
	if value, ok := dict[LocalizedFormatKey].(string); ok {
		entry.Value = value
	}

	names := make([]string, 0, len(dict))
	for name, raw := range dict {
		if _, ok := raw.(map[string]any); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		entry.Variables = append(entry.Variables, VariableFromDict(name, dict[name].(map[string]any)))
	}
	return entry
}

func isPluralCategory(key string) bool {
	for _, category := range PluralCategories {
		if category == key {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
