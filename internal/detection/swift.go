package detection

import "regexp"

var (
	swiftValue        = argument{expr: `"([^"\n]+)"`, field: valueField, captures: true}
	swiftComment      = argument{expr: `"([^"\n]*)"`, field: commentField, captures: true}
	swiftKeyExtension = argument{expr: `"([^"\n]*)"`, field: keyExtensionField, captures: true}
	swiftBundle       = argument{expr: `"([^"\n]*)"`, field: bundleField, captures: true}

	swiftKeyExtensionLabel = argument{expr: `keyExtension:\s*"([^"\n]*)"`, field: keyExtensionField, captures: true}
	swiftBundleLabel       = argument{expr: `bundleName:\s*"([^"\n]*)"`, field: bundleField, captures: true}
)

// Swift detects calls written with plain string literals, including the
// labelled keyExtension:/bundleName: arguments of Localized.
var Swift Dialect = patternDialect{
	name:       "Swift",
	extensions: []string{".swift"},
	calls: []callPattern{
		newCallPattern("Localized", swiftValue, swiftComment),
		newCallPattern("LocalizedWithKeyExtension", swiftValue, swiftComment, swiftKeyExtension),
		newCallPattern("LocalizedWithBundle", swiftValue, swiftComment, swiftBundle),
		newCallPattern("LocalizedWithKeyExtensionAndBundle", swiftValue, swiftComment, swiftKeyExtension, swiftBundle),
		newCallPattern("Localized", swiftValue, swiftComment, swiftKeyExtensionLabel),
		newCallPattern("Localized", swiftValue, swiftComment, swiftBundleLabel),
		newCallPattern("Localized", swiftValue, swiftComment, swiftKeyExtensionLabel, swiftBundleLabel),
	},
	declarations: regexp.MustCompile(`^(?:(?:@\w+|public|internal|private|fileprivate|open|static|class|final)\s+)*func\s`),
}
