package detection

import "regexp"

var (
	objcValue        = argument{expr: `@"([^"\n]+)"`, field: valueField, captures: true}
	objcComment      = argument{expr: `@"([^"\n]*)"`, field: commentField, captures: true}
	objcKeyExtension = argument{expr: `@"([^"\n]*)"`, field: keyExtensionField, captures: true}
	objcBundle       = argument{expr: `@"([^"\n]*)"`, field: bundleField, captures: true}
	objcNil          = argument{expr: `nil`}
)

// ObjectiveC detects calls whose arguments are @"" literals. The trailing
// table name of the C API selects the bundle; nil keeps the default one.
var ObjectiveC Dialect = patternDialect{
	name:       "Objective-C",
	extensions: []string{".m"},
	calls: []callPattern{
		newCallPattern("Localized", objcValue, objcComment),
		newCallPattern("LocalizedWithKeyExtension", objcValue, objcComment, objcKeyExtension),
		newCallPattern("LocalizedWithBundle", objcValue, objcComment, objcBundle),
		newCallPattern("LocalizedWithKeyExtensionAndBundle", objcValue, objcComment, objcKeyExtension, objcBundle),
		newCallPattern("Localized", objcValue, objcComment, objcNil),
		newCallPattern("Localized", objcValue, objcComment, objcBundle),
		newCallPattern("LocalizedWithKeyExtension", objcValue, objcComment, objcKeyExtension, objcNil),
		newCallPattern("LocalizedWithKeyExtension", objcValue, objcComment, objcKeyExtension, objcBundle),
	},
	declarations: regexp.MustCompile(`^(?:(?:static|extern|FOUNDATION_EXPORT|inline)\s+)*NSString\s*\*\s*(?:(?:_Nonnull|_Nullable|_Null_unspecified|nonnull|nullable)\s+)*\w+\s*\(`),
}
