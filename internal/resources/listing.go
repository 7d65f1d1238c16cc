package resources

import (
	"bytes"

	"github.com/localizedstringkit/lsk/internal/models"
)

// RenderListing produces the intermediate Objective-C listing for one bundle:
// one NSLocalizedStringWithDefaultValue call per line, in the given order.
func RenderListing(strings []models.LocalizedString) []byte {
	var buf bytes.Buffer
	for _, s := range strings {
		buf.WriteString(s.NSLocalizedFormat())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
