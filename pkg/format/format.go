// Package format renders tab snapshots as clipboard text.
package format

import (
	"strings"

	"github.com/entrhq/tabcopy/pkg/types"
)

// ToText returns the URL of every tab followed by a newline, in input order.
func ToText(tabs []types.TabDescriptor) string {
	var builder strings.Builder
	for _, tab := range tabs {
		builder.WriteString(tab.URL)
		builder.WriteByte('\n')
	}
	return builder.String()
}
