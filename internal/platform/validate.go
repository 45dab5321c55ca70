package platform

import (
	"fmt"
	"strings"
)

// Separator for multi-value platform and tool selections.
const selectionSeparator = ","

// Describes a selection that names platforms or tools that do not exist.
//
// Available lists the valid alternatives so the error message can point the
// user at what would have been accepted.
type ValidationError struct {
	Platform  string   // Platform being validated; empty for platform-level validation.
	Root      string   // Root directory the selection was validated against.
	Invalid   []string // Requested names that did not resolve.
	Available []string // Names that would have been accepted.
}

// Formats the validation failure with the full list of valid alternatives.
func (e *ValidationError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no platform directories found in %s/", e.Root)
	}
	if e.Platform != "" {
		return fmt.Sprintf("invalid tools for platform %s: %s (available: %s)",
			e.Platform, strings.Join(e.Invalid, ", "), strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("invalid platforms: %s (valid platforms in %s/: %s)",
		strings.Join(e.Invalid, ", "), e.Root, strings.Join(e.Available, ", "))
}

// Splits a comma-separated selection into trimmed tokens.
func splitSelection(s string) []string {
	parts := strings.Split(s, selectionSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Validates a requested tool selection for one platform.
//
// An empty request selects every tool discovered for the platform. A
// non-empty request is split on commas and checked against discovery for
// this exact platform; any unknown name rejects the whole selection with a
// [ValidationError]. Valid explicit selections are returned in execution
// order (the discovery order), not in request order, so that step order
// numbers stay authoritative.
func ValidateTools(requested, root, platform, prefix string) ([]string, error) {
	available := Tools(root, platform, prefix)

	if strings.TrimSpace(requested) == "" {
		return available, nil
	}

	wanted := splitSelection(requested)

	member := make(map[string]bool, len(available))
	for _, name := range available {
		member[name] = true
	}

	var invalid []string
	selected := make(map[string]bool, len(wanted))
	for _, name := range wanted {
		if !member[name] {
			invalid = append(invalid, name)
			continue
		}
		selected[name] = true
	}

	if len(invalid) > 0 {
		return nil, &ValidationError{
			Platform:  platform,
			Root:      root,
			Invalid:   invalid,
			Available: available,
		}
	}

	var tools []string
	for _, name := range available {
		if selected[name] {
			tools = append(tools, name)
		}
	}
	return tools, nil
}

// Validates a requested platform selection against the catalog for root.
//
// An empty request selects the whole catalog. A non-empty request is split
// on commas and checked for strict membership; unknown names reject the
// request. An empty catalog combined with a non-empty request is an error
// naming the root, since nothing could possibly match. Valid explicit
// selections keep the user's left-to-right order.
func ValidatePlatforms(requested, root string) ([]string, error) {
	available := List(root)

	if strings.TrimSpace(requested) == "" {
		return available, nil
	}

	wanted := splitSelection(requested)

	if len(available) == 0 {
		return nil, &ValidationError{Root: root, Invalid: wanted}
	}

	member := make(map[string]bool, len(available))
	for _, name := range available {
		member[name] = true
	}

	var invalid []string
	for _, name := range wanted {
		if !member[name] {
			invalid = append(invalid, name)
		}
	}

	if len(invalid) > 0 {
		return nil, &ValidationError{
			Root:      root,
			Invalid:   invalid,
			Available: available,
		}
	}

	return wanted, nil
}
