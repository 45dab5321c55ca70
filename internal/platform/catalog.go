package platform

import "os"

// Returns the platforms available under a root directory.
//
// Each immediate subdirectory of root names one platform. Entries that are
// not directories are excluded. A missing or unreadable root yields an empty
// catalog, not an error: an absent build or test tree simply means there is
// nothing to do for that root. The result order follows the directory
// listing, which is lexical and therefore stable across invocations.
func List(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var platforms []string
	for _, entry := range entries {
		if entry.IsDir() {
			platforms = append(platforms, entry.Name())
		}
	}
	return platforms
}
