package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	commandName = "xbuild"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Permission mode for generated executable scripts.
	ScriptMode os.FileMode = 0755
)

// Path to the user-level configuration file holding default flag values.
//
//	Linux:   ~/.config/xbuild/config.json
//	macOS:   ~/Library/Application Support/xbuild/config.json
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, commandName, "config.json")
}
