package config

import (
	"fmt"
	"os"
)

// ValidateDirectories checks that the grid directory exists.
func ValidateDirectories(c *Config) error {
	info, err := os.Stat(c.GridDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("grid directory does not exist: %s\nHint: Run 'colony init' or 'colony seed <pattern>' to create it, or use --grid-dir to point elsewhere", c.GridDir)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("grid path is not a directory: %s", c.GridDir)
	}
	return nil
}
