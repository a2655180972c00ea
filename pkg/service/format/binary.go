package format

import (
	"log"
	"os"
	"os/exec"
)

// locateBinary prefers a configured path, then searches PATH. Empty means unavailable.
func locateBinary(tag, configured, name string) string {
	if configured != "" && configured != name {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		log.Printf("[%s] configured path '%s' is invalid, searching PATH.", tag, configured)
	}
	found, err := exec.LookPath(name)
	if err != nil {
		log.Printf("[%s] '%s' not found, strategy disabled.", tag, name)
		return ""
	}
	log.Printf("[%s] using '%s'.", tag, found)
	return found
}
