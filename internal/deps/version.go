package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// ToolVersion runs a binary with its version flag and returns the first
// line of output, which is how ffmpeg and friends report their build.
func ToolVersion(command string, args ...string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("command is required")
	}
	output, err := exec.Command(command, args...).Output()
	if err != nil {
		return "", fmt.Errorf("probe %s version: %w", command, err)
	}
	line, _, _ := strings.Cut(string(output), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%s reported no version", command)
	}
	return line, nil
}
