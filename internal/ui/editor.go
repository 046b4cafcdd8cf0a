package ui

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// buildEditorCommand turns the configured open_command template into an
// exec.Cmd for the given file. "{file}" and "{line}" placeholders are
// substituted; without a "{file}" placeholder the path is appended as the
// final argument, matching editors like "code" or "vi".
func buildEditorCommand(template, path string, line int) (*exec.Cmd, error) {
	parts, err := shlex.Split(template)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	if line < 1 {
		line = 1
	}
	lineStr := strconv.Itoa(line)

	hasFile := false
	args := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.Contains(part, "{file}") {
			hasFile = true
			part = strings.ReplaceAll(part, "{file}", path)
		}
		part = strings.ReplaceAll(part, "{line}", lineStr)
		args = append(args, part)
	}
	if !hasFile {
		args = append(args, path)
	}

	return exec.Command(args[0], args[1:]...), nil
}
