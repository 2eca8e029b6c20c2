package utils

import (
	"bufio"
	"os"
	"strings"
)

// ReadFromStdin reads a message piped into standard input.
func ReadFromStdin() (string, error) {
	return ReadMessage(os.Stdin)
}

// ReadMessage reads a commit message from f. Lines starting with # are
// dropped, as git does for edited messages. A terminal or an empty regular
// file yields "" without blocking.
func ReadMessage(f *os.File) (string, error) {
	stat, err := f.Stat()
	if err != nil {
		return "", err
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	if stat.Mode().IsRegular() && stat.Size() == 0 {
		return "", nil
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
