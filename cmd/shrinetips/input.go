package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shrinetips/shrinetips-go/internal/safefile"
)

// maxInputSize bounds item text read from a file or stdin (1MB).
const maxInputSize = 1024 * 1024

// readInput reads the file named by args[0], or stdin when args is empty
// or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxInputSize+1))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if len(data) > maxInputSize {
			return "", fmt.Errorf("input too large (max %d bytes)", maxInputSize)
		}
		return string(data), nil
	}

	data, err := safefile.ReadFile(args[0], maxInputSize)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
