package catalogue

import (
	"fmt"

	"github.com/shrinetips/shrinetips-go/internal/safefile"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/kb"
)

// MaxFileSize is the maximum allowed size for a knowledge-base file (4MB).
const MaxFileSize = 4 * 1024 * 1024

// Load reads and decodes a knowledge-base file. The decoder is chosen from
// the file extension (.json/.js or .yaml/.yml) and sniffed otherwise.
//
// Errors never contain the path.
func Load(path string) (kb.Value, error) {
	data, err := safefile.ReadFile(path, MaxFileSize)
	if err != nil {
		return kb.Value{}, err
	}
	return LoadBytes(data, kb.FormatFromPath(path))
}

// LoadBytes decodes an in-memory knowledge base, such as a fetched payload.
// Payloads larger than MaxFileSize are rejected.
func LoadBytes(data []byte, format kb.Format) (kb.Value, error) {
	if len(data) > MaxFileSize {
		return kb.Value{}, &CatalogueError{
			Message: fmt.Sprintf("payload too large: %d bytes (max %d)", len(data), MaxFileSize),
		}
	}
	return kb.Decode(data, format)
}

// BuildFromFile is a convenience function that loads a knowledge-base file
// and builds a Catalogue in one step.
//
// Example:
//
//	cat, err := catalogue.BuildFromFile("shrines.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
func BuildFromFile(path string, opts ...Option) (*Catalogue, error) {
	tree, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Build(tree, opts...)
}
