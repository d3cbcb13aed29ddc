package gen

import (
	"bufio"
	"io"
)

// defaultIndent is used when a Writer has no indent sequence configured.
const defaultIndent = "    "

// Writer renders a chunk sequence as text: each chunk's code preceded by
// Indent copies of the indent sequence and followed by its newline count.
type Writer struct {
	// Indent is the sequence written once per indent level. Empty means
	// four spaces.
	Indent string
}

// Write renders chunks to out.
func (w Writer) Write(out io.Writer, chunks []Chunk) error {
	indent := w.Indent
	if indent == "" {
		indent = defaultIndent
	}

	buffered := bufio.NewWriter(out)
	for _, chunk := range chunks {
		for i := 0; i < chunk.Indent; i++ {
			if _, err := buffered.WriteString(indent); err != nil {
				return err
			}
		}
		if _, err := buffered.WriteString(chunk.Code); err != nil {
			return err
		}
		for i := 0; i < chunk.Newlines; i++ {
			if err := buffered.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return buffered.Flush()
}
