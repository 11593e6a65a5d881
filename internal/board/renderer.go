package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultTemplateName = "templates/board.html"

// Board substitutes fragments into a template and writes the result.
type Board struct {
	// Empty means the embedded default template.
	TemplatePath string
	OutputPath   string
}

func (board *Board) LoadTemplate() (string, error) {
	if board.TemplatePath == "" {
		data, err := templatesFS.ReadFile(defaultTemplateName)
		return string(data), err
	}

	data, err := os.ReadFile(board.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(data), nil
}

// Substitute replaces every "Row <i>" token with fragments[i], in index order.
func Substitute(template string, fragments []string) string {
	for i, fragment := range fragments {
		template = strings.ReplaceAll(template, fmt.Sprintf("Row %d", i), fragment)
	}
	return template
}

// Write renders fragments into the output file. The file is replaced
// atomically so a browser never sees a partial board.
func (board *Board) Write(fragments []string) error {
	template, err := board.LoadTemplate()
	if err != nil {
		return err
	}

	dir := filepath.Dir(board.OutputPath)
	tmpFile, err := os.CreateTemp(dir, ".board-*.html")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(Substitute(template, fragments)); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmpFile.Name(), board.OutputPath)
}

func (board *Board) AbsOutputPath() (string, error) {
	return filepath.Abs(board.OutputPath)
}
