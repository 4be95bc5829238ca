package utils

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadFileAsString returns a file as a string or an error.
func ReadFileAsString(filename string) (string, error) {
	slog.Debug("Reading from file", "filename", filename)
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadAsString returns r as a string or an error.
func ReadAsString(r io.Reader) (string, error) {
	slog.Debug("Reading from stdin")
	scanner := bufio.NewScanner(r)
	var input strings.Builder
	for scanner.Scan() {
		input.WriteString(scanner.Text())
		input.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading from stdin: %w", err)
	}
	return input.String(), nil
}

// ReadPayload reads a YAML (or JSON) document of key/value data from filename,
// or from stdin when filename is "-".
func ReadPayload(filename string, stdin io.Reader) (map[string]any, error) {
	var (
		doc string
		err error
	)
	if filename == "-" {
		doc, err = ReadAsString(stdin)
	} else {
		doc, err = ReadFileAsString(filename)
	}
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal([]byte(doc), &data); err != nil {
		return nil, fmt.Errorf("payload must be a YAML or JSON object: %w", err)
	}
	return data, nil
}
