// Utilities for parsing cURL commands.
//
// RapidAPI's dashboard offers a copy-as-cURL snippet for the recognition
// endpoint; `vibecatch setup --from-curl` imports credentials from it.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// CurlHeaders represents headers parsed from a cURL command.
type CurlHeaders struct {
	Headers map[string]string
}

// ParseCurlFile reads a file containing a cURL command and extracts headers.
func ParseCurlFile(filepath string) (*CurlHeaders, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

var curlHeaderRegex = regexp.MustCompile(`(?:-H|--header)\s+'([^']+)'|(?:-H|--header)\s+"([^"]+)"`)

// ParseCurlCommand parses a cURL command string and extracts headers.
// Header names are lowercased so lookups are case-insensitive.
func ParseCurlCommand(data []byte) (*CurlHeaders, error) {
	curlCmd := strings.ReplaceAll(string(data), "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	for _, match := range curlHeaderRegex.FindAllStringSubmatch(curlCmd, -1) {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
	}

	if len(headers) == 0 {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &CurlHeaders{Headers: headers}, nil
}

// RapidAPI extracts the x-rapidapi-key and x-rapidapi-host header values.
// Returns an error when either is missing.
func (c *CurlHeaders) RapidAPI() (key, host string, err error) {
	key = c.Headers["x-rapidapi-key"]
	host = c.Headers["x-rapidapi-host"]
	if key == "" || host == "" {
		return "", "", fmt.Errorf("curl command is missing x-rapidapi-key or x-rapidapi-host")
	}
	return key, host, nil
}
