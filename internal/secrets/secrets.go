// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads index credentials from plain-text files in a
// secrets directory. One credential exists: the index basic-auth
// password in a file named index-password, its trimmed contents being
// the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const indexPasswordFile = "index-password"

// IndexPassword reads the index basic-auth password from dir. A missing
// directory or file means no password is configured and yields the
// empty string; any other read failure is an error.
func IndexPassword(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, indexPasswordFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading secret %s: %w", indexPasswordFile, err)
	}
	return strings.TrimSpace(string(data)), nil
}
