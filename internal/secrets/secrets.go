// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads private per-user settings from a directory of
// plain-text files. Each file is one value: the filename is the key and the
// trimmed contents are the value.
//
// Supported key files: dblp-contact (an email address or URL added to the
// User-Agent so DBLP operators can reach the user).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ContactKey names the file holding the contact address.
const ContactKey = "dblp-contact"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, log logrus.FieldLogger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.WithError(err).WithField("file", name).Warn("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// UserAgent appends the contact secret, if any, to base:
// "bibcloud/0.1 (+mailto:me@example.org)".
func UserAgent(base string, secrets map[string]string) string {
	contact, ok := secrets[ContactKey]
	if !ok {
		return base
	}
	if strings.Contains(contact, "@") && !strings.Contains(contact, ":") {
		contact = "mailto:" + contact
	}
	return fmt.Sprintf("%s (+%s)", base, contact)
}
