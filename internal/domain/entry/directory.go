// Package entry turns raw spreadsheet rows into normalized model.Entry values.
//
// Everything here is a pure function of its inputs; malformed cells degrade to
// empty strings or zero instead of failing.
package entry

import "strings"

const unknownName = "Unknown"

// Directory is a read-only email to alias table.
type Directory struct {
	aliases map[string]string
}

// NewDirectory copies aliases, keying them by normalized email.
func NewDirectory(aliases map[string]string) Directory {
	m := make(map[string]string, len(aliases))
	for email, alias := range aliases {
		m[NormalizeEmail(email)] = alias
	}
	return Directory{aliases: m}
}

// Lookup returns the configured alias for email.
func (d Directory) Lookup(email string) (string, bool) {
	alias, ok := d.aliases[NormalizeEmail(email)]
	return alias, ok
}

// Len returns the number of configured members.
func (d Directory) Len() int { return len(d.aliases) }

// DisplayName resolves the name shown for email: the alias when known,
// otherwise the local part of the address, otherwise "Unknown". The result
// is title-cased.
func (d Directory) DisplayName(email string) string {
	if alias, ok := d.Lookup(email); ok && strings.TrimSpace(alias) != "" {
		return NormalizeCategory(alias)
	}
	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	if local == "" {
		return unknownName
	}
	return NormalizeCategory(local)
}

// NormalizeEmail trims and lowercases an address so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
