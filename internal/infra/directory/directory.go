// Package directory maps inbound telephony numbers (the webhook's To field)
// to the business that owns them. The mapping is static: it is assembled once
// at startup from configuration and never changes while the process runs.
package directory

import "strings"

type Business struct {
	Name    string
	Phone   string
	FormURL string
}

type Directory struct {
	byNumber map[string]Business
}

// New builds a directory from configured entries. Entries use the format
// "+14435551234=Business Name|https://forms.example.com/biz", separated by
// commas. A malformed entry is skipped.
func New(raw string) *Directory {
	d := &Directory{byNumber: make(map[string]Business)}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		number, rest, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name, formURL, ok := strings.Cut(rest, "|")
		if !ok {
			continue
		}

		d.Register(Business{
			Name:    strings.TrimSpace(name),
			Phone:   normalize(number),
			FormURL: strings.TrimSpace(formURL),
		})
	}

	return d
}

func (d *Directory) Register(b Business) {
	if b.Phone == "" {
		return
	}
	d.byNumber[normalize(b.Phone)] = b
}

func (d *Directory) Lookup(number string) (Business, bool) {
	b, ok := d.byNumber[normalize(number)]
	return b, ok
}

func normalize(number string) string {
	var sb strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' || r == '+' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
