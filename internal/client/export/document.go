// Package export turns revealed locker credentials into a downloadable
// document and writes it to a sink.
//
// Plaintext output is the intended inheritance use: the inheritor needs the
// secrets in a form they can open. A passphrase seals the document instead;
// remote sinks only accept sealed documents.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/cryptox"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json or csv)", s)
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// CSVHeader is the column order of CSV exports.
var CSVHeader = []string{"Title", "Category", "Website", "Account ID", "Username", "Password", "Notes", "Priority"}

type VaultInfo struct {
	Title       string `json:"title"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
	ExportedAt  string `json:"exported_at"`
}

type Credential struct {
	Title             string `json:"title"`
	Category          string `json:"category"`
	WebsiteURL        string `json:"website_url"`
	AccountIdentifier string `json:"account_identifier"`
	Username          string `json:"username"`
	Password          string `json:"password"`
	Notes             string `json:"notes"`
	Priority          int    `json:"priority"`
}

// Document is the exported vault.
type Document struct {
	VaultInfo   VaultInfo    `json:"vault_info"`
	Credentials []Credential `json:"credentials"`
}

// NewDocument builds the export of creds revealed through info at now.
func NewDocument(info models.AccessInfo, creds []models.Credential, now time.Time) Document {
	d := Document{
		VaultInfo: VaultInfo{
			Title:       info.LockerTitle,
			Owner:       info.LockerOwner,
			Description: info.LockerDescription,
			ExportedAt:  now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		},
		Credentials: make([]Credential, 0, len(creds)),
	}
	for _, c := range creds {
		d.Credentials = append(d.Credentials, Credential{
			Title:             c.Title,
			Category:          string(c.Category),
			WebsiteURL:        c.WebsiteURL,
			AccountIdentifier: c.AccountIdentifier,
			Username:          c.Username,
			Password:          c.Password,
			Notes:             c.Notes,
			Priority:          c.Priority,
		})
	}
	return d
}

// Encode renders d in format f.
func (d Document) Encode(f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatCSV:
		return d.encodeCSV(), nil
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// encodeCSV quotes every cell and doubles embedded quotes. Rows are joined
// with a bare newline and there is no trailing newline.
func (d Document) encodeCSV() []byte {
	var buf bytes.Buffer
	writeRow(&buf, CSVHeader)
	for _, c := range d.Credentials {
		buf.WriteByte('\n')
		writeRow(&buf, []string{
			c.Title, c.Category, c.WebsiteURL, c.AccountIdentifier,
			c.Username, c.Password, c.Notes, strconv.Itoa(c.Priority),
		})
	}
	return buf.Bytes()
}

func writeRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
}

// FileName returns digital-legacy-<owner>-<YYYY-MM-DD>.<ext>, with .sealed
// appended for sealed documents.
func FileName(owner string, f Format, now time.Time, sealed bool) string {
	owner = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, owner)

	name := fmt.Sprintf("digital-legacy-%s-%s.%s", owner, now.UTC().Format("2006-01-02"), f)
	if sealed {
		name += ".sealed"
	}
	return name
}

// Artifact is an encoded document ready for a sink.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
	Sealed      bool
}

// Build encodes d and, when passphrase is not empty, seals it.
func Build(d Document, f Format, passphrase []byte, now time.Time) (Artifact, error) {
	data, err := d.Encode(f)
	if err != nil {
		return Artifact{}, err
	}

	a := Artifact{ContentType: f.ContentType(), Data: data}
	if len(passphrase) > 0 {
		sealed, err := cryptox.Seal(data, passphrase)
		if err != nil {
			return Artifact{}, fmt.Errorf("seal export: %w", err)
		}
		a.Data, a.Sealed, a.ContentType = sealed, true, "application/octet-stream"
	}
	a.Name = FileName(d.VaultInfo.Owner, f, now, a.Sealed)
	return a, nil
}
