// Package airports loads the OpenFlights-style airports reference file and
// answers IATA code lookups. The file is read once at startup; lookups run
// against prebuilt indexes.
package airports

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexvl/flight-offer-reservation/internal/model"
)

// Column layout of the airports data file. Only name, city and iata_code
// are consumed; the remaining columns are positional padding.
const (
	colName = 1
	colCity = 2
	colIATA = 4

	// minColumns is the number of fields a row must have to cover the
	// columns the catalog reads.
	minColumns = 5
)

// ErrNoData is returned when the airports file exists but contains no
// usable rows. A catalog without data would make every search fail at the
// input step, so this is fatal at load time.
var ErrNoData = errors.New("airports: data file contains no usable rows")

// Catalog holds the loaded airport reference data, indexed for the three
// lookups the service needs.
type Catalog struct {
	byCity map[string][]string // lowercase city -> IATA codes
	byName map[string][]string // lowercase airport name -> IATA codes
	byIATA map[string]string   // uppercase IATA code -> airport name
	count  int
}

// Load reads the airports data file at path. Rows missing any of the
// required fields (or using the "\N" null marker) are skipped; a file that
// yields zero usable rows is an error.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("airports: open %s: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row length varies across dataset versions

	c := &Catalog{
		byCity: make(map[string][]string),
		byName: make(map[string][]string),
		byIATA: make(map[string]string),
	}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("airports: parse data file: %w", err)
		}
		if len(rec) < minColumns {
			continue
		}
		name := strings.TrimSpace(rec[colName])
		city := strings.TrimSpace(rec[colCity])
		iata := strings.ToUpper(strings.TrimSpace(rec[colIATA]))
		if name == "" || city == "" || iata == "" || iata == `\N` {
			continue
		}
		c.byCity[strings.ToLower(city)] = append(c.byCity[strings.ToLower(city)], iata)
		c.byName[strings.ToLower(name)] = append(c.byName[strings.ToLower(name)], iata)
		if _, dup := c.byIATA[iata]; !dup {
			c.byIATA[iata] = name
		}
		c.count++
	}
	if c.count == 0 {
		return nil, ErrNoData
	}
	return c, nil
}

// Count reports how many airports were loaded.
func (c *Catalog) Count() int { return c.count }

// CodesByCity returns the IATA codes of all airports serving the given
// city. The match is case-insensitive; an unknown city yields an empty
// slice.
func (c *Catalog) CodesByCity(city string) []string {
	return append([]string(nil), c.byCity[strings.ToLower(strings.TrimSpace(city))]...)
}

// CodesByName returns the IATA codes matching an exact airport name,
// case-insensitively.
func (c *Catalog) CodesByName(name string) []string {
	return append([]string(nil), c.byName[strings.ToLower(strings.TrimSpace(name))]...)
}

// NameByCode resolves an IATA code to the airport name. The second return
// value reports whether the code is known.
func (c *Catalog) NameByCode(code string) (string, bool) {
	name, ok := c.byIATA[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// Lookup returns the full airport record for an IATA code.
func (c *Catalog) Lookup(code string) (model.Airport, bool) {
	iata := strings.ToUpper(strings.TrimSpace(code))
	name, ok := c.byIATA[iata]
	if !ok {
		return model.Airport{}, false
	}
	// City is recovered by scanning the city index; the catalog is small
	// enough that the reverse index is not worth carrying.
	for city, codes := range c.byCity {
		for _, cd := range codes {
			if cd == iata {
				return model.Airport{Name: name, City: titleCity(city), IATA: iata}, true
			}
		}
	}
	return model.Airport{Name: name, IATA: iata}, true
}

func titleCity(city string) string {
	parts := strings.Fields(city)
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}
