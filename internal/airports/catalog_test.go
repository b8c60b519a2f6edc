package airports

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleData = `1,"John F Kennedy International Airport","New York","United States","JFK","KJFK",40.63,-73.77,13,-5,"A","America/New_York","airport","OurAirports"
2,"LaGuardia Airport","New York","United States","LGA","KLGA",40.77,-73.87,21,-5,"A","America/New_York","airport","OurAirports"
3,"Charles de Gaulle International Airport","Paris","France","CDG","LFPG",49.01,2.55,392,1,"E","Europe/Paris","airport","OurAirports"
4,"Some Heliport","Nowhere","Nowhereland",\N,"XXXX",0,0,0,0,"U","UTC","heliport","OurAirports"
5,"Ürümqi Diwopu International Airport","Ürümqi","China","URC","ZWWW",43.90,87.47,2125,8,"U","Asia/Shanghai","airport","OurAirports"
`

func TestParseAndLookups(t *testing.T) {
	c, err := parse(strings.NewReader(sampleData))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Count()) // the \N row is skipped

	assert.ElementsMatch(t, []string{"JFK", "LGA"}, c.CodesByCity("new york"))
	assert.ElementsMatch(t, []string{"JFK", "LGA"}, c.CodesByCity("New York"))
	assert.Empty(t, c.CodesByCity("Atlantis"))

	assert.Equal(t, []string{"CDG"}, c.CodesByName("charles de gaulle international airport"))

	name, ok := c.NameByCode("cdg")
	require.True(t, ok)
	assert.Equal(t, "Charles de Gaulle International Airport", name)

	_, ok = c.NameByCode("ZZZ")
	assert.False(t, ok)

	ap, ok := c.Lookup("JFK")
	require.True(t, ok)
	assert.Equal(t, "New York", ap.City)
	assert.Equal(t, "JFK", ap.IATA)
}

func TestParseEmptyFile(t *testing.T) {
	_, err := parse(strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoData)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.dat"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airports.dat")
	require.NoError(t, os.WriteFile(path, []byte(sampleData), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Count())
}

func TestLookupKeepsMultibyteCity(t *testing.T) {
	c, err := parse(strings.NewReader(sampleData))
	require.NoError(t, err)

	ap, ok := c.Lookup("URC")
	require.True(t, ok)
	assert.Equal(t, "Ürümqi", ap.City)

	assert.Equal(t, []string{"URC"}, c.CodesByCity("ürümqi"))
	assert.Equal(t, []string{"URC"}, c.CodesByCity("Ürümqi"))
}
