package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows(t *testing.T) {
	input := `{"name":"Joe's Pizza","rating":4.5,"price":"$","coordinates":{"latitude":40.73,"longitude":-73.99},"categories":[{"alias":"pizza","title":"Pizza"}],"location":{"display_address":["7 Carmine St"]}}

{"name":"No Coords","rating":3,"coordinates":{"latitude":null,"longitude":null}}
`
	rows, err := readRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Joe's Pizza", rows[0].Name)
	assert.Equal(t, 4.5, *rows[0].Rating)
	assert.Equal(t, "$", *rows[0].Price)
	assert.Equal(t, "pizza", rows[0].Categories[0].Alias)
	assert.Equal(t, []string{"7 Carmine St"}, rows[0].Location.DisplayAddress)

	assert.Nil(t, rows[1].Coordinates.Latitude)
}

func TestReadRows_InvalidLine(t *testing.T) {
	_, err := readRows(strings.NewReader("{\"name\":\"ok\"}\nnot json\n"))
	assert.ErrorContains(t, err, "line 2")
}
