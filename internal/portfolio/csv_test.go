package portfolio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := "Notes,Links,Techstack\n" +
		"first,http://x,\"React, Node.js\"\n" +
		"second,http://y\n"
	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Techstack: "React, Node.js", Links: "http://x"},
		{Techstack: "", Links: "http://y"},
	}, got)
}

func TestReadCSV_ByteOrderMark(t *testing.T) {
	got, err := ReadCSV(strings.NewReader("\ufeffTechstack,Links\nGo,http://go\n"))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Techstack: "Go", Links: "http://go"}}, got)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	got, err := ReadCSV(strings.NewReader("Techstack,Links\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing links column", "Techstack,Url\nGo,http://go\n"},
		{"missing techstack column", "Skills,Links\nGo,http://go\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
