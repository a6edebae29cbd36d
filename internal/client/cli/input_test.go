package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "trims surrounding space", input: "  alice  \n", want: "alice"},
		{name: "empty line", input: "\n", want: ""},
		{name: "last line without newline", input: "demo", want: "demo"},
		{name: "nothing left", input: "", wantErr: io.EOF},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetSimpleText(reader(tc.input), "Enter username", &out)
			require.Equal(t, "Enter username\n> ", out.String())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func stubReadPassword(t *testing.T, pw []byte, err error) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return pw, err }
}

func TestGetPassword(t *testing.T) {
	t.Run("returns what the terminal read", func(t *testing.T) {
		stubReadPassword(t, []byte("demo1234"), nil)

		var out bytes.Buffer
		pw, err := GetPassword(&out)
		require.NoError(t, err)
		require.Equal(t, []byte("demo1234"), pw)
		require.Equal(t, "Enter password: \n", out.String())
	})

	t.Run("terminal error", func(t *testing.T) {
		boom := errors.New("not a terminal")
		stubReadPassword(t, nil, boom)

		var out bytes.Buffer
		pw, err := GetPassword(&out)
		require.ErrorIs(t, err, boom)
		require.Nil(t, pw)
		require.Equal(t, "Enter password: \n", out.String(), "the prompt line is still closed")
	})
}

func TestGetFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "stops at the first empty line",
			input: "address=1 Main St\ncity=Boston\n\nignored=1\n",
			want:  []string{"address=1 Main St", "city=Boston"},
		},
		{
			name:  "CRLF line endings",
			input: "first_name=Ann\r\nlast_name=Lee\r\n\r\n",
			want:  []string{"first_name=Ann", "last_name=Lee"},
		},
		{
			name:  "blank first line cancels",
			input: "\n",
			want:  []string{},
		},
		{
			name:  "EOF ends input",
			input: "amount=1200",
			want:  []string{"amount=1200"},
		},
		{
			name:  "inner spaces are kept for FieldsFromStrings",
			input: " description = leaking tap \n\n",
			want:  []string{" description = leaking tap "},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetFields(reader(tc.input), "New maintenance", &out)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.True(t, strings.HasPrefix(out.String(), "New maintenance\n"))
		})
	}
}
