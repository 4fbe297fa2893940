// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package encoder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "object",
			text: `!person:
    name = Ada
    quoted = "36"
    age = 36
    ok = true
    zip = 01234
    tags:
        = a
        = 2
    address:
        @kind = home
        city = Berlin
    empty
`,
			want: `{
  "name": "Ada",
  "quoted": "36",
  "age": 36,
  "ok": true,
  "zip": "01234",
  "tags": [
    "a",
    2
  ],
  "address": {
    "kind": "home",
    "city": "Berlin"
  },
  "empty": {}
}
`,
		},

		{
			name: "open value with terminator",
			text: "!doc:\n    v ==\n     x\n    ==\n    w ==\n     y\n",
			want: `{
  "v": "x\n",
  "w": "y"
}
`,
		},

		{
			name: "array document",
			text: "!list:\n    = 1\n    :\n        a = -2.5e3\n",
			want: `[
  1,
  {
    "a": -2.5e3
  }
]
`,
		},

		{
			name: "escaping",
			text: "!doc:\n    a = \"x \\\"y\\\" <z>\"\n",
			want: `{
  "a": "x \"y\" <z>"
}
`,
		},

		{
			name: "alias",
			text: "!$Point:\n    x = %x\n    y = 0\n!doc:\n    p:\n        $Point:\n            %x = 1\n",
			want: `{
  "p": {
    "x": 1,
    "y": 0
  }
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := encode(t, "encoder_test.mlj", tt.text)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.True(t, json.Valid([]byte(got)))
		})
	}
}

func TestJSONLocations(t *testing.T) {
	src := "!doc:\n    a-b = 1\n    items:\n        = x\n        = y\n"

	got, locs, err := encode(t, "loc.mlj", src)
	require.NoError(t, err)
	require.Equal(t, `{
  "a-b": 1,
  "items": [
    "x",
    "y"
  ]
}
`, got)

	var paths []string
	for _, l := range locs {
		paths = append(paths, l.Path)
	}

	require.Equal(t, []string{"/a-b", "/items", "/items/0", "/items/1"}, paths)

	l, ok := locs.Lookup(5, 8)
	require.True(t, ok)
	require.Equal(t, "/items/1", l.Path)
	require.Equal(t, 5, l.Source.Begin().Line)
}
