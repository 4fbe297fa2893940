// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package encoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeXML(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "nested elements",
			text: "!doc:\n    book:\n        @id = 5\n        title = Go\n        toc\n        toc\n",
			want: `<?xml version="1.0" encoding="UTF-8"?>
<book id="5">
    <title>Go</title>
    <toc/>
    <toc/>
</book>
`,
		},

		{
			name: "escaping",
			text: "!doc:\n    a:\n        @q = \"say \\\"hi\\\" & go\"\n        b = \"x<y\"\n",
			want: `<?xml version="1.0" encoding="UTF-8"?>
<a q="say &quot;hi&quot; &amp; go">
    <b>x&lt;y</b>
</a>
`,
		},

		{
			name: "namespaces",
			text: "#x = http://x.org/ns\n!$Z:\n    #z = urn:z\n    z.other\n!doc:\n    #y = urn:y\n    x.root:\n        y.item = 1\n        $Z\n",
			want: `<?xml version="1.0" encoding="UTF-8"?>
<x:root xmlns:x="http://x.org/ns" xmlns:y="urn:y">
    <y:item>1</y:item>
    <z:other xmlns:z="urn:z"/>
</x:root>
`,
		},

		{
			name: "alias expansion",
			text: `!$Addr:
    @kind = home
    street = %street

!doc:
    person:
        @name = Ada
        $Addr:
            %street = Main
`,
			want: `<?xml version="1.0" encoding="UTF-8"?>
<person name="Ada" kind="home">
    <street>Main</street>
</person>
`,
		},

		{
			name: "open value",
			text: "!doc:\n    a:\n        v ==\n         x\n",
			want: `<?xml version="1.0" encoding="UTF-8"?>
<a>
    <v>x</v>
</a>
`,
		},

		{
			name: "open value with terminator",
			text: "!doc:\n    a:\n        v ==\n         x\n        ==\n",
			want: `<?xml version="1.0" encoding="UTF-8"?>
<a>
    <v>x
</v>
</a>
`,
		},

		{
			name: "empty value",
			text: "!doc:\n    a:\n        b =\n",
			want: `<?xml version="1.0" encoding="UTF-8"?>
<a>
    <b></b>
</a>
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := encode(t, "encoder_test.mlx", tt.text)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestXMLLocations(t *testing.T) {
	src := "!doc:\n    root:\n        @id = 1\n        item = a\n        item = b\n"

	got, locs, err := encode(t, "loc.mlx", src)
	require.NoError(t, err)
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<root id="1">
    <item>a</item>
    <item>b</item>
</root>
`, got)

	var paths []string
	for _, l := range locs {
		paths = append(paths, l.Path)
	}

	require.Equal(t, []string{"/root[1]", "/root[1]/@id", "/root[1]/item[1]", "/root[1]/item[2]"}, paths)

	l, ok := locs.Lookup(4, 7)
	require.True(t, ok)
	require.Equal(t, "/root[1]/item[2]", l.Path)
	require.Equal(t, 5, l.Source.Begin().Line)
	require.Equal(t, 9, l.Source.Begin().Col)

	l, ok = locs.Lookup(2, 8)
	require.True(t, ok)
	require.Equal(t, "/root[1]/@id", l.Path)
	require.Equal(t, 3, l.Source.Begin().Line)
}
