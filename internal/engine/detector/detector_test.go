package detector

import (
	"testing"

	"simpleimport/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind_ByModule(t *testing.T) {
	source := "import React from \"react\";\nconst x = 1;\n"

	r, ok := Find("Whatever", "react", source)
	require.True(t, ok)
	assert.Equal(t, parser.Region{Start: 0, End: 26}, r)
	assert.Equal(t, `import React from "react";`, source[r.Start:r.End])
}

func TestFind_ByName(t *testing.T) {
	source := `import Button from "./Button";`

	r, ok := Find("Button", "./components/Button", source)
	require.True(t, ok)
	assert.Equal(t, source, source[r.Start:r.End])
}

func TestFind_ModuleBeforeName(t *testing.T) {
	source := "import Foo from \"./foo\";\nimport Bar from \"./bar\";\n"

	r, ok := Find("Bar", "./foo", source)
	require.True(t, ok)
	assert.Equal(t, `import Foo from "./foo";`, source[r.Start:r.End])
}

func TestFind_NamedImport(t *testing.T) {
	source := "import { useState } from 'react'\n"

	r, ok := Find("useState", "react", source)
	require.True(t, ok)
	assert.Equal(t, `import { useState } from 'react'`, source[r.Start:r.End])
}

func TestFind_Require(t *testing.T) {
	cases := map[string]string{
		"const _ = require('lodash');":       "lodash",
		"var get = require(\"lodash\").get;": "lodash",
		"let fs = require( 'fs' )":           "fs",
		"path = require(\"path\");":          "path",
	}
	for source, module := range cases {
		r, ok := Find("", module, source)
		require.True(t, ok, source)
		assert.Equal(t, source, source[r.Start:r.End], source)
	}
}

func TestFind_MatchesStayOnOneLine(t *testing.T) {
	source := "import a from \"x\"\nimport b from \"y\""

	r, ok := Find("zz", "y", source)
	require.True(t, ok)
	assert.Equal(t, parser.Region{Start: 18, End: 35}, r)
}

func TestFind_LiteralsAreEscaped(t *testing.T) {
	source := `import x from "./aab";`

	_, ok := Find("y", "./a+b", source)
	assert.False(t, ok, "module must match literally")

	_, ok = Find("x.", "./other", `import xy from "./zzz";`)
	assert.False(t, ok, "name must match literally")
}

func TestFind_NotImported(t *testing.T) {
	for _, tc := range []struct{ name, module, source string }{
		{"React", "react", ""},
		{"React", "react", "const x = 1;\n"},
		{"", "", "import a from \"b\";"},
	} {
		_, ok := Find(tc.name, tc.module, tc.source)
		assert.False(t, ok, "%q/%q in %q", tc.name, tc.module, tc.source)
	}
}

func TestFind_ReplaceIsIdempotent(t *testing.T) {
	source := "const React = require(\"react\");\nrender();\n"
	statement := `import React from "react";`

	r, ok := Find("React", "react", source)
	require.True(t, ok)
	once := source[:r.Start] + statement + source[r.End:]

	r, ok = Find("React", "react", once)
	require.True(t, ok)
	assert.Equal(t, statement, once[r.Start:r.End])
	twice := once[:r.Start] + statement + once[r.End:]

	assert.Equal(t, once, twice)
}
