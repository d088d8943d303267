package render

import (
	"testing"

	"simpleimport/internal/core/config"
	coreerrors "simpleimport/internal/core/errors"
	"simpleimport/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolved(t *testing.T, token, context string, s config.Settings) *parser.ImportSpec {
	t.Helper()
	spec := parser.Parse(token, context, s)
	require.NoError(t, spec.Resolve(""))
	return &spec
}

func TestRender_RoundTrip(t *testing.T) {
	es := config.Defaults()
	cjs := config.Defaults()
	cjs.ES6ByDefault = false

	got, err := Render(resolved(t, "foo:./bar", "", es), false, es)
	require.NoError(t, err)
	assert.Equal(t, `import foo from "./bar";`, got)

	got, err = Render(resolved(t, "foo:./bar", "", cjs), false, cjs)
	require.NoError(t, err)
	assert.Equal(t, `const foo = require("./bar");`, got)
}

func TestRender_Forms(t *testing.T) {
	s := config.Defaults()

	cases := []struct {
		name      string
		token     string
		context   string
		forceFull bool
		want      string
	}{
		{name: "Named", token: "useState::react", want: `import { useState } from "react";`},
		{name: "AlternativeDefault", token: "express:$", want: `const express = require("express");`},
		{name: "AlternativeNamed", token: "get::lodash:$", want: `const get = require("lodash").get;`},
		{name: "SideEffect", token: "=./styles.css", want: `"./styles.css";`},
		{name: "SideEffectForced", token: "=./styles.css", forceFull: true, want: `import styles from "./styles.css";`},
		{name: "SideEffectCommonJS", token: "=./polyfill:$", want: `require("./polyfill");`},
		{name: "AssignmentContext", token: "lodash", context: "const _ = lodash", want: `"lodash";`},
		{name: "AssignmentContextForced", token: "lodash", context: "const _ = lodash", forceFull: true, want: `import lodash from "lodash";`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Render(resolved(t, tc.token, tc.context, s), tc.forceFull, s)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRender_StyleFollowsDefaultAndMarker(t *testing.T) {
	for _, es6Default := range []bool{true, false} {
		s := config.Defaults()
		s.ES6ByDefault = es6Default
		for _, alt := range []bool{false, true} {
			spec := &parser.ImportSpec{IsAlternativeStyle: alt}
			want := StyleCommonJS
			if es6Default != alt {
				want = StyleES6
			}
			assert.Equal(t, want, StyleOf(spec, s), "es6_by_default=%v alternative=%v", es6Default, alt)
		}
	}
}

func TestRender_PendingSpec(t *testing.T) {
	spec := parser.Parse("Button", "", config.Defaults())
	_, err := Render(&spec, false, config.Defaults())
	require.Error(t, err)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeInvalidState))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "", Join(nil))
	assert.Equal(t, "a;", Join([]string{"a;"}))
	assert.Equal(t, "a;\nb;", Join([]string{"a;", "b;", "a;", ""}))
}
