package xwrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantKind Kind
		wantCtx  string
	}{
		{
			"no params",
			"package p\n\nfunc f() {}\n",
			KindPlain, "",
		},
		{
			"plain params",
			"package p\n\nfunc f(a int, b string) {}\n",
			KindPlain, "",
		},
		{
			"context first",
			"package p\n\nimport \"context\"\n\nfunc f(ctx context.Context) {}\n",
			KindContext, "ctx",
		},
		{
			"context renamed",
			"package p\n\nimport \"context\"\n\nfunc f(reqCtx context.Context, n int) {}\n",
			KindContext, "reqCtx",
		},
		{
			"context not first",
			"package p\n\nimport \"context\"\n\nfunc f(n int, ctx context.Context) {}\n",
			KindPlain, "",
		},
		{
			"context underscore",
			"package p\n\nimport \"context\"\n\nfunc f(_ context.Context) {}\n",
			KindPlain, "",
		},
		{
			"context unnamed",
			"package p\n\nimport \"context\"\n\nfunc f(context.Context) {}\n",
			KindPlain, "",
		},
		{
			"context pointer",
			"package p\n\nimport \"context\"\n\nfunc f(ctx *context.Context) {}\n",
			KindPlain, "",
		},
		{
			"aliased context import",
			"package p\n\nimport stdctx \"context\"\n\nfunc f(ctx stdctx.Context) {}\n",
			KindPlain, "",
		},
		{
			"foreign Context type",
			"package p\n\nimport \"example.com/pkg\"\n\nfunc f(c pkg.Context) {}\n",
			KindPlain, "",
		},
		{
			"name group shares context type",
			"package p\n\nimport \"context\"\n\nfunc f(ctx, fallback context.Context) {}\n",
			KindContext, "ctx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fn := mustParse(t, tt.src)
			kind, ctxName := classify(fn)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantCtx, ctxName)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "plain", KindPlain.String())
	assert.Equal(t, "context", KindContext.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
