package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/phpsym/internal/types"
)

func TestNamespace_Qualify(t *testing.T) {
	assert.Equal(t, "Foo", Namespace{}.Qualify("Foo"))
	assert.Equal(t, `App\Foo`, Namespace{Name: "App"}.Qualify("Foo"))
	assert.True(t, Namespace{}.IsGlobal())
	assert.False(t, Namespace{Name: "App"}.IsGlobal())
}

func TestNamespace_ResolveClassName(t *testing.T) {
	ns := Namespace{
		Name: `App\Http`,
		Uses: []UseImport{
			{Kind: UseClass, Name: `Vendor\Lib\Client`, Alias: "Client"},
			{Kind: UseFunction, Name: `Vendor\Lib\helper`, Alias: "Helper"},
			{Kind: UseClass, Name: `Vendor\Models`, Alias: "Models"},
		},
	}

	tests := []struct {
		ref  string
		want string
	}{
		{`\Global\Thing`, `Global\Thing`},
		{"Client", `Vendor\Lib\Client`},
		{"client", `Vendor\Lib\Client`},
		{`Models\User`, `Vendor\Models\User`},
		{"Helper", `App\Http\Helper`},
		{"Request", `App\Http\Request`},
		{`Sub\Request`, `App\Http\Sub\Request`},
		{`namespace\Local`, `App\Http\Local`},
		{"self", "self"},
		{"Parent", "Parent"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, ns.ResolveClassName(tt.ref))
		})
	}
}

func TestDeclarationKind(t *testing.T) {
	assert.Equal(t, types.KindClass, DeclClass.IdentifierKind())
	assert.Equal(t, types.KindFunction, DeclFunction.IdentifierKind())
	assert.Equal(t, types.KindConstant, DeclConstStatement.IdentifierKind())
	assert.Equal(t, types.KindConstant, DeclDefineCall.IdentifierKind())
	assert.Equal(t, types.KindUnknown, DeclUnknown.IdentifierKind())
	assert.Equal(t, "define_call", DeclDefineCall.String())
	assert.Equal(t, 0, DeclarationNode{}.Line())
}
