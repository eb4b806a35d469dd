package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nnnkkk7/typebridge/pkg/catalog"
	"github.com/nnnkkk7/typebridge/pkg/types"
)

func TestDuckDBTable(t *testing.T) {
	fields := []Field{
		{Descriptor: FieldDescriptor{Name: "id"}, Native: catalog.MustResolve(types.Postgres, "Integer")},
		{Descriptor: FieldDescriptor{Name: "total"}, Native: catalog.MustResolve(types.Postgres, "Decimal", "10", "2")},
		{Descriptor: FieldDescriptor{Name: `odd"name`}, Native: catalog.MustResolve(types.Postgres, "Text")},
	}

	want := `CREATE TABLE "orders" ("id" INTEGER, "total" DECIMAL(10,2), "odd""name" VARCHAR)`
	if diff := cmp.Diff(want, DuckDBTable("orders", fields)); diff != "" {
		t.Errorf("DuckDBTable() mismatch (-want +got):\n%s", diff)
	}
}
