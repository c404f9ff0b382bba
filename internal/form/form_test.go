package form

import (
	"errors"
	"testing"

	"github.com/idilsaglam/mythings/internal/model"
)

func TestItemValidate(t *testing.T) {
	cases := []struct {
		name   string
		form   Item
		fields []string
	}{
		{"ok", Item{Name: "Jacket", Brand: "Uniqlo", Category: "Outer", Price: "59.99"}, nil},
		{"dollar sign ok", Item{Name: "Jacket", Brand: "Uniqlo", Category: "Outer", Price: "$59.99"}, nil},
		{"blank name", Item{Name: "  ", Brand: "Uniqlo", Category: "Outer", Price: "1"}, []string{"name"}},
		{"all blank", Item{}, []string{"name", "brand", "category", "price"}},
		{"non numeric price", Item{Name: "a", Brand: "b", Category: "c", Price: "cheap"}, []string{"price"}},
		{"exponent price", Item{Name: "a", Brand: "b", Category: "c", Price: "9e999999999"}, []string{"price"}},
		{"inner dollar", Item{Name: "a", Brand: "b", Category: "c", Price: "1$2"}, []string{"price"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.form
			err := f.Validate()
			if tc.fields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			for _, fld := range tc.fields {
				if !ve.Has(fld) {
					t.Errorf("missing field %q in %v", fld, ve.Fields)
				}
			}
			if len(ve.Fields) != len(tc.fields) {
				t.Errorf("fields = %v, want %v", ve.Fields, tc.fields)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	f := Item{Name: " Jacket ", Brand: "Uniqlo", Category: "Outer", Price: " $59.99"}
	it, err := f.Build("id-1", "img.png")
	if err != nil {
		t.Fatal(err)
	}
	if it.ID != "id-1" || it.ImageName != "img.png" || it.Name != "Jacket" || it.Price.Display() != "$59.99" {
		t.Fatalf("built %+v", it)
	}
	if _, err := (&Item{Name: "x"}).Build("id", ""); err == nil {
		t.Fatal("invalid form built an item")
	}
}

func TestFromItemRoundTrip(t *testing.T) {
	p, _ := model.ParsePrice("12.5")
	orig := model.Item{ID: "x", ImageName: "x.png", Name: "Mug", Brand: "Muji", Category: "Kitchen", Price: p}
	f := FromItem(orig)
	got, err := f.Build(orig.ID, orig.ImageName)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(orig) {
		t.Fatalf("got %+v", got)
	}
}

func TestCategoryValidate(t *testing.T) {
	ok := Category{Name: " Books ", Color: " Teal"}
	if err := ok.Validate(); err != nil || ok.Name != "Books" || ok.Color != "teal" {
		t.Fatalf("%+v %v", ok, err)
	}
	noColor := Category{Name: "Books"}
	if err := noColor.Validate(); err != nil {
		t.Fatalf("empty color should default later: %v", err)
	}
	bad := Category{Name: "", Color: "mauve"}
	var ve *ValidationError
	if err := bad.Validate(); !errors.As(err, &ve) || !ve.Has("name") || !ve.Has("color") {
		t.Fatalf("got %v", err)
	}
}
