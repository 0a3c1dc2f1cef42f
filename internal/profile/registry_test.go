package profile

import (
	"reflect"
	"testing"
)

func testProfile(name, vendor string) Profile {
	return Profile{
		Name:    name,
		Vendor:  vendor,
		Mapping: map[string]string{"time": "Time"},
	}
}

func TestRegisterAndGet(t *testing.T) {
	t.Cleanup(Clear)

	Register(testProfile("vendor-x", "X"))

	p, ok := Get("vendor-x")
	if !ok {
		t.Fatal("registered profile not found")
	}
	if p.Vendor != "X" {
		t.Errorf("Vendor = %q", p.Vendor)
	}

	if _, ok := Get("missing"); ok {
		t.Error("Get() found a profile that was never registered")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	t.Cleanup(Clear)

	Register(testProfile("dup", "X"))

	defer func() {
		if recover() == nil {
			t.Error("second Register() with the same name did not panic")
		}
	}()
	Register(testProfile("dup", "Y"))
}

func TestRegisterInvalidPanics(t *testing.T) {
	t.Cleanup(Clear)

	defer func() {
		if recover() == nil {
			t.Error("Register() accepted a profile without a mapping")
		}
	}()
	Register(Profile{Name: "broken"})
}

func TestAllSortedByVendorThenName(t *testing.T) {
	t.Cleanup(Clear)

	Register(testProfile("b-two", "Beta"))
	Register(testProfile("a-two", "Beta"))
	Register(testProfile("z-one", "Alpha"))

	var names []string
	for _, p := range All() {
		names = append(names, p.Name)
	}

	want := []string{"z-one", "a-two", "b-two"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("All() order = %v, want %v", names, want)
	}
}

func TestByVendor(t *testing.T) {
	t.Cleanup(Clear)

	Register(testProfile("one", "Lotek"))
	Register(testProfile("two", "Vectronic"))
	Register(testProfile("three", "Lotek"))

	got := ByVendor("Lotek")
	if len(got) != 2 || got[0].Name != "one" || got[1].Name != "three" {
		t.Errorf("ByVendor() = %v", got)
	}
}

func TestVendors(t *testing.T) {
	t.Cleanup(Clear)

	Register(testProfile("one", "Lotek"))
	Register(testProfile("two", "Vectronic"))
	Register(testProfile("three", "Lotek"))

	want := []string{"Lotek", "Vectronic"}
	if got := Vendors(); !reflect.DeepEqual(got, want) {
		t.Errorf("Vendors() = %v, want %v", got, want)
	}
}

func TestCount(t *testing.T) {
	t.Cleanup(Clear)

	if Count() != 0 {
		t.Fatalf("Count() = %d on a fresh registry", Count())
	}
	Register(testProfile("one", "X"))
	Register(testProfile("two", "X"))
	if Count() != 2 {
		t.Errorf("Count() = %d, want 2", Count())
	}
}
