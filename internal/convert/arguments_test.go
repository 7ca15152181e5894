package convert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckArguments(t *testing.T) {
	values := fullValues("esop.docx")
	missing, invalid := CheckArguments(values)
	if len(missing) != 0 || len(invalid) != 0 {
		t.Fatalf("CheckArguments(full) = %v, %v", missing, invalid)
	}

	delete(values, FileNameArgument)
	delete(values, "curr-block-hash")
	values["zeta"] = "1"
	values["alpha"] = "2"
	missing, invalid = CheckArguments(values)
	if diff := cmp.Diff([]string{FileNameArgument, "curr-block-hash"}, missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"alpha", "zeta"}, invalid); diff != "" {
		t.Errorf("invalid mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckArgumentsEmptyValueCountsAsSupplied(t *testing.T) {
	values := fullValues("esop.docx")
	values["bonus-options"] = ""
	if missing, _ := CheckArguments(values); len(missing) != 0 {
		t.Errorf("missing = %v, want none", missing)
	}
}

func TestTagFor(t *testing.T) {
	tests := map[string]string{
		"company-address":         "company_address",
		"new-employee-pool-share": "new_employee_pool_share",
		"plain":                   "plain",
	}
	for in, want := range tests {
		if got := TagFor(in); got != want {
			t.Errorf("TagFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlaceholderArguments(t *testing.T) {
	got := PlaceholderArguments()
	if len(got) != len(RequiredArguments)-1 {
		t.Fatalf("len = %d, want %d", len(got), len(RequiredArguments)-1)
	}
	for _, name := range got {
		if name == FileNameArgument {
			t.Errorf("PlaceholderArguments() should not include %s", FileNameArgument)
		}
	}
}
