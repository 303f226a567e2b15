package syntax

import "testing"

func TestFlatten(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ThisIsATriumph", "this_is_a_triumph"},
		{"IAmMakingANoteHere", "i_am_making_a_note_here"},
		{"huge_success", "huge_success"},
		{"It's hard to   Overstate my satisfaction!!!", "its_hard_to_overstate_my_satisfaction"},
		{"__aperature_science__", "__aperature_science__"},
		{"WeDoWhatWeMustBecause!<We, Can>()", "we_do_what_we_must_because_we_can"},
		{"For_The_Good_of_all_of_us_Except_TheOnes_Who Are Dead", "for_the_good_of_all_of_us_except_the_ones_who_are_dead"},
		{"", ""},
		{"already_snake", "already_snake"},
		{"ABC", "a_b_c"},
		{"HTTPServer", "h_t_t_p_server"},
		{"trailing_", "trailing_"},
		{"_Leading", "_leading"},
		{"Mixed   Spaces Here", "mixed_spaces_here"},
		{"Number2Field", "number_2_field"},
	}
	for _, c := range cases {
		if got := Flatten(c.in); got != c.want {
			t.Errorf("Flatten(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFlattenDeterministic(t *testing.T) {
	// Slot names must be stable across repeated runs.
	for i := 0; i < 3; i++ {
		if got := Flatten("SomeExportedItem"); got != "some_exported_item" {
			t.Fatalf("run %d: got %q", i, got)
		}
	}
}
