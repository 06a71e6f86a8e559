package reconcile

import (
	"testing"

	"github.com/mcoding/dunders/internal/github"
	"github.com/mcoding/dunders/internal/types"
)

func TestFormatPath(t *testing.T) {
	got := FormatPath(testRoot, "src/math-land/add.py")
	want := "[`src/math-land/add.py`](" + testRoot + "src/math-land/add.py)"
	if got != want {
		t.Errorf("FormatPath() = %q, want %q", got, want)
	}
}

func TestIssueBody(t *testing.T) {
	tests := []struct {
		name   string
		dunder types.Dunder
		want   string
	}{
		{
			name:   "empty",
			dunder: types.Dunder{Name: "`__a__`"},
			want:   "",
		},
		{
			name:   "description only",
			dunder: types.Dunder{Name: "`__a__`", Description: "Does things"},
			want:   "Does things",
		},
		{
			name:   "folder and description",
			dunder: types.Dunder{Name: "`__a__`", Group: types.GroupCCliff, Description: "Does things"},
			want:   "Folder: [`src/c-cliff`](" + testRoot + "src/c-cliff)\n\nDoes things",
		},
		{
			name:   "files only",
			dunder: types.Dunder{Name: "`__a__`", Files: []string{"a.py", "b/c.py"}},
			want:   "Files:\n- [`a.py`](" + testRoot + "a.py)\n- [`b/c.py`](" + testRoot + "b/c.py)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IssueBody(testRoot, &tt.dunder); got != tt.want {
				t.Errorf("IssueBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildIssueRequestUnresolvedMilestone(t *testing.T) {
	d := &types.Dunder{Name: "`__a__`", Group: types.GroupMathLand}
	milestones := map[types.Group]github.Milestone{types.GroupCCliff: {Number: 3}}

	req := BuildIssueRequest(testRoot, d, milestones, false)
	if req.Milestone != 0 {
		t.Errorf("Milestone = %d, want 0", req.Milestone)
	}
}

func TestClosesComment(t *testing.T) {
	if got := ClosesComment(42); got != "Closes #42." {
		t.Errorf("ClosesComment(42) = %q", got)
	}
}
