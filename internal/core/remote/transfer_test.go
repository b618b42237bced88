package remote

import (
	"reflect"
	"testing"
)

func TestRemotePaths(t *testing.T) {
	files := []LocalFile{{Path: "/tmp/a.sql"}, {Path: "dumps/b.sql"}}

	got, err := RemotePaths("/srv/in", files)
	if err != nil {
		t.Fatalf("RemotePaths failed: %v", err)
	}
	want := []string{"/srv/in/a.sql", "/srv/in/b.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RemotePaths = %v, want %v", got, want)
	}

	_, err = RemotePaths("/srv/in", []LocalFile{{Path: "x/a.sql"}, {Path: "y/a.sql"}})
	if err == nil {
		t.Error("expected collision error")
	}
}

func TestParseSizes(t *testing.T) {
	remotePaths := []string{"/srv/a", "/srv/b", "/srv/c"}
	out := "10\t0\n  7\t2\ngarbage\nx\t1\n5\t9\n"

	got := ParseSizes(out, remotePaths)
	want := map[string]int64{"/srv/a": 10, "/srv/c": 7}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSizes = %v, want %v", got, want)
	}
}

func TestPlanTransfer(t *testing.T) {
	files := []LocalFile{
		{Path: "new.sql", Size: 3},
		{Path: "same.sql", Size: 5},
		{Path: "changed.sql", Size: 8},
	}
	remotePaths := []string{"/r/new.sql", "/r/same.sql", "/r/changed.sql"}
	sizes := map[string]int64{"/r/same.sql": 5, "/r/changed.sql": 4}

	tests := []struct {
		name  string
		force bool
		want  []bool
	}{
		{"idempotent", false, []bool{true, false, true}},
		{"forced", true, []bool{true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := PlanTransfer(files, remotePaths, sizes, tt.force)
			if len(steps) != len(files) {
				t.Fatalf("expected %d steps, got %d", len(files), len(steps))
			}
			for i, step := range steps {
				if step.Copy != tt.want[i] {
					t.Errorf("%s: Copy = %v, want %v (%s)", step.LocalPath, step.Copy, tt.want[i], step.Reason)
				}
				if step.RemotePath != remotePaths[i] {
					t.Errorf("%s: RemotePath = %s", step.LocalPath, step.RemotePath)
				}
			}
		})
	}
}
