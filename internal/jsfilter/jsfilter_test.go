package jsfilter

import (
	"errors"
	"testing"
)

func TestCompile_RejectsEmptyAndInvalid(t *testing.T) {
	if _, err := Compile("", 0); err == nil {
		t.Fatalf("expected error for empty source")
	}
	if _, err := Compile("function (", 0); err == nil {
		t.Fatalf("expected error for invalid source")
	}
}

func TestKeep_Truthiness(t *testing.T) {
	cases := []struct {
		name   string
		source string
		path   string
		want   bool
	}{
		{"substring match", `path.indexOf("folder4") !== -1`, "/tmp/folder4/file1.txt", true},
		{"substring miss", `path.indexOf("folder4") !== -1`, "/tmp/folder1/file1.txt", false},
		{"extension check", `path.endsWith(".txt")`, "/tmp/a.txt", true},
		{"numeric truthiness", `path.length`, "/tmp/a", true},
		{"explicit false", `false`, "/anything", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pred, err := Compile(tc.source, 0)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := pred.Keep(tc.path)
			if err != nil {
				t.Fatalf("keep: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestKeep_RuntimeError(t *testing.T) {
	pred, err := Compile(`nosuchfn(path)`, 0)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := pred.Keep("/tmp/x"); err == nil {
		t.Fatalf("expected runtime error")
	}
}

func TestKeep_TimeoutInterruptsLoop(t *testing.T) {
	pred, err := Compile(`for(;;){}`, 50)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := pred.Keep("/tmp/x"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
