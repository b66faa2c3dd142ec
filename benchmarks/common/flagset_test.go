package common

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaultFlagsAreValid(t *testing.T) {
	if err := DefaultFlags().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Flags){
		"empty grid":       func(f *Flags) { f.Width = 0 },
		"single cell":      func(f *Flags) { f.Width, f.Height = 1, 1 },
		"negative dummies": func(f *Flags) { f.DummyAgents = -1 },
		"light range":      func(f *Flags) { f.LightPeriodMin, f.LightPeriodMax = 5, 3 },
		"deadline factor":  func(f *Flags) { f.DeadlineFactor = 0 },
		"no trials":        func(f *Flags) { f.Trials = 0 },
		"negative ticks":   func(f *Flags) { f.MaxTicks = -1 },
		"unbounded trials": func(f *Flags) { f.EnforceDeadline, f.MaxTicks = false, 0 },
	}
	for name, mutate := range cases {
		f := DefaultFlags()
		mutate(f)
		if err := f.Validate(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestAddFlags(t *testing.T) {
	f := DefaultFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.AddFlags(fs)

	err := fs.Parse([]string{"--width", "10", "--trials", "7", "--enforce-deadline=false", "--seed", "42"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Width != 10 || f.Trials != 7 || f.EnforceDeadline || f.Seed != 42 {
		t.Fatalf("unexpected flags %+v", f)
	}
	if f.Height != 6 || f.MaxTicks != 500 {
		t.Fatalf("expected untouched defaults, got %+v", f)
	}
}

func TestRecord(t *testing.T) {
	f := DefaultFlags()
	f.SavePath = path.Join(t.TempDir(), "results")
	if err := f.Record(); err != nil {
		t.Fatalf("record: %v", err)
	}

	bs, err := os.ReadFile(path.Join(f.SavePath, "config.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	saved := &Flags{}
	if err := json.Unmarshal(bs, saved); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if *saved != *f {
		t.Fatalf("expected %+v, got %+v", f, saved)
	}
}
