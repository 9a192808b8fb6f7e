package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"mojes/internal/diag"
	"mojes/internal/source"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("counts = %+v", out)
	}
	first := out.Diagnostics[0]
	if first.Code != "STR1002" || first.Function != "describe" || first.Location != (LocationJSON{File: "main.rs", Line: 3, Col: 5}) {
		t.Fatalf("first = %+v", first)
	}
	if len(first.Notes) != 1 || first.Notes[0].Message != "match starts here" {
		t.Fatalf("notes = %+v", first.Notes)
	}
}

func TestJSONMaxAndTimingNotes(t *testing.T) {
	bag := sampleBag()
	bag.Force(diag.New(diag.SevInfo, diag.ObsTimings, "", source.Pos{}, "timings (build): total 1.00 ms").
		WithNote(source.Pos{}, `{"kind":"build"}`))

	out := BuildDiagnosticsOutput(bag, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Notes != nil {
		t.Fatalf("max/notes: %+v", out)
	}
	out = BuildDiagnosticsOutput(bag, JSONOpts{})
	last := out.Diagnostics[len(out.Diagnostics)-1]
	if last.Code != "OBS6001" || len(last.Notes) != 1 {
		t.Fatalf("timing notes must always be included: %+v", last)
	}
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	if err := Sarif(&buf, sampleBag(), SarifRunMeta{ToolVersion: "0.1.0", InvocationArgs: []string{"mojes", "build"}}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "mojes" || len(run.Tool.Driver.Rules) != 2 || len(run.Results) != 2 {
		t.Fatalf("run = %+v", run)
	}
	if run.Results[0].Level != "error" || run.Results[0].Locations[0].PhysicalLocation.Region.StartLine != 3 {
		t.Fatalf("first result = %+v", run.Results[0])
	}
	if run.Results[1].Locations[0].PhysicalLocation != nil || run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("second result = %+v, invocations %+v", run.Results[1], run.Invocations)
	}
}
