package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/testsupport"
	"github.com/goliatone/go-slicerform/pkg/validation"
)

func lint(t *testing.T, body string) validation.Result {
	t.Helper()
	doc, err := schema.FromString("cli.xml", body)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	return validation.ValidateDocument(testsupport.Context(), doc, validation.Options{})
}

func TestValidateDocument_Clean(t *testing.T) {
	result := lint(t, `<executable>
  <title>Clean</title>
  <parameters>
    <label>IO</label>
    <description>Inputs</description>
    <image><name>input</name><label>Input</label><index>0</index></image>
    <double>
      <name>sigma</name><label>Sigma</label><longflag>sigma</longflag>
      <default>2</default>
      <constraints><minimum>0</minimum><maximum>10</maximum><step>0.5</step></constraints>
    </double>
  </parameters>
</executable>`)
	if !result.Valid || len(result.Issues) != 0 {
		t.Fatalf("expected clean result, got %+v", result)
	}
}

func TestValidateDocument_Issues(t *testing.T) {
	result := lint(t, `<executable>
  <parameters>
    <label>Params</label>
    <description>All of them</description>
    <integer>
      <name>count</name><label>Count</label><longflag>count</longflag>
      <default>20</default>
      <constraints><minimum>0</minimum><maximum>10</maximum></constraints>
    </integer>
    <integer><name>count</name><label>Again</label><longflag>again</longflag></integer>
    <float>
      <name>ratio</name><label>Ratio</label><longflag>ratio</longflag>
      <constraints><minimum>5</minimum><maximum>1</maximum></constraints>
    </float>
    <string-enumeration><name>mode</name><label>Mode</label><longflag>mode</longflag></string-enumeration>
    <string><label>Anonymous</label><flag>a</flag></string>
    <boolean><name>loose</name><label>Loose</label></boolean>
    <widget><name>odd</name></widget>
  </parameters>
</executable>`)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}

	got := make([]string, len(result.Issues))
	for i, issue := range result.Issues {
		got[i] = issue.String()
	}
	want := []string{
		"warning: unhandled parameter type <widget> was dropped",
		"warning executable (title): executable has no title",
		"error panels[0].groups[0].parameters[0] (count): default is invalid: value must be at most 10",
		"error panels[0].groups[0].parameters[1] (count): duplicate parameter id, first declared at panels[0].groups[0].parameters[0]",
		"error panels[0].groups[0].parameters[2] (ratio): minimum is greater than maximum",
		"error panels[0].groups[0].parameters[3] (mode): enumeration has no <element> values",
		"error panels[0].groups[0].parameters[4]: <string> has neither <name> nor <longflag>",
		"warning panels[0].groups[0].parameters[5] (loose): parameter has no flag, longflag or index",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDocument_Malformed(t *testing.T) {
	result := lint(t, "<executable><parameters>")
	if result.Valid || len(result.Issues) != 1 {
		t.Fatalf("expected a single parse issue, got %+v", result)
	}
	if !strings.Contains(result.Issues[0].Message, "malformed") {
		t.Fatalf("unexpected message %q", result.Issues[0].Message)
	}
}

func TestValidateDocument_Description(t *testing.T) {
	doc, err := schema.FromString("cli.yaml", `
title: Described
parameter_groups:
  - label: G
    parameters:
      - type: string
        name: s
        label: S
        flag: s
`)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	result := validation.ValidateDocument(testsupport.Context(), doc, validation.Options{})
	if !result.Valid {
		t.Fatalf("expected valid description, got %+v", result.Issues)
	}
}
