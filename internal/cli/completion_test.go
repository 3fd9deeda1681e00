package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteAreaIDs(t *testing.T) {
	logicPath := writeLogic(t)

	tests := []struct {
		name       string
		args       []string
		toComplete string
		want       []string
		directive  cobra.ShellCompDirective
	}{
		{"ids", []string{logicPath}, "", []string{"A1\tpower 2.00", "A2\tpower 1.00"}, cobra.ShellCompDirectiveNoFileComp},
		{"list", []string{logicPath}, "A1,", []string{"A1,A1\tpower 2.00", "A1,A2\tpower 1.00"}, cobra.ShellCompDirectiveNoFileComp},
		{"no logic yet", nil, "", nil, cobra.ShellCompDirectiveNoFileComp},
		{"missing logic", []string{"missing.json"}, "", nil, cobra.ShellCompDirectiveError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dir := completeAreaIDs(nil, tt.args, tt.toComplete)
			if dir != tt.directive {
				t.Errorf("directive = %v, want %v", dir, tt.directive)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("completions = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteFormats(t *testing.T) {
	got, _ := completeFormats(nil, nil, "png,")
	if len(got) != 3 {
		t.Fatalf("completions = %q", got)
	}
	for _, c := range got {
		if !strings.HasPrefix(c, "png,") {
			t.Errorf("completion %q lost the typed prefix", c)
		}
	}
}

func TestCompleteLogicFile(t *testing.T) {
	exts, dir := completeLogicFile(nil, nil, "")
	if dir != cobra.ShellCompDirectiveFilterFileExt || strings.Join(exts, ",") != "json,toml" {
		t.Errorf("first arg = %q, %v", exts, dir)
	}
	if _, dir := completeLogicFile(nil, []string{"logic.json"}, ""); dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("later args directive = %v", dir)
	}
}

func TestHighlightFlagCompletion(t *testing.T) {
	logicPath := writeLogic(t)
	var out bytes.Buffer
	root := newTestCLI(io.Discard).RootCommand()
	root.SetArgs([]string{cobra.ShellCompRequestCmd, "render", logicPath, "--highlight", ""})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(t.Context()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "A1\tpower 2.00") || !strings.Contains(out.String(), "A2") {
		t.Errorf("completion output = %q", out.String())
	}
}

func TestCompletionScript(t *testing.T) {
	var out bytes.Buffer
	c := newTestCLI(&out)
	if err := execute(t, c, "completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "areamap") {
		t.Error("bash script does not mention the command")
	}
}
