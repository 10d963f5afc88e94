package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"definitely-not-a-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"list", "add", "remove", "resize", "chat", "login", "register", "logout", "whoami", "transcribe", "export", "healthcheck"}

	registered := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestAddCommandRejectsUnknownType(t *testing.T) {
	rootCmd.SetArgs([]string{"add", "weather"})
	rootCmd.SetOut(&bytes.Buffer{})
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("add with unknown type should fail")
	}
	if !strings.Contains(err.Error(), "unknown widget type") {
		t.Errorf("error = %v", err)
	}
}

func TestWidgetTypeList(t *testing.T) {
	list := widgetTypeList()
	for _, want := range []string{"attendance", "fitness", "teams", "grading"} {
		if !strings.Contains(list, want) {
			t.Errorf("widgetTypeList() missing %q: %s", want, list)
		}
	}
	if strings.HasPrefix(list, ",") || strings.HasSuffix(list, ",") {
		t.Errorf("widgetTypeList() badly joined: %s", list)
	}
}
