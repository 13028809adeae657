package shared

import (
	"path/filepath"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	restore := getRuntime
	t.Cleanup(func() { getRuntime = restore })

	tc := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			t.Setenv("BROWSER", "")
			getRuntime = func() string { return tt.goos }

			cmd, err := browserCommand("https://example.com")
			if (err != nil) != tt.wantErr {
				t.Fatalf("browserCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := filepath.Base(cmd.Path); got != tt.want && cmd.Args[0] != tt.want {
				t.Errorf("expected launcher %s, got %s", tt.want, cmd.Args[0])
			}
		})
	}

	t.Run("BROWSER override", func(t *testing.T) {
		t.Setenv("BROWSER", "firefox")
		cmd, err := browserCommand("https://example.com")
		if err != nil {
			t.Fatalf("browserCommand() error = %v", err)
		}
		if cmd.Args[0] != "firefox" {
			t.Errorf("expected firefox, got %s", cmd.Args[0])
		}
	})
}
