package flowdir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) string
		dataDir string
		want    string
	}{
		{"store", StorePath, "/data", filepath.Join("/data", "store")},
		{"logs", LogsPath, "/data", filepath.Join("/data", "logs")},
		{"log file", LogFilePath, "/data", filepath.Join("/data", "flowtask.log")},
		{"config", ConfigPath, "/data", filepath.Join("/data", "flowtask.toml")},
		{"empty dir", StorePath, "", filepath.Join(".flowtask", "store")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.dataDir); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsure(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "flow")
	if err := Ensure(dataDir); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	for _, dir := range []string{StorePath(dataDir), LogsPath(dataDir)} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s, err=%v", dir, err)
		}
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := Default(); got != filepath.Join("/home/tester", ".flowtask") {
		t.Errorf("Default() = %q", got)
	}
}
