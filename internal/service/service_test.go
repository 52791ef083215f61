package service

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chris/growthcoach/config"
)

func testService(t *testing.T) (*Service, *[][]string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	var calls [][]string
	return &Service{
		Label:   Label,
		BinPath: filepath.Join(home, "bin", "coach"),
		HomeDir: home,
		Out:     io.Discard,
		run: func(args ...string) error {
			calls = append(calls, args)
			return nil
		},
	}, &calls
}

func TestPlist(t *testing.T) {
	s, _ := testService(t)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	out, err := s.Plist("/work", map[string]string{"GOOGLE_APPLICATION_CREDENTIALS": "/keys/sa.json"})
	if err != nil {
		t.Fatalf("Plist: %v", err)
	}
	for _, want := range []string{
		"<string>" + Label + "</string>",
		"<string>" + s.BinPath + "</string>\n\t\t<string>run</string>",
		"<string>/work</string>",
		"<string>/keys/sa.json</string>",
		"coach-stderr.log",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plist missing %q:\n%s", want, out)
		}
	}

	out, _ = s.Plist("/work", nil)
	if strings.Contains(out, "EnvironmentVariables") {
		t.Errorf("plist without credentials should have no environment:\n%s", out)
	}
}

func TestResolveWorkDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, _ := os.Getwd()

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"nothing set", nil, config.ConfigDir()},
		{"absolute paths", map[string]string{"DATABASE_PATH": "/var/coach.db"}, config.ConfigDir()},
		{"relative db", map[string]string{"DATABASE_PATH": "./coach.db"}, wd},
		{"relative credentials", map[string]string{"GOOGLE_APPLICATION_CREDENTIALS": "sa.json"}, wd},
	}
	for _, tt := range tests {
		if got := resolveWorkDir(tt.env); got != tt.want {
			t.Errorf("%s: resolveWorkDir = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSeedConfig(t *testing.T) {
	s, _ := testService(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("GROWTH_COACH_SSID=abc\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := s.seedConfig(envFile); err != nil {
		t.Fatalf("seedConfig: %v", err)
	}
	data, err := os.ReadFile(config.ConfigFile())
	if err != nil || string(data) != "GROWTH_COACH_SSID=abc\n" {
		t.Fatalf("config = %q, %v", data, err)
	}

	// An existing config is left alone.
	os.WriteFile(envFile, []byte("GROWTH_COACH_SSID=other\n"), 0600)
	s.seedConfig(envFile)
	if data, _ := os.ReadFile(config.ConfigFile()); string(data) != "GROWTH_COACH_SSID=abc\n" {
		t.Errorf("existing config overwritten: %q", data)
	}
}

func TestStartStopStatus(t *testing.T) {
	s, calls := testService(t)
	s.Start()
	s.Stop()
	s.Status()
	want := []string{"start", "stop", "list"}
	if len(*calls) != len(want) {
		t.Fatalf("launchctl calls = %v", *calls)
	}
	for i, c := range *calls {
		if c[0] != want[i] || c[1] != Label {
			t.Errorf("call %d = %v", i, c)
		}
	}
}

func TestUninstall(t *testing.T) {
	s, calls := testService(t)
	os.MkdirAll(filepath.Dir(s.plistPath()), 0755)
	os.WriteFile(s.plistPath(), []byte("<plist/>"), 0644)
	os.MkdirAll(filepath.Dir(s.BinPath), 0755)
	os.WriteFile(s.BinPath, []byte("bin"), 0755)

	if err := s.Uninstall(); err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if _, err := os.Stat(s.plistPath()); !os.IsNotExist(err) {
		t.Error("plist still present")
	}
	if _, err := os.Stat(s.BinPath); !os.IsNotExist(err) {
		t.Error("binary still present")
	}
	if len(*calls) != 1 || (*calls)[0][0] != "unload" {
		t.Errorf("launchctl calls = %v", *calls)
	}
}
