// Package service installs the coach as a macOS launchd agent that runs
// "coach run" at login.
package service

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/chris/growthcoach/config"
	"github.com/joho/godotenv"
)

const Label = "com.growthcoach.coach"

// Service describes where the agent is installed. Build one with Default.
type Service struct {
	Label   string
	BinPath string
	HomeDir string
	Out     io.Writer
	// run executes launchctl; replaced in tests.
	run func(args ...string) error
}

func Default() *Service {
	home, _ := os.UserHomeDir()
	return &Service{
		Label:   Label,
		BinPath: "/usr/local/bin/coach",
		HomeDir: home,
		Out:     os.Stdout,
		run:     launchctl,
	}
}

func (s *Service) plistPath() string {
	return filepath.Join(s.HomeDir, "Library", "LaunchAgents", s.Label+".plist")
}

func (s *Service) logPath(stream string) string {
	return filepath.Join(s.HomeDir, "Library", "Logs", "coach-"+stream+".log")
}

// Install copies the running binary to BinPath, seeds the per-user config
// from .env when missing, writes the plist and loads it.
func (s *Service) Install() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}
	if exe, err = filepath.EvalSymlinks(exe); err != nil {
		return fmt.Errorf("resolving symlinks: %w", err)
	}
	if exe != s.BinPath {
		input, err := os.ReadFile(exe)
		if err != nil {
			return fmt.Errorf("reading binary: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(s.BinPath), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(s.BinPath), err)
		}
		if err := os.WriteFile(s.BinPath, input, 0755); err != nil {
			return fmt.Errorf("copying binary to %s: %w", s.BinPath, err)
		}
		fmt.Fprintf(s.Out, "installed binary to %s\n", s.BinPath)
	}

	if err := s.seedConfig(".env"); err != nil {
		return err
	}

	env, _ := godotenv.Read(config.ConfigFile())
	plist, err := s.Plist(resolveWorkDir(env), env)
	if err != nil {
		return fmt.Errorf("generating plist: %w", err)
	}

	if _, err := os.Stat(s.plistPath()); err == nil {
		_ = s.run("unload", s.plistPath())
	}
	if err := os.MkdirAll(filepath.Dir(s.plistPath()), 0755); err != nil {
		return fmt.Errorf("creating LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(s.plistPath(), []byte(plist), 0644); err != nil {
		return fmt.Errorf("writing plist: %w", err)
	}
	fmt.Fprintf(s.Out, "wrote plist to %s\n", s.plistPath())

	if err := s.run("load", s.plistPath()); err != nil {
		return fmt.Errorf("loading plist: %w", err)
	}
	fmt.Fprintln(s.Out, "coach loaded and will start on login")
	return nil
}

// seedConfig copies envFile to the per-user config unless one exists.
func (s *Service) seedConfig(envFile string) error {
	configFile := config.ConfigFile()
	if _, err := os.Stat(configFile); err == nil {
		fmt.Fprintf(s.Out, "config already exists at %s\n", configFile)
		return nil
	}
	data, err := os.ReadFile(envFile)
	if err != nil {
		return nil
	}
	if err := os.MkdirAll(config.ConfigDir(), 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(s.Out, "seeded config from %s -> %s\n", envFile, configFile)
	return nil
}

// resolveWorkDir keeps relative DATABASE_PATH and credential paths working
// by running from the install directory; otherwise the config dir is used.
func resolveWorkDir(env map[string]string) string {
	for _, key := range []string{"DATABASE_PATH", "GOOGLE_APPLICATION_CREDENTIALS"} {
		if p, ok := env[key]; ok && p != "" && !filepath.IsAbs(p) {
			if wd, err := os.Getwd(); err == nil {
				return wd
			}
		}
	}
	return config.ConfigDir()
}

func (s *Service) Uninstall() error {
	if _, err := os.Stat(s.plistPath()); err == nil {
		if err := s.run("unload", s.plistPath()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: unload failed: %v\n", err)
		}
		if err := os.Remove(s.plistPath()); err != nil {
			return fmt.Errorf("removing plist: %w", err)
		}
		fmt.Fprintf(s.Out, "removed %s\n", s.plistPath())
	} else {
		fmt.Fprintln(s.Out, "plist not found, skipping")
	}

	if _, err := os.Stat(s.BinPath); err == nil {
		if err := os.Remove(s.BinPath); err != nil {
			return fmt.Errorf("removing binary: %w", err)
		}
		fmt.Fprintf(s.Out, "removed %s\n", s.BinPath)
	}
	fmt.Fprintln(s.Out, "uninstalled")
	return nil
}

func (s *Service) Start() error { return s.run("start", s.Label) }
func (s *Service) Stop() error  { return s.run("stop", s.Label) }

func (s *Service) Status() error {
	if err := s.run("list", s.Label); err != nil {
		fmt.Fprintln(s.Out, "coach is not loaded")
	}
	return nil
}

// Logs follows both log files until interrupted.
func (s *Service) Logs() error {
	cmd := exec.Command("tail", "-f", s.logPath("stdout"), s.logPath("stderr"))
	cmd.Stdout = s.Out
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func launchctl(args ...string) error {
	cmd := exec.Command("launchctl", args...)
	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launchctl %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return nil
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.BinPath}}</string>
		<string>run</string>
	</array>
	<key>WorkingDirectory</key>
	<string>{{.WorkDir}}</string>
{{- if .Credentials}}
	<key>EnvironmentVariables</key>
	<dict>
		<key>GOOGLE_APPLICATION_CREDENTIALS</key>
		<string>{{.Credentials}}</string>
	</dict>
{{- end}}
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>{{.StdoutLog}}</string>
	<key>StandardErrorPath</key>
	<string>{{.StderrLog}}</string>
</dict>
</plist>
`))

// Plist renders the launchd agent definition. launchd does not inherit the
// login shell's environment, so the credentials path is set explicitly.
func (s *Service) Plist(workDir string, env map[string]string) (string, error) {
	creds := env["GOOGLE_APPLICATION_CREDENTIALS"]
	if creds == "" {
		creds = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	var buf bytes.Buffer
	err := plistTemplate.Execute(&buf, struct {
		Label, BinPath, WorkDir, Credentials, StdoutLog, StderrLog string
	}{
		Label:       s.Label,
		BinPath:     s.BinPath,
		WorkDir:     workDir,
		Credentials: creds,
		StdoutLog:   s.logPath("stdout"),
		StderrLog:   s.logPath("stderr"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
