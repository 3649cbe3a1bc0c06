package config

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvHomeDir overrides the directory relative runtime paths are resolved against.
const EnvHomeDir = "LANDER_HOME"

// BaseDir is LANDER_HOME when set, otherwise the working directory, falling back to the executable's directory.
func BaseDir() string {
	if home := strings.TrimSpace(os.Getenv(EnvHomeDir)); home != "" {
		return filepath.Clean(home)
	}
	if wd, err := os.Getwd(); err == nil && strings.TrimSpace(wd) != "" {
		return wd
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, resolveErr := filepath.EvalSymlinks(exe); resolveErr == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	return "."
}

// ResolveRuntimePath turns raw (or fallbackSubdir when raw is empty) into an absolute path under BaseDir.
func ResolveRuntimePath(raw string, fallbackSubdir string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = strings.TrimSpace(fallbackSubdir)
	}
	if target == "" {
		return BaseDir()
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(BaseDir(), target)
}
