package ffmpegsource

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/user/vidcomp/pkg/ports"
)

// findExecutable searches for an ffmpeg-family executable. A non-empty
// custom path wins; otherwise PATH is checked, then common install
// locations.
func findExecutable(name, customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ports.ErrFFmpegNotFound, customPath)
	}

	execName := name
	if runtime.GOOS == "windows" {
		execName = name + ".exe"
	}

	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\` + execName,
			`C:\Program Files\ffmpeg\bin\` + execName,
			`C:\Program Files (x86)\ffmpeg\bin\` + execName,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/" + name,
			"/usr/local/bin/" + name,
			"/opt/homebrew/bin/" + name,
			"/snap/bin/" + name,
		}
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ports.ErrFFmpegNotFound, name)
}
