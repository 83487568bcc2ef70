package fetch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ToolInfo describes a located fetch tool.
type ToolInfo struct {
	Shell  string // full path to the interpreter, empty when the script runs directly
	Script string // full path to the script
}

// Detect locates the interpreter and the script.
// The script is looked up in the work directory first, then in PATH.
func Detect(opts Options) (*ToolInfo, error) {
	info := &ToolInfo{}

	if opts.Shell != "" {
		path, err := exec.LookPath(opts.Shell)
		if err != nil {
			return nil, fmt.Errorf("%w: shell %s: %v", ErrToolNotFound, opts.Shell, err)
		}
		info.Shell = path
	}

	script := opts.Script
	if !filepath.IsAbs(script) && opts.WorkDir != "" {
		candidate := filepath.Join(opts.WorkDir, script)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			info.Script = candidate
			return info, nil
		}
	}
	if st, err := os.Stat(script); err == nil && !st.IsDir() {
		abs, err := filepath.Abs(script)
		if err != nil {
			return nil, fmt.Errorf("resolve script path: %w", err)
		}
		info.Script = abs
		return info, nil
	}
	path, err := exec.LookPath(script)
	if err != nil {
		return nil, fmt.Errorf("%w: script %s: %v", ErrToolNotFound, script, err)
	}
	info.Script = path
	return info, nil
}
