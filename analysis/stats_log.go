package analysis

import (
	"bufio"
	"fmt"
	"os"

	"github.com/zeu5/torcs-qlearning/core"
	"github.com/zeu5/torcs-qlearning/util"
)

// FileStatisticsLog keeps one line per episode in a flat text file.
// Lines are appended in place: earlier lines are never rewritten, so an
// interrupted write can only lose the line being written.
type FileStatisticsLog struct {
	path string
}

var _ core.StatisticsLog = &FileStatisticsLog{}

func NewFileStatisticsLog(path string) *FileStatisticsLog {
	return &FileStatisticsLog{path: path}
}

func (f *FileStatisticsLog) Path() string {
	return f.path
}

func (f *FileStatisticsLog) Append(line string) error {
	if err := util.EnsureDir(f.path); err != nil {
		return fmt.Errorf("statistics dir: %w", err)
	}
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open statistics: %w", err)
	}
	if _, err := file.WriteString(line + "\n"); err != nil {
		file.Close()
		return fmt.Errorf("append statistics: %w", err)
	}
	return file.Close()
}

// Lines returns every line in file order. A missing file has no lines.
func (f *FileStatisticsLog) Lines() ([]string, error) {
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open statistics: %w", err)
	}
	defer file.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read statistics: %w", err)
	}
	return lines, nil
}
